package chatcore_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pairchat/backend/internal/chatcore"
	"pairchat/backend/internal/models"
)

// TestRoomsNewRoomIndexesBothUsers verifies pairing creates an active room
// and indexes both occupants.
func TestRoomsNewRoomIndexesBothUsers(t *testing.T) {
	// Arrange
	reg := chatcore.NewRoomRegistry()
	alice, bob := models.NewUser("Alice"), models.NewUser("Bob")

	// Act
	room, err := reg.NewRoom(alice, bob)

	// Assert
	require.NoError(t, err)
	assert.True(t, room.IsActive)
	assert.True(t, room.Paired())

	got, ok := reg.RoomOf(alice.ID)
	assert.True(t, ok)
	assert.Equal(t, room.RoomID, got.RoomID)

	got, ok = reg.RoomOf(bob.ID)
	assert.True(t, ok)
	assert.Equal(t, room.RoomID, got.RoomID)
}

// TestRoomsNewRoomIdenticalUsers verifies a user can never occupy both slots.
func TestRoomsNewRoomIdenticalUsers(t *testing.T) {
	reg := chatcore.NewRoomRegistry()
	alice := models.NewUser("Alice")

	_, err := reg.NewRoom(alice, alice)
	assert.ErrorIs(t, err, chatcore.ErrIdenticalUsers)
}

// TestRoomsSingleOccupantThenJoin verifies the direct-join lifecycle:
// caller-chosen room ID, one slot filled, then a partner admitted.
func TestRoomsSingleOccupantThenJoin(t *testing.T) {
	// Arrange
	reg := chatcore.NewRoomRegistry()
	alice, bob := models.NewUser("Alice"), models.NewUser("Bob")

	// Act
	room, err := reg.NewSingleOccupantRoom("room-42", alice)
	require.NoError(t, err)
	assert.False(t, room.Paired())

	joined, err := reg.JoinExisting("room-42", bob)

	// Assert
	require.NoError(t, err)
	assert.True(t, joined.Paired())
	assert.Equal(t, alice.ID, joined.Partner(bob.ID).ID)

	_, ok := reg.RoomOf(bob.ID)
	assert.True(t, ok)
}

// TestRoomsSingleOccupantRoomExists verifies the create path loses
// deterministically when the ID is already taken.
func TestRoomsSingleOccupantRoomExists(t *testing.T) {
	reg := chatcore.NewRoomRegistry()
	reg.NewSingleOccupantRoom("room-42", models.NewUser("Alice"))

	_, err := reg.NewSingleOccupantRoom("room-42", models.NewUser("Bob"))
	assert.ErrorIs(t, err, chatcore.ErrRoomExists)
}

// TestRoomsJoinFailures verifies the recoverable join outcomes.
func TestRoomsJoinFailures(t *testing.T) {
	// Arrange
	reg := chatcore.NewRoomRegistry()
	alice, bob := models.NewUser("Alice"), models.NewUser("Bob")
	reg.NewSingleOccupantRoom("room-42", alice)

	// Unknown room
	_, err := reg.JoinExisting("no-such-room", bob)
	assert.ErrorIs(t, err, chatcore.ErrRoomNotFound)

	// Rejoining your own room
	_, err = reg.JoinExisting("room-42", alice)
	assert.ErrorIs(t, err, chatcore.ErrAlreadyInRoom)

	// Full room
	_, err = reg.JoinExisting("room-42", bob)
	require.NoError(t, err)
	_, err = reg.JoinExisting("room-42", models.NewUser("Carol"))
	assert.ErrorIs(t, err, chatcore.ErrRoomFull)

	// Closed room
	reg.Close("room-42")
	_, err = reg.JoinExisting("room-42", models.NewUser("Dave"))
	assert.ErrorIs(t, err, chatcore.ErrRoomInactive)
}

// TestRoomsCloseIdempotent verifies closing twice yields the same closed
// record both times, with the transition reported only once.
func TestRoomsCloseIdempotent(t *testing.T) {
	// Arrange
	reg := chatcore.NewRoomRegistry()
	alice, bob := models.NewUser("Alice"), models.NewUser("Bob")
	room, _ := reg.NewRoom(alice, bob)

	// Act
	first, closed, found := reg.Close(room.RoomID)
	require.True(t, found)
	assert.True(t, closed)
	assert.False(t, first.IsActive)

	second, closed, found := reg.Close(room.RoomID)

	// Assert
	require.True(t, found)
	assert.False(t, closed, "second close is a no-op")
	assert.Equal(t, first.RoomID, second.RoomID)
	assert.Equal(t, first.EndedAt, second.EndedAt)

	// The record stays retrievable, the index does not.
	_, ok := reg.Get(room.RoomID)
	assert.True(t, ok)
	_, ok = reg.RoomOf(alice.ID)
	assert.False(t, ok)
	_, ok = reg.RoomOf(bob.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, reg.ActiveCount())
}

// TestRoomsCloseUnknown verifies closing an unknown room reports not found.
func TestRoomsCloseUnknown(t *testing.T) {
	reg := chatcore.NewRoomRegistry()

	_, _, found := reg.Close("ghost")
	assert.False(t, found)
}

// TestRoomsRemoveUser verifies disconnect cleanup closes the user's room.
func TestRoomsRemoveUser(t *testing.T) {
	// Arrange
	reg := chatcore.NewRoomRegistry()
	alice, bob := models.NewUser("Alice"), models.NewUser("Bob")
	room, _ := reg.NewRoom(alice, bob)

	// Act
	got, closed, found := reg.RemoveUser(alice.ID)

	// Assert
	require.True(t, found)
	assert.True(t, closed)
	assert.Equal(t, room.RoomID, got.RoomID)

	_, _, found = reg.RemoveUser(alice.ID)
	assert.False(t, found, "user no longer indexed after close")
}

// TestRoomsJoinRaceSingleWinner verifies the second slot is admitted
// atomically: of two concurrent joiners exactly one wins.
func TestRoomsJoinRaceSingleWinner(t *testing.T) {
	// Arrange
	reg := chatcore.NewRoomRegistry()
	reg.NewSingleOccupantRoom("room-42", models.NewUser("Alice"))

	joiners := []*models.User{models.NewUser("Bob"), models.NewUser("Carol")}
	results := make(chan error, len(joiners))

	// Act
	var wg sync.WaitGroup
	for _, u := range joiners {
		wg.Add(1)
		go func(u *models.User) {
			defer wg.Done()
			_, err := reg.JoinExisting("room-42", u)
			results <- err
		}(u)
	}
	wg.Wait()
	close(results)

	// Assert
	var wins, fulls int
	for err := range results {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, chatcore.ErrRoomFull)
		fulls++
	}
	assert.Equal(t, 1, wins, "exactly one joiner wins the second slot")
	assert.Equal(t, 1, fulls)

	room, _ := reg.Get("room-42")
	assert.True(t, room.Paired())
}
