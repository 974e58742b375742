package chatcore

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"pairchat/backend/internal/models"
)

// RoomRegistry owns the set of chat rooms and the user-to-room index.
// Closed rooms stay retrievable by ID but are evicted from the index.
// All methods return snapshots; room state is only mutated under the
// registry mutex.
type RoomRegistry struct {
	mu       sync.Mutex
	rooms    map[string]*models.ChatRoom
	userRoom map[string]string // user ID -> room ID, active rooms only
}

// NewRoomRegistry creates an empty registry whose lifetime equals the
// server process.
func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		rooms:    make(map[string]*models.ChatRoom),
		userRoom: make(map[string]string),
	}
}

// NewRoom creates an active room for a matched pair and indexes both users.
// Fails only when both inputs are the same user.
func (r *RoomRegistry) NewRoom(a, b *models.User) (models.ChatRoom, error) {
	if a.ID == b.ID {
		return models.ChatRoom{}, ErrIdenticalUsers
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	room := &models.ChatRoom{
		RoomID:    uuid.New().String(),
		User1:     a,
		User2:     b,
		IsActive:  true,
		StartedAt: time.Now(),
	}
	r.rooms[room.RoomID] = room
	r.userRoom[a.ID] = room.RoomID
	r.userRoom[b.ID] = room.RoomID
	return *room, nil
}

// NewSingleOccupantRoom creates an active room under a caller-chosen ID with
// only the first slot filled. Returns ErrRoomExists when the ID is taken,
// so two racing creators resolve deterministically (the loser joins instead).
func (r *RoomRegistry) NewSingleOccupantRoom(roomID string, occupant *models.User) (models.ChatRoom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[roomID]; ok {
		return models.ChatRoom{}, ErrRoomExists
	}
	room := &models.ChatRoom{
		RoomID:    roomID,
		User1:     occupant,
		IsActive:  true,
		StartedAt: time.Now(),
	}
	r.rooms[roomID] = room
	r.userRoom[occupant.ID] = roomID
	return *room, nil
}

// JoinExisting admits a second occupant into a room with one free slot.
// Admission is atomic: of two concurrent joiners exactly one wins the slot,
// the other receives ErrRoomFull.
func (r *RoomRegistry) JoinExisting(roomID string, occupant *models.User) (models.ChatRoom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return models.ChatRoom{}, ErrRoomNotFound
	}
	if !room.IsActive {
		return models.ChatRoom{}, ErrRoomInactive
	}
	if room.HasUser(occupant.ID) {
		return models.ChatRoom{}, ErrAlreadyInRoom
	}
	if room.Paired() {
		return models.ChatRoom{}, ErrRoomFull
	}

	room.User2 = occupant
	r.userRoom[occupant.ID] = roomID
	return *room, nil
}

// Get returns the room by ID, including closed rooms.
func (r *RoomRegistry) Get(roomID string) (models.ChatRoom, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return models.ChatRoom{}, false
	}
	return *room, true
}

// RoomOf returns the active room a user currently occupies.
func (r *RoomRegistry) RoomOf(userID string) (models.ChatRoom, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomID, ok := r.userRoom[userID]
	if !ok {
		return models.ChatRoom{}, false
	}
	room, ok := r.rooms[roomID]
	if !ok {
		return models.ChatRoom{}, false
	}
	return *room, true
}

// Close deactivates a room and evicts its occupants from the index. The room
// record stays retrievable. Closing an already-closed room is a no-op that
// returns the existing record with closed=false.
func (r *RoomRegistry) Close(roomID string) (room models.ChatRoom, closed, found bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closeLocked(roomID)
}

// RemoveUser closes the room the user currently occupies, if any.
func (r *RoomRegistry) RemoveUser(userID string) (room models.ChatRoom, closed, found bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomID, ok := r.userRoom[userID]
	if !ok {
		return models.ChatRoom{}, false, false
	}
	return r.closeLocked(roomID)
}

// ActiveCount returns the number of currently active rooms.
func (r *RoomRegistry) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, room := range r.rooms {
		if room.IsActive {
			n++
		}
	}
	return n
}

func (r *RoomRegistry) closeLocked(roomID string) (models.ChatRoom, bool, bool) {
	room, ok := r.rooms[roomID]
	if !ok {
		return models.ChatRoom{}, false, false
	}
	if !room.IsActive {
		return *room, false, true
	}

	room.IsActive = false
	room.EndedAt = time.Now()
	if room.User1 != nil && r.userRoom[room.User1.ID] == roomID {
		delete(r.userRoom, room.User1.ID)
	}
	if room.User2 != nil && r.userRoom[room.User2.ID] == roomID {
		delete(r.userRoom, room.User2.ID)
	}
	return *room, true, true
}
