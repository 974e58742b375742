package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pairchat/backend/internal/models"
)

// TestChatRoomPartner verifies partner resolution for both slots and for
// strangers, including a room still waiting for its second occupant.
func TestChatRoomPartner(t *testing.T) {
	// Arrange
	alice := models.NewUser("Alice")
	bob := models.NewUser("Bob")
	room := &models.ChatRoom{RoomID: "r1", User1: alice, User2: bob, IsActive: true}

	// Assert
	assert.Equal(t, bob, room.Partner(alice.ID))
	assert.Equal(t, alice, room.Partner(bob.ID))
	assert.Nil(t, room.Partner("stranger"))

	single := &models.ChatRoom{RoomID: "r2", User1: alice, IsActive: true}
	assert.Nil(t, single.Partner(alice.ID), "no partner until the second slot fills")
	assert.False(t, single.Paired())
	assert.True(t, room.Paired())
}

// TestChatRoomHasUser verifies membership checks against both slots.
func TestChatRoomHasUser(t *testing.T) {
	// Arrange
	alice := models.NewUser("Alice")
	room := &models.ChatRoom{RoomID: "r1", User1: alice, IsActive: true}

	// Assert
	assert.True(t, room.HasUser(alice.ID))
	assert.False(t, room.HasUser("someone-else"))
}
