package models

import "time"

// ChatRoom represents a 1-on-1 chat session between two users.
// It holds the state of the chat, including participants and its active status.
type ChatRoom struct {
	// RoomID is the unique identifier for the chat room.
	RoomID string `json:"room_id"`
	// User1 is the first occupant. Always set while the room exists.
	User1 *User `json:"user1"`
	// User2 is the second occupant. Nil while the room waits for a partner.
	User2 *User `json:"user2,omitempty"`
	// IsActive indicates whether the chat room is currently active.
	IsActive bool `json:"is_active"`
	// StartedAt is the timestamp when the chat room was created.
	StartedAt time.Time `json:"started_at"`
	// EndedAt is the timestamp when the chat room was closed.
	EndedAt time.Time `json:"ended_at,omitempty"`
}

// Partner returns the chat partner for a given user ID, or nil if the
// user is not in the room or no partner has joined yet.
func (r *ChatRoom) Partner(userID string) *User {
	switch {
	case r.User1 != nil && r.User1.ID == userID:
		return r.User2
	case r.User2 != nil && r.User2.ID == userID:
		return r.User1
	}
	return nil
}

// HasUser reports whether the user occupies one of the room's slots.
func (r *ChatRoom) HasUser(userID string) bool {
	if r.User1 != nil && r.User1.ID == userID {
		return true
	}
	return r.User2 != nil && r.User2.ID == userID
}

// Paired reports whether both slots are occupied.
func (r *ChatRoom) Paired() bool {
	return r.User1 != nil && r.User2 != nil
}
