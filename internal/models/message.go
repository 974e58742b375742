package models

import (
	"time"

	"github.com/google/uuid"
)

// SystemSenderID marks messages produced by the server itself
// (join and disconnect notices) rather than by an occupant.
const SystemSenderID = "system"

// Message is a chat message in flight. Messages exist only transiently:
// they are handed to the recipient's mailbox or dropped, never stored.
type Message struct {
	MessageID  string    `json:"message_id"`
	RoomID     string    `json:"room_id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	System     bool      `json:"system,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewMessage creates a user message with a generated ID and current timestamp.
func NewMessage(roomID string, sender *User, content string) *Message {
	return &Message{
		MessageID:  uuid.New().String(),
		RoomID:     roomID,
		SenderID:   sender.ID,
		SenderName: sender.Name(),
		Content:    content,
		Timestamp:  time.Now(),
	}
}

// NewSystemMessage creates a server-originated notice for a room.
func NewSystemMessage(roomID, content string) *Message {
	return &Message{
		MessageID:  uuid.New().String(),
		RoomID:     roomID,
		SenderID:   SystemSenderID,
		SenderName: "System",
		Content:    content,
		System:     true,
		Timestamp:  time.Now(),
	}
}
