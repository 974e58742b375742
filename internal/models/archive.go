package models

import (
	"time"

	"github.com/lib/pq" // required for pq.StringArray
	"gorm.io/gorm"
)

// RoomArchive is the PostgreSQL record kept for a closed chat room.
// Only room metadata is archived; message content is never persisted.
type RoomArchive struct {
	gorm.Model

	// RoomID is the identifier the room carried while it was live.
	RoomID string `gorm:"type:text;not null;uniqueIndex"`
	// Occupants holds the anonymous IDs of the users who occupied the room.
	Occupants pq.StringArray `gorm:"type:text[]"`
	// DisplayNames holds the resolved display names, index-aligned with Occupants.
	DisplayNames pq.StringArray `gorm:"type:text[]"`
	// StartedAt is when the room was created.
	StartedAt time.Time
	// EndedAt is when the room was closed.
	EndedAt time.Time
}
