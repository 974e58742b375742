package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// User represents an anonymous chat participant. The struct is immutable
// after creation; a fresh identity is minted for every issued session.
type User struct {
	// ID is the anonymous UUID identifying the user across calls.
	ID string `json:"user_id"`
	// DisplayName is the optional name chosen by the user.
	DisplayName string `json:"display_name,omitempty"`
	// JoinedAt is the timestamp when the identity was created.
	JoinedAt time.Time `json:"joined_at"`
}

// NewUser creates a fresh identity with a generated anonymous UUID.
func NewUser(displayName string) *User {
	return &User{
		ID:          uuid.New().String(),
		DisplayName: displayName,
		JoinedAt:    time.Now(),
	}
}

// Name returns the display name, or a deterministic anonymous label
// derived from the ID when no name was given.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return fmt.Sprintf("Anonymous-%s", u.ID[:8])
}
