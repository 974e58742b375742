package chatcore

import "errors"

// Recoverable outcomes returned to callers. None of these is fatal; the
// transport maps them to structured error responses.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomInactive    = errors.New("chat has ended")
	ErrRoomFull        = errors.New("room is full")
	ErrRoomExists      = errors.New("room already exists")
	ErrAlreadyInRoom   = errors.New("user already in the room")
	ErrNotInRoom       = errors.New("user not in the room")
	ErrPartnerMissing  = errors.New("partner not found")
	ErrIdenticalUsers  = errors.New("cannot pair a user with themselves")

	// ErrWaitTimeout marks the distinguished "no message" outcome of a wait.
	ErrWaitTimeout = errors.New("no message received within timeout")
	// ErrWaitReplaced is returned to a waiter displaced by a newer wait
	// call for the same room and user.
	ErrWaitReplaced = errors.New("wait replaced by a newer wait call")
)
