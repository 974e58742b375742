package chatcore

import (
	"sync"

	"pairchat/backend/internal/models"
)

// WaitQueue is the strictly FIFO queue of users waiting to be paired.
// Pairing always matches the two longest-waiting users; no user is ever
// skipped in favor of a later arrival.
type WaitQueue struct {
	mu      sync.Mutex
	entries []*models.User
	queued  map[string]struct{}
}

// NewWaitQueue creates an empty queue.
func NewWaitQueue() *WaitQueue {
	return &WaitQueue{queued: make(map[string]struct{})}
}

// Enqueue appends the user and returns their 1-based position. A user
// already present keeps their place and their existing position is returned.
func (q *WaitQueue) Enqueue(user *models.User) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.queued[user.ID]; ok {
		return q.indexOf(user.ID) + 1
	}
	q.entries = append(q.entries, user)
	q.queued[user.ID] = struct{}{}
	return len(q.entries)
}

// Dequeue removes a specific user if present, preserving the FIFO order of
// the remaining entries. Reports whether the user was removed.
func (q *WaitQueue) Dequeue(userID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	i := q.indexOf(userID)
	if i < 0 {
		return false
	}
	q.entries = append(q.entries[:i], q.entries[i+1:]...)
	delete(q.queued, userID)
	return true
}

// TryPopPair removes and returns the two oldest entries in arrival order.
// It only succeeds when at least two users are waiting.
func (q *WaitQueue) TryPopPair() (a, b *models.User, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) < 2 {
		return nil, nil, false
	}
	a, b = q.entries[0], q.entries[1]
	q.entries = q.entries[2:]
	delete(q.queued, a.ID)
	delete(q.queued, b.ID)
	return a, b, true
}

// PositionOf returns the user's 1-based position, if queued.
func (q *WaitQueue) PositionOf(userID string) (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	i := q.indexOf(userID)
	if i < 0 {
		return 0, false
	}
	return i + 1, true
}

// Len returns the number of waiting users.
func (q *WaitQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

func (q *WaitQueue) indexOf(userID string) int {
	for i, u := range q.entries {
		if u.ID == userID {
			return i
		}
	}
	return -1
}
