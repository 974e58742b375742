package chatcore

import (
	"context"
	"log"
	"sync"
	"time"

	"pairchat/backend/internal/models"
)

type mailboxKey struct {
	roomID string
	userID string
}

// Relay implements long-poll delivery. It maps (room, user) keys to bounded
// message channels that exist only while a wait call is in flight. At most
// one live registration exists per key: a newer wait replaces the prior one
// and the displaced waiter returns ErrWaitReplaced immediately.
//
// Map mutation and channel sends both happen under the relay mutex, so a
// replacement can close the old channel without racing a delivery. A waiter
// only ever blocks on its own channel, never under the mutex.
type Relay struct {
	mu    sync.Mutex
	boxes map[mailboxKey]*Mailbox
	gen   uint64
}

// NewRelay creates an empty relay whose lifetime equals the server process.
func NewRelay() *Relay {
	return &Relay{boxes: make(map[mailboxKey]*Mailbox)}
}

// Mailbox is the ephemeral right to receive the next message addressed to a
// (room, user) pair. It is valid for a single Await call.
type Mailbox struct {
	relay *Relay
	key   mailboxKey
	gen   uint64
	ch    chan *models.Message
}

// Register creates the bounded channel for the key, replacing and waking any
// prior waiter. The bound keeps memory flat if the recipient never collects.
func (r *Relay) Register(roomID, userID string, capacity int) *Mailbox {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := mailboxKey{roomID: roomID, userID: userID}
	if prev, ok := r.boxes[key]; ok {
		close(prev.ch)
	}
	r.gen++
	mb := &Mailbox{
		relay: r,
		key:   key,
		gen:   r.gen,
		ch:    make(chan *models.Message, capacity),
	}
	r.boxes[key] = mb
	return mb
}

// TryDeliver attempts a non-blocking push into the recipient's currently
// registered channel. False means the recipient is not polling right now or
// their channel is full; either way the message is dropped, which is the
// at-most-once contract, not an error.
func (r *Relay) TryDeliver(roomID, recipientID string, msg *models.Message) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	mb, ok := r.boxes[mailboxKey{roomID: roomID, userID: recipientID}]
	if !ok {
		return false
	}
	select {
	case mb.ch <- msg:
		return true
	default:
		log.Printf("relay: mailbox full for user %s in room %s, dropping message %s",
			recipientID, roomID, msg.MessageID)
		return false
	}
}

// HasWaiter reports whether a live registration exists for the key.
func (r *Relay) HasWaiter(roomID, userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.boxes[mailboxKey{roomID: roomID, userID: userID}]
	return ok
}

// Await blocks until a message arrives, the timeout elapses, or ctx is
// cancelled. The registration is removed before Await returns on every exit
// path, so no stale registration outlives its call.
func (mb *Mailbox) Await(ctx context.Context, timeout time.Duration) (*models.Message, error) {
	defer mb.Unregister()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case msg, ok := <-mb.ch:
		if !ok {
			return nil, ErrWaitReplaced
		}
		return msg, nil
	case <-timer.C:
		return nil, ErrWaitTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Unregister removes this registration. A registration that was already
// replaced by a newer one is left untouched.
func (mb *Mailbox) Unregister() {
	r := mb.relay
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.boxes[mb.key]; ok && cur.gen == mb.gen {
		delete(r.boxes, mb.key)
	}
}
