package chatcore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"pairchat/backend/internal/models"
	"pairchat/backend/internal/notify"
)

// Archiver persists a record of a closed room. Failures are logged, never
// surfaced; the in-memory registries stay authoritative.
type Archiver interface {
	SaveClosedRoom(room *models.ChatRoom) error
}

// Options bounds the service's wait and mailbox behavior.
type Options struct {
	Secret          []byte
	WaitMin         time.Duration
	WaitMax         time.Duration
	MailboxCapacity int
}

func (o *Options) fillDefaults() {
	if o.WaitMin <= 0 {
		o.WaitMin = time.Second
	}
	if o.WaitMax <= 0 {
		o.WaitMax = 300 * time.Second
	}
	if o.MailboxCapacity <= 0 {
		o.MailboxCapacity = 100
	}
}

// Service orchestrates pairing, direct joins, message relay, and teardown
// across the session registry, wait queue, room registry, and mailbox relay.
// Each component guards its own state; no lock is ever held across a
// suspension point.
type Service struct {
	opts Options

	Sessions *Sessions
	Queue    *WaitQueue
	Rooms    *RoomRegistry
	Relay    *Relay

	notifier notify.Notifier
	archive  Archiver
}

// NewService wires the engine. notifier must be non-nil (use notify.Nop{});
// archive may be nil to disable room archival.
func NewService(opts Options, notifier notify.Notifier, archive Archiver) *Service {
	opts.fillDefaults()
	return &Service{
		opts:     opts,
		Sessions: NewSessions(opts.Secret),
		Queue:    NewWaitQueue(),
		Rooms:    NewRoomRegistry(),
		Relay:    NewRelay(),
		notifier: notifier,
		archive:  archive,
	}
}

// Queue and join statuses reported to callers.
const (
	StatusWaiting     = "waiting"
	StatusMatched     = "matched"
	StatusRoomCreated = "room_created"
	StatusJoined      = "joined"
)

// QueueResult is the outcome of EnterQueue.
type QueueResult struct {
	Status      string
	Handle      string
	Position    int
	QueueLength int
	RoomID      string
	Partner     *models.User
}

// JoinResult is the outcome of JoinRoom.
type JoinResult struct {
	Status  string
	Handle  string
	RoomID  string
	Partner *models.User
}

// SendResult is the outcome of SendMessage.
type SendResult struct {
	MessageID string
	Timestamp time.Time
}

// WaitResult is the outcome of WaitForMessage. TimedOut marks the
// distinguished "no message" outcome; it is not an error.
type WaitResult struct {
	TimedOut bool
	Message  *models.Message
}

// StatusResult is a snapshot of server load.
type StatusResult struct {
	QueueLength int
	ActiveRooms int
}

// EnterQueue admits a new session into the wait queue and pairs the two
// longest-waiting users when possible. The caller may or may not be part of
// the popped pair: with two users already waiting, they keep priority.
func (s *Service) EnterQueue(ctx context.Context, displayName string) (*QueueResult, error) {
	handle, user, err := s.Sessions.Issue(displayName)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	position := s.Queue.Enqueue(user)
	log.Printf("chat: user %s entered queue at position %d", user.Name(), position)

	a, b, ok := s.Queue.TryPopPair()
	if ok {
		room, err := s.Rooms.NewRoom(a, b)
		if err != nil {
			return nil, err
		}
		log.Printf("chat: matched %s with %s in room %s", a.Name(), b.Name(), room.RoomID)

		s.notifier.Notify(a.ID, notify.ChatroomFound(room.RoomID, b))
		s.notifier.Notify(b.ID, notify.ChatroomFound(room.RoomID, a))

		if room.HasUser(user.ID) {
			return &QueueResult{
				Status:  StatusMatched,
				Handle:  handle,
				RoomID:  room.RoomID,
				Partner: room.Partner(user.ID),
			}, nil
		}
	}

	position, _ = s.Queue.PositionOf(user.ID)
	return &QueueResult{
		Status:      StatusWaiting,
		Handle:      handle,
		Position:    position,
		QueueLength: s.Queue.Len(),
	}, nil
}

// JoinRoom admits a new session directly into a named room, creating a
// single-occupant room when the ID is unknown. A failed join revokes the
// session it would have issued.
func (s *Service) JoinRoom(ctx context.Context, roomID, displayName string) (*JoinResult, error) {
	handle, user, err := s.Sessions.Issue(displayName)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	room, err := s.Rooms.NewSingleOccupantRoom(roomID, user)
	if err == nil {
		log.Printf("chat: created room %s for %s", roomID, user.Name())
		return &JoinResult{Status: StatusRoomCreated, Handle: handle, RoomID: roomID}, nil
	}
	if !errors.Is(err, ErrRoomExists) {
		s.Sessions.Revoke(handle)
		return nil, err
	}

	room, err = s.Rooms.JoinExisting(roomID, user)
	if err != nil {
		s.Sessions.Revoke(handle)
		return nil, err
	}

	partner := room.Partner(user.ID)
	log.Printf("chat: user %s joined room %s", user.Name(), roomID)

	notice := models.NewSystemMessage(roomID, fmt.Sprintf("%s has joined the chat.", user.Name()))
	s.Relay.TryDeliver(roomID, partner.ID, notice)
	s.notifier.Notify(partner.ID, notify.PartnerJoined(roomID, user))

	return &JoinResult{Status: StatusJoined, Handle: handle, RoomID: roomID, Partner: partner}, nil
}

// SendMessage relays a message to the sender's partner. Delivery is best
// effort: when the partner is not polling the message is dropped and only
// the out-of-band notifier learns about it.
func (s *Service) SendMessage(ctx context.Context, roomID, content, handle string) (*SendResult, error) {
	user, room, err := s.resolveMember(roomID, handle)
	if err != nil {
		return nil, err
	}
	partner := room.Partner(user.ID)
	if partner == nil {
		return nil, ErrPartnerMissing
	}

	msg := models.NewMessage(roomID, user, content)
	if !s.Relay.TryDeliver(roomID, partner.ID, msg) {
		log.Printf("chat: no active waiter for %s in room %s, message %s dropped",
			partner.Name(), roomID, msg.MessageID)
	}
	s.notifier.Notify(partner.ID, notify.MessageReceived(roomID, user, content))

	return &SendResult{MessageID: msg.MessageID, Timestamp: msg.Timestamp}, nil
}

// WaitForMessage long-polls the caller's mailbox for the room. The timeout
// is clamped to the configured bounds; elapsing it yields TimedOut, not an
// error. The mailbox registration is gone by the time the call returns,
// whether by delivery, timeout, replacement, or cancellation.
func (s *Service) WaitForMessage(ctx context.Context, roomID, handle string, timeout time.Duration) (*WaitResult, error) {
	user, _, err := s.resolveMember(roomID, handle)
	if err != nil {
		return nil, err
	}

	timeout = s.clampTimeout(timeout)
	mb := s.Relay.Register(roomID, user.ID, s.opts.MailboxCapacity)
	log.Printf("chat: user %s waiting for messages in room %s (timeout %s)", user.Name(), roomID, timeout)

	msg, err := mb.Await(ctx, timeout)
	switch {
	case err == nil:
		return &WaitResult{Message: msg}, nil
	case errors.Is(err, ErrWaitTimeout):
		return &WaitResult{TimedOut: true}, nil
	default:
		// Replacement or caller cancellation; cleanup already ran in Await.
		return nil, err
	}
}

// LeaveChat closes the caller's room, tells the partner, and destroys the
// caller's session. Leaving an already-closed room acknowledges without
// re-notifying.
func (s *Service) LeaveChat(ctx context.Context, roomID, handle string) error {
	user, err := s.Sessions.Resolve(handle)
	if err != nil {
		return err
	}
	room, ok := s.Rooms.Get(roomID)
	if !ok {
		return ErrRoomNotFound
	}
	if !room.HasUser(user.ID) {
		return ErrNotInRoom
	}

	closedRoom, closed, _ := s.Rooms.Close(roomID)
	log.Printf("chat: user %s left room %s", user.Name(), roomID)

	if closed {
		if partner := room.Partner(user.ID); partner != nil {
			notice := models.NewSystemMessage(roomID, "Your chat partner has left the conversation.")
			s.Relay.TryDeliver(roomID, partner.ID, notice)
			s.notifier.Notify(partner.ID, notify.PartnerDisconnected(roomID, "left"))
		}
		s.archiveRoom(&closedRoom)
	}

	s.Sessions.Revoke(handle)
	return nil
}

// Disconnect is the collaborator-driven cleanup path for a dropped client:
// out of the queue, out of their room with the partner notified, session gone.
func (s *Service) Disconnect(handle string) {
	user, err := s.Sessions.Resolve(handle)
	if err != nil {
		return
	}
	s.disconnect(user)
	s.Sessions.Revoke(handle)
}

// DisconnectUser runs the same cleanup keyed by user ID, for collaborators
// that observe the drop without holding the handle (the notification hub).
func (s *Service) DisconnectUser(userID string) {
	user := s.Sessions.RevokeUser(userID)
	if user == nil {
		return
	}
	s.disconnect(user)
}

func (s *Service) disconnect(user *models.User) {
	s.Queue.Dequeue(user.ID)

	if room, closed, found := s.Rooms.RemoveUser(user.ID); found && closed {
		if partner := room.Partner(user.ID); partner != nil {
			notice := models.NewSystemMessage(room.RoomID, "Your chat partner has left the conversation.")
			s.Relay.TryDeliver(room.RoomID, partner.ID, notice)
			s.notifier.Notify(partner.ID, notify.PartnerDisconnected(room.RoomID, "disconnected"))
		}
		s.archiveRoom(&room)
	}
	log.Printf("chat: user %s disconnected", user.Name())
}

// Status reports current queue and room load.
func (s *Service) Status() StatusResult {
	return StatusResult{
		QueueLength: s.Queue.Len(),
		ActiveRooms: s.Rooms.ActiveCount(),
	}
}

// ResolveHandle exposes session resolution to transport adapters that attach
// out-of-band channels.
func (s *Service) ResolveHandle(handle string) (*models.User, error) {
	return s.Sessions.Resolve(handle)
}

// resolveMember validates handle, room existence, room activity, and
// membership, in that order.
func (s *Service) resolveMember(roomID, handle string) (*models.User, models.ChatRoom, error) {
	user, err := s.Sessions.Resolve(handle)
	if err != nil {
		return nil, models.ChatRoom{}, err
	}
	room, ok := s.Rooms.Get(roomID)
	if !ok {
		return nil, models.ChatRoom{}, ErrRoomNotFound
	}
	if !room.IsActive {
		return nil, models.ChatRoom{}, ErrRoomInactive
	}
	if !room.HasUser(user.ID) {
		return nil, models.ChatRoom{}, ErrNotInRoom
	}
	return user, room, nil
}

func (s *Service) clampTimeout(d time.Duration) time.Duration {
	if d < s.opts.WaitMin {
		return s.opts.WaitMin
	}
	if d > s.opts.WaitMax {
		return s.opts.WaitMax
	}
	return d
}

func (s *Service) archiveRoom(room *models.ChatRoom) {
	if s.archive == nil {
		return
	}
	if err := s.archive.SaveClosedRoom(room); err != nil {
		log.Printf("chat: failed to archive room %s: %v", room.RoomID, err)
	}
}
