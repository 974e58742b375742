package notify

import (
	"time"

	"pairchat/backend/internal/models"
)

// Event types pushed to a client's out-of-band channel.
const (
	EventChatroomFound       = "chatroom.found"
	EventPartnerJoined       = "partner.joined"
	EventMessageReceived     = "message.received"
	EventPartnerDisconnected = "partner.disconnected"
)

// Participant identifies a user inside an event payload.
type Participant struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// Event is an asynchronous notification addressed to one user. Delivery is
// best effort on every channel; the chat core never depends on it.
type Event struct {
	Type      string       `json:"type"`
	RoomID    string       `json:"room_id"`
	Partner   *Participant `json:"partner,omitempty"`
	Sender    *Participant `json:"sender,omitempty"`
	Content   string       `json:"content,omitempty"`
	Reason    string       `json:"reason,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// Notifier pushes events to a user's out-of-band channel when one exists.
type Notifier interface {
	Notify(userID string, ev Event)
}

func participant(u *models.User) *Participant {
	if u == nil {
		return nil
	}
	return &Participant{UserID: u.ID, DisplayName: u.Name()}
}

// ChatroomFound announces a successful pairing to one side of the match.
func ChatroomFound(roomID string, partner *models.User) Event {
	return Event{
		Type:      EventChatroomFound,
		RoomID:    roomID,
		Partner:   participant(partner),
		Timestamp: time.Now(),
	}
}

// PartnerJoined announces that a second occupant entered a waiting room.
func PartnerJoined(roomID string, partner *models.User) Event {
	return Event{
		Type:      EventPartnerJoined,
		RoomID:    roomID,
		Partner:   participant(partner),
		Timestamp: time.Now(),
	}
}

// MessageReceived nudges a recipient that a message was sent to their room.
func MessageReceived(roomID string, sender *models.User, content string) Event {
	return Event{
		Type:      EventMessageReceived,
		RoomID:    roomID,
		Sender:    participant(sender),
		Content:   content,
		Timestamp: time.Now(),
	}
}

// PartnerDisconnected announces that the partner left or dropped.
func PartnerDisconnected(roomID, reason string) Event {
	return Event{
		Type:      EventPartnerDisconnected,
		RoomID:    roomID,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

// Nop is a Notifier that discards every event.
type Nop struct{}

func (Nop) Notify(string, Event) {}

// Fanout delivers each event to every configured notifier in order.
type Fanout []Notifier

func (f Fanout) Notify(userID string, ev Event) {
	for _, n := range f {
		n.Notify(userID, ev)
	}
}
