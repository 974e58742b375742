package chatcore_test

import (
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"pairchat/backend/internal/chatcore"
	"pairchat/backend/internal/models"
	"pairchat/backend/internal/notify"
)

// RecordingNotifier captures events per user so tests can assert on the
// out-of-band side channel without a real transport.
type RecordingNotifier struct {
	mu     sync.Mutex
	events map[string][]notify.Event
}

func newRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{events: make(map[string][]notify.Event)}
}

func (r *RecordingNotifier) Notify(userID string, ev notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[userID] = append(r.events[userID], ev)
}

// EventsFor returns a copy of the events recorded for a user.
func (r *RecordingNotifier) EventsFor(userID string) []notify.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Event(nil), r.events[userID]...)
}

// TypesFor returns just the event types recorded for a user, in order.
func (r *RecordingNotifier) TypesFor(userID string) []string {
	var types []string
	for _, ev := range r.EventsFor(userID) {
		types = append(types, ev.Type)
	}
	return types
}

// MockArchiver is a testify mock for the room archive collaborator.
type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) SaveClosedRoom(room *models.ChatRoom) error {
	args := m.Called(room)
	return args.Error(0)
}

// newTestService builds a service with short wait bounds so timeout paths
// stay fast in tests.
func newTestService(notifier notify.Notifier, archive chatcore.Archiver) *chatcore.Service {
	return chatcore.NewService(chatcore.Options{
		Secret:          []byte("test-secret"),
		WaitMin:         20 * time.Millisecond,
		WaitMax:         2 * time.Second,
		MailboxCapacity: 8,
	}, notifier, archive)
}
