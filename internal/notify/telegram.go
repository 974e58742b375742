package notify

import (
	"fmt"
	"log"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramSender delivers events as Telegram bot messages. A user opts in by
// binding their session to a Telegram chat ID; unbound users are skipped.
type TelegramSender struct {
	bot *tgbotapi.BotAPI

	mu    sync.Mutex
	chats map[string]int64 // userID -> Telegram chat ID
}

// NewTelegramSender authorizes the bot with the given token.
func NewTelegramSender(token string) (*TelegramSender, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Printf("notify: telegram bot authorized as @%s", bot.Self.UserName)
	return &TelegramSender{bot: bot, chats: make(map[string]int64)}, nil
}

// Bind associates a user with a Telegram chat for out-of-band nudges.
func (t *TelegramSender) Bind(userID string, chatID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.chats[userID] = chatID
}

// Unbind drops the association, typically when the session ends.
func (t *TelegramSender) Unbind(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.chats, userID)
}

func (t *TelegramSender) Notify(userID string, ev Event) {
	t.mu.Lock()
	chatID, ok := t.chats[userID]
	t.mu.Unlock()
	if !ok {
		return
	}

	if _, err := t.bot.Send(tgbotapi.NewMessage(chatID, renderEvent(ev))); err != nil {
		log.Printf("notify: telegram send failed for user %s: %v", userID, err)
	}
}

func renderEvent(ev Event) string {
	switch ev.Type {
	case EventChatroomFound:
		name := "a partner"
		if ev.Partner != nil {
			name = ev.Partner.DisplayName
		}
		return fmt.Sprintf("You have been matched with %s in room %s.", name, ev.RoomID)
	case EventPartnerJoined:
		name := "A new partner"
		if ev.Partner != nil {
			name = ev.Partner.DisplayName
		}
		return fmt.Sprintf("%s joined your room %s.", name, ev.RoomID)
	case EventMessageReceived:
		sender := "Your partner"
		if ev.Sender != nil {
			sender = ev.Sender.DisplayName
		}
		return fmt.Sprintf("%s sent a message in room %s.", sender, ev.RoomID)
	case EventPartnerDisconnected:
		return fmt.Sprintf("Your partner left room %s (%s).", ev.RoomID, ev.Reason)
	}
	return fmt.Sprintf("Event %s in room %s.", ev.Type, ev.RoomID)
}
