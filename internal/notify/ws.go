package notify

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// Hub delivers events over per-user WebSocket connections. A connection is
// attached after the transport upgrades it; the hub owns it from then on.
type Hub struct {
	// OnDisconnect, when set, is invoked with the user ID after their
	// connection drops. The chat core hooks its cleanup path here.
	OnDisconnect func(userID string)

	mu      sync.Mutex
	clients map[string]*wsClient
}

// NewHub creates an empty hub. Its lifetime equals the server process.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]*wsClient)}
}

// Attach registers a connection for a user and starts its pumps.
// A previous connection for the same user is closed and replaced.
func (h *Hub) Attach(userID string, conn *websocket.Conn) {
	client := &wsClient{
		hub:    h,
		userID: userID,
		conn:   conn,
		send:   make(chan Event, sendBuffer),
	}

	h.mu.Lock()
	if prev, ok := h.clients[userID]; ok {
		close(prev.send)
	}
	h.clients[userID] = client
	h.mu.Unlock()

	go client.writePump()
	go client.readPump()
}

// Notify pushes an event to the user's connection if one is attached.
// A slow client whose buffer is full is disconnected rather than blocked on.
func (h *Hub) Notify(userID string, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[userID]
	if !ok {
		return
	}
	select {
	case client.send <- ev:
	default:
		log.Printf("notify: dropping slow websocket client for user %s", userID)
		close(client.send)
		delete(h.clients, userID)
	}
}

func (h *Hub) detach(c *wsClient) {
	h.mu.Lock()
	detached := false
	if cur, ok := h.clients[c.userID]; ok && cur == c {
		close(cur.send)
		delete(h.clients, c.userID)
		detached = true
	}
	h.mu.Unlock()

	// Only the connection that actually held the slot triggers cleanup; a
	// replaced connection must not tear down the replacement's session.
	if detached && h.OnDisconnect != nil {
		h.OnDisconnect(c.userID)
	}
}

type wsClient struct {
	hub    *Hub
	userID string
	conn   *websocket.Conn
	send   chan Event
}

// readPump discards inbound frames; the socket is notification-only.
// It exists to process pongs and to detect a closed connection.
func (c *wsClient) readPump() {
	defer func() {
		c.hub.detach(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("notify: websocket read error for user %s: %v", c.userID, err)
			}
			return
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(ev)
			if err != nil {
				log.Printf("notify: error encoding event for user %s: %v", c.userID, err)
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
