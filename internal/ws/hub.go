// Package ws pushes session lifecycle events to connected browser tabs,
// so a logout in one tab is reflected everywhere without polling.
package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// EventSessionChanged is sent after a successful login or profile
	// refresh.
	EventSessionChanged = "session_changed"
	// EventSessionCleared is sent after logout or forced expiry.
	EventSessionCleared = "session_cleared"

	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 8
)

// Event is the wire format pushed to clients.
type Event struct {
	Event string    `json:"event"`
	At    time.Time `json:"at"`
}

// client's send channel is never closed; teardown is signalled through
// done so a broadcast racing a disconnect cannot send on a closed channel.
type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// Hub fans session events out to every open connection of a user. All
// methods are safe for concurrent use.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*client]struct{}
	log     zerolog.Logger
}

// NewHub builds an empty hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*client]struct{}),
		log:     log.With().Str("component", "ws_hub").Logger(),
	}
}

// Register adopts an upgraded connection for the given user and starts
// its read and write pumps. The hub owns the connection from here on.
func (h *Hub) Register(userID string, conn *websocket.Conn) {
	cl := &client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*client]struct{})
	}
	h.clients[userID][cl] = struct{}{}
	h.mu.Unlock()

	h.log.Debug().Str("user_id", userID).Msg("websocket client connected")

	go h.writePump(userID, cl)
	go h.readPump(userID, cl)
}

// Notify broadcasts an event to every connection of a user. Slow clients
// are dropped rather than blocking the caller.
func (h *Hub) Notify(userID, event string) {
	payload, err := json.Marshal(Event{Event: event, At: time.Now().UTC()})
	if err != nil {
		return
	}

	h.mu.RLock()
	conns := make([]*client, 0, len(h.clients[userID]))
	for cl := range h.clients[userID] {
		conns = append(conns, cl)
	}
	h.mu.RUnlock()

	for _, cl := range conns {
		select {
		case cl.send <- payload:
		case <-cl.done:
		default:
			h.remove(userID, cl)
		}
	}
}

// Close tears down every open connection.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, conns := range h.clients {
		for cl := range conns {
			close(cl.done)
			delete(conns, cl)
		}
		delete(h.clients, userID)
	}
}

// remove detaches a client and signals its write pump. The map membership
// check makes it safe to call from both pumps and from Notify.
func (h *Hub) remove(userID string, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clients[userID]; ok {
		if _, ok := conns[cl]; ok {
			delete(conns, cl)
			close(cl.done)
			if len(conns) == 0 {
				delete(h.clients, userID)
			}
		}
	}
}

func (h *Hub) readPump(userID string, cl *client) {
	defer func() {
		h.remove(userID, cl)
		_ = cl.conn.Close()
	}()

	cl.conn.SetReadLimit(512)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug().Err(err).Str("user_id", userID).Msg("websocket read error")
			}
			return
		}
	}
}

func (h *Hub) writePump(userID string, cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = cl.conn.Close()
	}()

	for {
		select {
		case msg := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.remove(userID, cl)
				return
			}
		case <-cl.done:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(userID, cl)
				return
			}
		}
	}
}
