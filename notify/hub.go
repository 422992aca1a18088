// Package notify implements the §6 Notifier collaborator
// (notifyHostOfAutoRescheduleFailure) as a push over a websocket
// session the host already has open, grounded on the teacher's
// brackets.Hub/Client pair (room-based pub/sub over gorilla/websocket)
// — renamed from tournament "rooms" to per-host sessions and adapted
// from log.Printf to zap. This is strictly a point-to-point push to
// whichever host session is connected; it is not the live
// schedule-change feed the spec names as an explicit Non-goal.
package notify

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Client is one host's open websocket connection.
type Client struct {
	Hub      *Hub
	Conn     *websocket.Conn
	Send     chan []byte
	HostID   string
	isClosed bool
	mu       sync.Mutex
}

// Message is the envelope pushed to a host session.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	HostID  string      `json:"hostId,omitempty"`
}

// Hub multiplexes connected host sessions, one registration set per
// hostId (the teacher's per-tournament "room" concept, keyed by host
// instead).
type Hub struct {
	sessions map[string]map[*Client]bool
	Register chan *Client
	Unregister chan *Client

	logger *zap.Logger
	mu     sync.RWMutex
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run processes registrations/unregistrations until ctx-independent
// shutdown; callers start it in its own goroutine at process startup.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.sessions[client.HostID]; !ok {
				h.sessions[client.HostID] = make(map[*Client]bool)
			}
			h.sessions[client.HostID][client] = true
			h.mu.Unlock()
			h.logger.Info("host session registered", zap.String("host_id", client.HostID))

		case client := <-h.Unregister:
			h.mu.Lock()
			if set, ok := h.sessions[client.HostID]; ok {
				if _, present := set[client]; present {
					client.mu.Lock()
					if !client.isClosed {
						close(client.Send)
						client.isClosed = true
					}
					client.mu.Unlock()
					delete(set, client)
					if len(set) == 0 {
						delete(h.sessions, client.HostID)
					}
				}
			}
			h.mu.Unlock()
			h.logger.Info("host session unregistered", zap.String("host_id", client.HostID))
		}
	}
}

// HasSession reports whether hostID currently has a connected client.
func (h *Hub) HasSession(hostID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[hostID]) > 0
}

// Push sends message to every session registered for hostID. It is a
// best-effort fire: a full or closed client send channel is skipped,
// never retried or escalated to an error — matching the Notifier
// contract that a push failure must never unwind the caller's
// transaction.
func (h *Hub) Push(hostID string, message Message) error {
	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.sessions[hostID]
	if !ok {
		h.logger.Warn("no connected session for host notification", zap.String("host_id", hostID))
		return nil
	}

	for client := range clients {
		client.mu.Lock()
		if client.isClosed {
			client.mu.Unlock()
			continue
		}
		select {
		case client.Send <- body:
		default:
			h.logger.Warn("host send channel full, dropping notification", zap.String("host_id", hostID))
		}
		client.mu.Unlock()
	}
	return nil
}

func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
