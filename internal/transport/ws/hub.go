package ws

import (
	"encoding/json"
	"log"
	"sync"

	"brainstorm/internal/model"
)

const (
	sendBuffer      = 64
	broadcastBuffer = 1024
)

// Message is the WebSocket envelope format, used in both directions
type Message struct {
	Type    model.EventType `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Connection is one client socket as seen by the hub
type Connection struct {
	ID   string
	Send chan []byte
}

type outbound struct {
	to   []string
	data []byte
}

// Hub owns the set of live connections and fans engine events out to them.
// Sends never block on a client: a full send buffer drops the message.
type Hub struct {
	conns map[string]*Connection
	mu    sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *outbound
	done       chan struct{}
	stopOnce   sync.Once
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]*Connection),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *outbound, broadcastBuffer),
		done:       make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.conns[conn.ID] = conn
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if existing, ok := h.conns[conn.ID]; ok && existing == conn {
				delete(h.conns, conn.ID)
				close(conn.Send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, id := range msg.to {
				conn, ok := h.conns[id]
				if !ok {
					continue
				}
				select {
				case conn.Send <- msg.data:
				default:
					log.Printf("ws: send buffer full for %s, dropping message", id)
				}
			}
			h.mu.RUnlock()

		case <-h.done:
			return
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
	}
}

// Unregister removes a connection and closes its send channel
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Stop ends the hub loop. Later sends are discarded.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Count returns the number of registered connections
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// SendTo delivers one event to a connection (implements service.Broadcaster)
func (h *Hub) SendTo(connID string, typ model.EventType, payload interface{}) {
	h.SendToMany([]string{connID}, typ, payload)
}

// SendToMany delivers one event to several connections (implements service.Broadcaster)
func (h *Hub) SendToMany(connIDs []string, typ model.EventType, payload interface{}) {
	if len(connIDs) == 0 {
		return
	}
	data, err := encode(typ, payload)
	if err != nil {
		log.Printf("ws: encode %s: %v", typ, err)
		return
	}
	to := make([]string, len(connIDs))
	copy(to, connIDs)

	select {
	case h.broadcast <- &outbound{to: to, data: data}:
	case <-h.done:
	}
}

func encode(typ model.EventType, payload interface{}) ([]byte, error) {
	msg := Message{Type: typ}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		msg.Payload = raw
	}
	return json.Marshal(&msg)
}
