// Package hub fans store change events out to connected WebSocket clients.
package hub

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"aichat/domain"
	"aichat/logger"
)

// Connection represents a single WebSocket connection.
type Connection struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
	hub  *Hub
}

// Close closes the underlying socket.
func (c *Connection) Close() error {
	return c.Conn.Close()
}

// Hub manages all WebSocket connections. Every store change event is
// broadcast to every connected client; a browser tab that applies them
// stays in sync with mutations made from its siblings.
type Hub struct {
	connections map[string]*Connection

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan []byte

	mu sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]*Connection),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		broadcast:   make(chan []byte, 256),
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.connections[conn.ID] = conn
			h.mu.Unlock()
			logger.L.Debug("connection registered", "id", conn.ID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.connections[conn.ID]; ok {
				delete(h.connections, conn.ID)
				close(conn.Send)
			}
			h.mu.Unlock()
			logger.L.Debug("connection unregistered", "id", conn.ID)

		case data := <-h.broadcast:
			h.mu.RLock()
			for id, conn := range h.connections {
				select {
				case conn.Send <- data:
				default:
					// Buffer full, drop the client.
					logger.L.Warn("connection buffer full, closing", "id", id)
					go h.Unregister(conn)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// NewConnection creates a connection for the given socket.
func (h *Hub) NewConnection(ws *websocket.Conn) *Connection {
	return &Connection{
		ID:   uuid.New().String(),
		Conn: ws,
		Send: make(chan []byte, 256),
		hub:  h,
	}
}

// Register adds a connection to the hub.
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection from the hub.
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Publish broadcasts a store change event to all connections. It is the
// store listener; encode failures are logged and dropped.
func (h *Hub) Publish(event domain.ChangeEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.L.Error("failed to marshal change event", "error", err)
		return
	}
	h.broadcast <- data
}
