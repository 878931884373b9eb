package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
)

// eventClient serializes the writes of one connection.
type eventClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *eventClient) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// EventHub streams workspace events to WebSocket clients as JSON text messages.
type EventHub struct {
	clients  map[*eventClient]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
}

// NewEventHub creates a hub without clients.
func NewEventHub() *EventHub {
	return &EventHub{
		clients: make(map[*eventClient]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
	}
}

// Attach forwards every event of the bus to the connected clients.
func (h *EventHub) Attach(bus *entities.Bus) func() {
	return bus.Subscribe(h.Broadcast)
}

// HandleWebSocket upgrades the request and keeps the client registered until it disconnects.
func (h *EventHub) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		logger.Debugf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &eventClient{conn: conn}
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()

	// Keep connection alive until client disconnects
	for {
		if _, _, readErr := conn.ReadMessage(); readErr != nil {
			break
		}
	}

	h.remove(client)
}

// Broadcast sends the event to all clients, dropping those that fail.
func (h *EventHub) Broadcast(event entities.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := make([]*eventClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if writeErr := client.write(data); writeErr != nil {
			h.remove(client)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *EventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes all client connections.
func (h *EventHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		_ = client.conn.Close()
		delete(h.clients, client)
	}
}

func (h *EventHub) remove(client *eventClient) {
	h.mu.Lock()
	_, present := h.clients[client]
	delete(h.clients, client)
	h.mu.Unlock()
	if present {
		_ = client.conn.Close()
	}
}
