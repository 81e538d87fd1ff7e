// Package websocket pushes dashboard events to connected browsers so
// panels can refresh after an export or a corpus reload without
// polling.
package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"wordtrend/internal/infrastructure"
)

// Event types pushed to clients
const (
	TypeConnection    = "connection"
	TypeExport        = "export"
	TypeDatasetReload = "dataset:reload"
	TypeError         = "error"
)

// Hub maintains the set of active clients and broadcasts messages to
// them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu     sync.RWMutex
	logger *slog.Logger

	totalConnections int64
	messagesSent     int64

	quit    chan struct{}
	running bool
}

// NewHub creates a new Hub instance
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	logger = logger.With(slog.String("component", "websocket.hub"))

	return &Hub{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     logger,
		quit:       make(chan struct{}),
	}
}

// Start starts the hub's main loop
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.run()
}

func (h *Hub) run() {
	for {
		select {
		case <-h.quit:
			h.logger.Info("Hub shutting down")
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.totalConnections++
			count := len(h.clients)
			h.mu.Unlock()

			h.logger.Info("Client registered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()

			h.logger.Info("Client unregistered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id))

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					h.messagesSent++
				default:
					// Slow client, drop it rather than block the hub.
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Stop shuts down the hub loop and disconnects all clients
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)
}

// Register queues a client for registration
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a typed event to all connected clients
func (h *Hub) Broadcast(eventType string, data interface{}) {
	message := map[string]interface{}{
		"type":      eventType,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	payload, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("Failed to marshal broadcast message",
			slog.String("type", eventType),
			slog.String("error", err.Error()))
		return
	}

	select {
	case h.broadcast <- payload:
	case <-h.quit:
	}
}

// BroadcastExport announces a completed export
func (h *Hub) BroadcastExport(kind, filename string, bytes int) {
	h.Broadcast(TypeExport, map[string]interface{}{
		"kind":     kind,
		"filename": filename,
		"bytes":    bytes,
	})
}

// BroadcastDatasetReload announces a corpus reload
func (h *Hub) BroadcastDatasetReload(days, words int) {
	h.Broadcast(TypeDatasetReload, map[string]interface{}{
		"days":  days,
		"words": words,
	})
}
