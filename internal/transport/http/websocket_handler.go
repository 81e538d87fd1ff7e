package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	ws "wordtrend/internal/websocket"
)

// WebSocketHandler upgrades dashboard connections and attaches them
// to the hub.
type WebSocketHandler struct {
	hub      *ws.Hub
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates a websocket handler restricted to the
// allowed origins.
func NewWebSocketHandler(hub *ws.Hub, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	h := &WebSocketHandler{
		hub:    hub,
		logger: logger.With(slog.String("handler", "websocket")),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range allowedOrigins {
				if allowed == "*" || strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
	return h
}

// ServeWS handles GET /ws
func (h *WebSocketHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "WebSocket upgrade failed",
			slog.String("error", err.Error()),
			slog.String("remote_addr", r.RemoteAddr))
		// Upgrade already wrote its own error response.
		return
	}

	client := ws.NewClient(h.hub, conn, h.logger)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
