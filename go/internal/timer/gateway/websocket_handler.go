package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles WebSocket upgrade requests for timer views
type WebSocketHandler struct {
	connectionManager *ConnectionManager
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(cm *ConnectionManager) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
	}
}

// HandleTimerConnection mounts a new view on the shared countdown.
func (h *WebSocketHandler) HandleTimerConnection(w http.ResponseWriter, r *http.Request) {
	// The upgrader has already written an HTTP error when this fails.
	if err := h.connectionManager.UpgradeConnection(w, r); err != nil {
		log.Error().
			Err(err).
			Str("remote_addr", r.RemoteAddr).
			Msg("failed to upgrade WebSocket connection")
	}
}

// HandleConnectionStats returns statistics about active connections
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.connectionManager.GetConnectionStats()); err != nil {
		log.Error().Err(err).Msg("failed to encode connection stats")
	}
}

// RegisterRoutes registers WebSocket routes with an HTTP mux
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws/timer", h.HandleTimerConnection)
	mux.HandleFunc("GET /ws/stats", h.HandleConnectionStats)
}
