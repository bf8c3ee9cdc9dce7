package handlers

import (
	"net/http"

	"mamoritalk-ai/internal/streaming"
	"mamoritalk-ai/pkg/logger"
)

// AlertsHandler handles the real-time alert stream endpoints
type AlertsHandler struct {
	hub      *streaming.WebSocketHub
	eventBus *streaming.EventBus
	logger   *logger.Logger
}

// NewAlertsHandler creates a new alerts handler
func NewAlertsHandler(hub *streaming.WebSocketHub, eb *streaming.EventBus, log *logger.Logger) *AlertsHandler {
	return &AlertsHandler{
		hub:      hub,
		eventBus: eb,
		logger:   log.WithComponent("alerts-handler"),
	}
}

// Stream handles GET /api/v1/alerts/stream - WebSocket upgrade
func (h *AlertsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		http.Error(w, `{"error":"alert streaming not enabled"}`, http.StatusServiceUnavailable)
		return
	}
	h.hub.ServeWebSocket(w, r)
}

// StreamStatsResponse reports streaming fan-out state
type StreamStatsResponse struct {
	ConnectedClients int `json:"connected_clients"`
	BusSubscribers   int `json:"bus_subscribers"`
}

// Stats handles GET /api/v1/alerts/stats
func (h *AlertsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats := StreamStatsResponse{}
	if h.hub != nil {
		stats.ConnectedClients = h.hub.ClientCount()
	}
	if h.eventBus != nil {
		stats.BusSubscribers = h.eventBus.SubscriberCount()
	}

	writeJSON(w, http.StatusOK, stats)
}
