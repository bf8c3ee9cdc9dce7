package handlers

import (
	"encoding/json"
	"net/http"

	"mamoritalk-ai/internal/domain/services"
	"mamoritalk-ai/pkg/logger"
)

// SummaryHandler handles conversation summary endpoints
type SummaryHandler struct {
	summarizer *services.Summarizer
	logger     *logger.Logger
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(summarizer *services.Summarizer, log *logger.Logger) *SummaryHandler {
	return &SummaryHandler{
		summarizer: summarizer,
		logger:     log.WithComponent("summary-handler"),
	}
}

// Summarize handles POST /api/v1/analyze/conversation-summary
func (h *SummaryHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, `{"error":"text is required"}`, http.StatusBadRequest)
		return
	}

	result := h.summarizer.Summarize(req.Text)

	h.logger.Info().
		Int("risk_score", result.RiskScore).
		Int("key_points", len(result.KeyPoints)).
		Msg("conversation summarized")

	writeJSON(w, http.StatusOK, result)
}
