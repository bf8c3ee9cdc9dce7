package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"mamoritalk-ai/internal/config"
	"mamoritalk-ai/internal/domain/models"
	"mamoritalk-ai/internal/domain/services"
	"mamoritalk-ai/internal/infrastructure/cache"
	"mamoritalk-ai/internal/infrastructure/database/repository"
	"mamoritalk-ai/internal/streaming"
	"mamoritalk-ai/pkg/logger"
)

// ConversationHandler handles conversation analysis endpoints
type ConversationHandler struct {
	analyzer   *services.ScamAnalyzer
	cache      *cache.RedisCache
	statistics *repository.StatisticsRepository
	eventBus   *streaming.EventBus
	hub        *streaming.WebSocketHub
	cfg        config.AnalysisConfig
	logger     *logger.Logger
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(analyzer *services.ScamAnalyzer, c *cache.RedisCache, stats *repository.StatisticsRepository, eb *streaming.EventBus, hub *streaming.WebSocketHub, cfg config.AnalysisConfig, log *logger.Logger) *ConversationHandler {
	return &ConversationHandler{
		analyzer:   analyzer,
		cache:      c,
		statistics: stats,
		eventBus:   eb,
		hub:        hub,
		cfg:        cfg,
		logger:     log.WithComponent("conversation-handler"),
	}
}

// ConversationRequest is the request body for conversation analysis
type ConversationRequest struct {
	Text         string `json:"text"`
	CallerNumber string `json:"caller_number,omitempty"`
}

// Analyze handles POST /api/v1/analyze/conversation
func (h *ConversationHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req ConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	if req.Text == "" {
		http.Error(w, `{"error":"text is required"}`, http.StatusBadRequest)
		return
	}
	if h.cfg.MaxTextBytes > 0 && len(req.Text) > h.cfg.MaxTextBytes {
		http.Error(w, `{"error":"text too large"}`, http.StatusRequestEntityTooLarge)
		return
	}

	hash := cache.ContentHash(req.Text)
	if h.cacheEnabled() {
		var cached models.ConversationAnalysis
		if err := h.cache.GetCachedResult(r.Context(), cache.KeyConversationPrefix, hash, &cached); err == nil {
			writeJSON(w, http.StatusOK, &cached)
			return
		}
	}

	result := h.analyzer.Analyze(req.Text, req.CallerNumber)

	if h.cacheEnabled() {
		if err := h.cache.CacheResult(r.Context(), cache.KeyConversationPrefix, hash, result, h.cfg.CacheTTL); err != nil {
			h.logger.Warn().Err(err).Msg("failed to cache analysis result")
		}
	}

	h.recordAndAlert(r.Context(), result)

	h.logger.Info().
		Int("risk_score", result.RiskScore).
		Str("scam_type", result.ScamType).
		Msg("conversation analyzed")

	writeJSON(w, http.StatusOK, result)
}

// QuickCheck handles POST /api/v1/analyze/quick-check
func (h *ConversationHandler) QuickCheck(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, `{"error":"text is required"}`, http.StatusBadRequest)
		return
	}

	result := h.analyzer.QuickCheck(req.Text)

	h.logger.Info().
		Bool("is_suspicious", result.IsSuspicious).
		Int("risk_score", result.RiskScore).
		Msg("quick check completed")

	writeJSON(w, http.StatusOK, result)
}

func (h *ConversationHandler) cacheEnabled() bool {
	return h.cache != nil && h.cfg.CacheEnabled
}

// recordAndAlert bumps Redis counters, appends the analysis event for
// reporting, and fans out a high risk alert
func (h *ConversationHandler) recordAndAlert(ctx context.Context, result *models.ConversationAnalysis) {
	highRisk := result.RiskScore >= 70

	if h.cache != nil {
		if err := h.cache.IncrementAnalysisCount(ctx, highRisk); err != nil {
			h.logger.Debug().Err(err).Msg("failed to increment analysis counters")
		}
	}
	if h.statistics != nil {
		if err := h.statistics.RecordAnalysis(ctx, "conversation", result.ScamType, result.RiskScore); err != nil {
			h.logger.Debug().Err(err).Msg("failed to record analysis event")
		}
	}

	if !highRisk {
		return
	}

	event := streaming.NewConversationAlert(result)
	if h.eventBus != nil {
		if err := h.eventBus.Publish(ctx, event); err != nil {
			h.logger.Warn().Err(err).Msg("failed to publish alert event")
		}
	}
	if h.hub != nil {
		h.hub.BroadcastEvent(event)
	}
}

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
