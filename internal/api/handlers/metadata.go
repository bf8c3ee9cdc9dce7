package handlers

import (
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

// MetadataHandler handles call/SMS metadata analysis endpoints
type MetadataHandler struct {
	analyzer   *services.MetadataAnalyzer
	cache      *cache.RedisCache
	statistics *repository.StatisticsRepository
	eventBus   *streaming.EventBus
	hub        *streaming.WebSocketHub
	cfg        config.AnalysisConfig
	logger     *logger.Logger
}

// NewMetadataHandler creates a new metadata handler
func NewMetadataHandler(analyzer *services.MetadataAnalyzer, c *cache.RedisCache, stats *repository.StatisticsRepository, eb *streaming.EventBus, hub *streaming.WebSocketHub, cfg config.AnalysisConfig, log *logger.Logger) *MetadataHandler {
	return &MetadataHandler{
		analyzer:   analyzer,
		cache:      c,
		statistics: stats,
		eventBus:   eb,
		hub:        hub,
		cfg:        cfg,
		logger:     log.WithComponent("metadata-handler"),
	}
}

// MetadataRequest is the request body for metadata analysis
type MetadataRequest struct {
	PhoneNumber string `json:"phone_number"`
	CallType    string `json:"call_type,omitempty"`
	SMSContent  string `json:"sms_content,omitempty"`
}

// cacheKey hashes the full scoring input: the same number can score
// differently per call type and message body.
func (req *MetadataRequest) cacheKey() string {
	return cache.ContentHash(req.PhoneNumber + "\x00" + req.CallType + "\x00" + req.SMSContent)
}

// Analyze handles POST /api/v1/analyze/call-metadata
func (h *MetadataHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req MetadataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	// Withheld callers arrive with an empty phone_number, so no
	// presence check here
	if req.CallType == "" {
		req.CallType = models.CallTypeCall
	}

	hash := req.cacheKey()
	if h.cacheEnabled() {
		var cached models.MetadataAnalysis
		if err := h.cache.GetCachedResult(r.Context(), cache.KeyMetadataPrefix, hash, &cached); err == nil {
			writeJSON(w, http.StatusOK, &cached)
			return
		}
	}

	result := h.analyzer.Analyze(req.PhoneNumber, req.CallType, req.SMSContent)

	if h.cacheEnabled() {
		if err := h.cache.CacheResult(r.Context(), cache.KeyMetadataPrefix, hash, result, h.cfg.CacheTTL); err != nil {
			h.logger.Warn().Err(err).Msg("failed to cache metadata result")
		}
	}

	if h.statistics != nil {
		if err := h.statistics.RecordAnalysis(r.Context(), "metadata", result.ScamType, result.RiskScore); err != nil {
			h.logger.Debug().Err(err).Msg("failed to record analysis event")
		}
	}

	if result.RiskScore >= 70 {
		event := streaming.NewMetadataAlert(result, req.PhoneNumber, req.CallType)
		if h.eventBus != nil {
			if err := h.eventBus.Publish(r.Context(), event); err != nil {
				h.logger.Warn().Err(err).Msg("failed to publish alert event")
			}
		}
		if h.hub != nil {
			h.hub.BroadcastEvent(event)
		}
	}

	h.logger.Info().
		Int("risk_score", result.RiskScore).
		Str("scam_type", result.ScamType).
		Str("call_type", req.CallType).
		Msg("call metadata analyzed")

	writeJSON(w, http.StatusOK, result)
}

func (h *MetadataHandler) cacheEnabled() bool {
	return h.cache != nil && h.cfg.CacheEnabled
}
