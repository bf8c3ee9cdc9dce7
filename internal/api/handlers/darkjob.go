package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"mamoritalk-ai/internal/config"
	"mamoritalk-ai/internal/domain/models"
	"mamoritalk-ai/internal/domain/services"
	"mamoritalk-ai/internal/infrastructure/cache"
	"mamoritalk-ai/internal/streaming"
	"mamoritalk-ai/pkg/logger"
)

// DarkJobHandler handles dark job checking endpoints
type DarkJobHandler struct {
	checker  *services.DarkJobChecker
	cache    *cache.RedisCache
	eventBus *streaming.EventBus
	hub      *streaming.WebSocketHub
	cfg      config.AnalysisConfig
	logger   *logger.Logger
}

// NewDarkJobHandler creates a new dark job handler
func NewDarkJobHandler(checker *services.DarkJobChecker, c *cache.RedisCache, eb *streaming.EventBus, hub *streaming.WebSocketHub, cfg config.AnalysisConfig, log *logger.Logger) *DarkJobHandler {
	return &DarkJobHandler{
		checker:  checker,
		cache:    c,
		eventBus: eb,
		hub:      hub,
		cfg:      cfg,
		logger:   log.WithComponent("darkjob-handler"),
	}
}

// DarkJobCheckRequest is the request body for dark job checks
type DarkJobCheckRequest struct {
	Text   string `json:"text"`
	Source string `json:"source,omitempty"`
}

// DarkJobImageRequest is the request body for image-based checks
type DarkJobImageRequest struct {
	ImageBase64 string `json:"image_base64"`
	Source      string `json:"source,omitempty"`
}

// Check handles POST /api/v1/check/dark-job
func (h *DarkJobHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req DarkJobCheckRequest
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
		var cached models.DarkJobResult
		if err := h.cache.GetCachedResult(r.Context(), cache.KeyDarkJobPrefix, hash, &cached); err == nil {
			writeJSON(w, http.StatusOK, &cached)
			return
		}
	}

	result := h.checker.Check(req.Text, req.Source)

	if h.cacheEnabled() {
		if err := h.cache.CacheResult(r.Context(), cache.KeyDarkJobPrefix, hash, result, h.cfg.CacheTTL); err != nil {
			h.logger.Warn().Err(err).Msg("failed to cache check result")
		}
	}

	h.alert(r.Context(), result)

	h.logger.Info().
		Bool("is_dark_job", result.IsDarkJob).
		Str("risk_level", result.RiskLevel).
		Int("risk_score", result.RiskScore).
		Msg("dark job check completed")

	writeJSON(w, http.StatusOK, result)
}

// CheckImage handles POST /api/v1/check/dark-job-image
func (h *DarkJobHandler) CheckImage(w http.ResponseWriter, r *http.Request) {
	var req DarkJobImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	if req.ImageBase64 == "" {
		http.Error(w, `{"error":"image_base64 is required"}`, http.StatusBadRequest)
		return
	}

	result := h.checker.CheckImage(r.Context(), req.ImageBase64, req.Source)

	h.alert(r.Context(), result)

	h.logger.Info().
		Bool("is_dark_job", result.IsDarkJob).
		Str("risk_level", result.RiskLevel).
		Bool("text_extracted", result.ExtractedText != "").
		Msg("dark job image check completed")

	writeJSON(w, http.StatusOK, result)
}

func (h *DarkJobHandler) cacheEnabled() bool {
	return h.cache != nil && h.cfg.CacheEnabled
}

func (h *DarkJobHandler) alert(ctx context.Context, result *models.DarkJobResult) {
	if result.RiskLevel != models.RiskLevelHigh {
		return
	}

	event := streaming.NewDarkJobAlert(result)
	if h.eventBus != nil {
		if err := h.eventBus.Publish(ctx, event); err != nil {
			h.logger.Warn().Err(err).Msg("failed to publish alert event")
		}
	}
	if h.hub != nil {
		h.hub.BroadcastEvent(event)
	}
}
