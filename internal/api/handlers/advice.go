package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"mamoritalk-ai/internal/domain/models"
	"mamoritalk-ai/internal/domain/services"
	"mamoritalk-ai/internal/infrastructure/cache"
	"mamoritalk-ai/internal/infrastructure/database/repository"
	"mamoritalk-ai/pkg/logger"
)

const adviceCacheTTL = 10 * time.Minute

// AdviceHandler handles regional advice endpoints
type AdviceHandler struct {
	generator  *services.AdviceGenerator
	statistics *repository.StatisticsRepository
	cache      *cache.RedisCache
	logger     *logger.Logger
}

// NewAdviceHandler creates a new advice handler
func NewAdviceHandler(generator *services.AdviceGenerator, stats *repository.StatisticsRepository, c *cache.RedisCache, log *logger.Logger) *AdviceHandler {
	return &AdviceHandler{
		generator:  generator,
		statistics: stats,
		cache:      c,
		logger:     log.WithComponent("advice-handler"),
	}
}

// scamTypeStatRequest accepts both snake_case and camelCase field names,
// matching what the two companion app generations send.
type scamTypeStatRequest struct {
	ScamType      string  `json:"scam_type"`
	ScamTypeAlias string  `json:"scamType"`
	Count         int     `json:"count"`
	Amount        float64 `json:"amount"`
}

// RegionalAdviceRequest is the request body for regional advice
type RegionalAdviceRequest struct {
	Prefecture        string                `json:"prefecture"`
	TopScamTypes      []scamTypeStatRequest `json:"top_scam_types"`
	TopScamTypesCamel []scamTypeStatRequest `json:"topScamTypes"`
}

// Generate handles POST /api/v1/advice/regional
func (h *AdviceHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req RegionalAdviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Prefecture == "" {
		http.Error(w, `{"error":"prefecture is required"}`, http.StatusBadRequest)
		return
	}

	stats := normalizeStats(req)
	callerSupplied := len(stats) > 0

	// With no caller-supplied stats, fall back to the regional
	// statistics store when one is wired in
	if len(stats) == 0 && h.statistics != nil {
		dbStats, err := h.statistics.TopScamTypes(r.Context(), req.Prefecture, 3)
		if err != nil {
			h.logger.Warn().Err(err).Str("prefecture", req.Prefecture).Msg("failed to load regional statistics")
		} else {
			stats = dbStats
		}
	}

	if len(stats) == 0 && h.cache != nil {
		var cached models.RegionalAdvice
		if err := h.cache.GetJSON(r.Context(), cache.KeyAdvicePrefix+req.Prefecture, &cached); err == nil {
			writeJSON(w, http.StatusOK, &cached)
			return
		}
	}

	result := h.generator.Generate(req.Prefecture, stats)

	// Caller-supplied stats are fresher than anything cached for the
	// fallback path, so drop the stale entry
	if callerSupplied && h.cache != nil {
		if err := h.cache.Delete(r.Context(), cache.KeyAdvicePrefix+req.Prefecture); err != nil {
			h.logger.Debug().Err(err).Msg("failed to evict cached advice")
		}
	}

	if len(stats) == 0 && h.cache != nil {
		if err := h.cache.SetJSON(r.Context(), cache.KeyAdvicePrefix+req.Prefecture, result, adviceCacheTTL); err != nil {
			h.logger.Debug().Err(err).Msg("failed to cache advice")
		}
	}

	h.logger.Info().
		Str("prefecture", req.Prefecture).
		Int("details", len(result.Details)).
		Msg("regional advice generated")

	writeJSON(w, http.StatusOK, result)
}

func normalizeStats(req RegionalAdviceRequest) []models.ScamTypeStat {
	raw := req.TopScamTypes
	if len(raw) == 0 {
		raw = req.TopScamTypesCamel
	}

	stats := make([]models.ScamTypeStat, 0, len(raw))
	for _, s := range raw {
		scamType := s.ScamType
		if scamType == "" {
			scamType = s.ScamTypeAlias
		}
		if scamType == "" {
			scamType = "unknown"
		}
		stats = append(stats, models.ScamTypeStat{
			ScamType: scamType,
			Count:    s.Count,
			Amount:   s.Amount,
		})
	}
	return stats
}
