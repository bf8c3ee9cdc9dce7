package handlers

import (
	"net/http"

	"mamoritalk-ai/internal/domain/models"
	"mamoritalk-ai/internal/domain/services"
	"mamoritalk-ai/pkg/logger"
)

// PatternsHandler exposes the read-only pattern tables
type PatternsHandler struct {
	logger *logger.Logger
}

// NewPatternsHandler creates a new patterns handler
func NewPatternsHandler(log *logger.Logger) *PatternsHandler {
	return &PatternsHandler{
		logger: log.WithComponent("patterns-handler"),
	}
}

// PatternTableEntry is a pattern table row with its display label
type PatternTableEntry struct {
	Category string   `json:"category"`
	Label    string   `json:"label"`
	Keywords []string `json:"keywords"`
	Weight   int      `json:"weight"`
}

// PatternsResponse lists all active pattern tables
type PatternsResponse struct {
	Scam    []PatternTableEntry `json:"scam"`
	DarkJob []PatternTableEntry `json:"dark_job"`
}

// Get handles GET /api/v1/patterns
func (h *PatternsHandler) Get(w http.ResponseWriter, r *http.Request) {
	response := PatternsResponse{
		Scam:    tableEntries(services.ScamPatterns(), services.ScamTypeLabel),
		DarkJob: tableEntries(services.DarkJobPatterns(), services.DarkJobCategoryName),
	}

	writeJSON(w, http.StatusOK, response)
}

func tableEntries(table []models.PatternEntry, label func(string) string) []PatternTableEntry {
	entries := make([]PatternTableEntry, 0, len(table))
	for _, e := range table {
		entries = append(entries, PatternTableEntry{
			Category: e.Category,
			Label:    label(e.Category),
			Keywords: e.Keywords,
			Weight:   e.Weight,
		})
	}
	return entries
}
