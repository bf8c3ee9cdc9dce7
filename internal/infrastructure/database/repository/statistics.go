package repository

import (
	"context"
	"fmt"
	"time"

	"mamoritalk-ai/internal/domain/models"
	"mamoritalk-ai/internal/infrastructure/database"
)

// StatisticsRepository handles regional scam statistics persistence
type StatisticsRepository struct {
	db database.DBTX
}

// NewStatisticsRepository creates a new statistics repository
func NewStatisticsRepository(db database.DBTX) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

// TopScamTypes returns the most reported scam types for a prefecture,
// ordered by report count.
func (r *StatisticsRepository) TopScamTypes(ctx context.Context, prefecture string, limit int) ([]models.ScamTypeStat, error) {
	if limit <= 0 {
		limit = 3
	}

	query := `
		SELECT scam_type, SUM(report_count) AS count, SUM(damage_amount) AS amount
		FROM regional_scam_stats
		WHERE prefecture = $1
		GROUP BY scam_type
		ORDER BY count DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, prefecture, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scam statistics: %w", err)
	}
	defer rows.Close()

	var stats []models.ScamTypeStat
	for rows.Next() {
		var s models.ScamTypeStat
		if err := rows.Scan(&s.ScamType, &s.Count, &s.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan scam statistic: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read scam statistics: %w", err)
	}

	return stats, nil
}

// RecordAnalysis appends an analysis outcome row for reporting.
func (r *StatisticsRepository) RecordAnalysis(ctx context.Context, analysisType, scamType string, riskScore int) error {
	query := `
		INSERT INTO analysis_events (analysis_type, scam_type, risk_score, created_at)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.db.Exec(ctx, query, analysisType, scamType, riskScore, time.Now()); err != nil {
		return fmt.Errorf("failed to record analysis event: %w", err)
	}
	return nil
}
