package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nutrifit/nutrifit-backend/internal/insights/domain"
)

// BodyMetricsRepository reads body measurements used to size diet targets.
type BodyMetricsRepository struct {
	db *sql.DB
}

func NewBodyMetricsRepository(db *sql.DB) *BodyMetricsRepository {
	return &BodyMetricsRepository{db: db}
}

// Latest returns the most recent measurement of a user.
func (r *BodyMetricsRepository) Latest(ctx context.Context, userID string) (*domain.BodyMetrics, error) {
	query := `
		SELECT user_id, weight_kg, bmi, bmr, weight_trend, recorded_at
		FROM body_metrics
		WHERE user_id = $1
		ORDER BY recorded_at DESC
		LIMIT 1
	`
	var m domain.BodyMetrics
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&m.UserID, &m.WeightKg, &m.BMI, &m.BMR, &m.WeightTrend, &m.RecordedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBodyMetricsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get body metrics: %w", err)
	}
	return &m, nil
}
