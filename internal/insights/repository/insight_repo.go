package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nutrifit/nutrifit-backend/internal/insights/domain"
)

const insightColumns = `insight_id, user_id, content, suggestion_format, is_active,
		       expires_at, created_at, updated_at`

// InsightRepository handles PostgreSQL operations for AI insights
type InsightRepository struct {
	db *sql.DB
}

// NewInsightRepository creates a new InsightRepository
func NewInsightRepository(db *sql.DB) *InsightRepository {
	return &InsightRepository{db: db}
}

// Create inserts an active insight and fills in its id and timestamps.
func (r *InsightRepository) Create(ctx context.Context, in *domain.Insight) error {
	query := `
		INSERT INTO ai_insights (user_id, content, suggestion_format, is_active, expires_at)
		VALUES ($1, $2, $3, TRUE, $4)
		RETURNING insight_id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, in.UserID, in.Content, in.SuggestionFormat, in.ExpiresAt).
		Scan(&in.ID, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create insight: %w", err)
	}
	in.IsActive = true
	return nil
}

// ListActive returns up to limit active insights, newest first.
func (r *InsightRepository) ListActive(ctx context.Context, userID string, limit int) ([]domain.Insight, error) {
	query := `
		SELECT ` + insightColumns + `
		FROM ai_insights
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC, insight_id DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list insights: %w", err)
	}
	defer rows.Close()

	insights := []domain.Insight{}
	for rows.Next() {
		in, err := scanInsight(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan insight: %w", err)
		}
		insights = append(insights, *in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list insights: %w", err)
	}
	return insights, nil
}

// LatestSince returns the newest active insight created at or after since.
func (r *InsightRepository) LatestSince(ctx context.Context, userID string, since time.Time) (*domain.Insight, error) {
	query := `
		SELECT ` + insightColumns + `
		FROM ai_insights
		WHERE user_id = $1 AND is_active = TRUE AND created_at >= $2
		ORDER BY created_at DESC, insight_id DESC
		LIMIT 1
	`
	in, err := scanInsight(r.db.QueryRowContext(ctx, query, userID, since))
	if err != nil {
		return nil, fmt.Errorf("failed to get recent insight: %w", err)
	}
	return in, nil
}

// GetByID returns an insight whether or not it is active.
func (r *InsightRepository) GetByID(ctx context.Context, id int64) (*domain.Insight, error) {
	query := `
		SELECT ` + insightColumns + `
		FROM ai_insights
		WHERE insight_id = $1
	`
	in, err := scanInsight(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get insight: %w", err)
	}
	return in, nil
}

// Deactivate soft-deletes an insight.
func (r *InsightRepository) Deactivate(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE ai_insights SET is_active = FALSE, updated_at = NOW() WHERE insight_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate insight: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to deactivate insight: %w", err)
	}
	if n == 0 {
		return domain.ErrInsightNotFound
	}
	return nil
}

// DeactivateExpired deactivates every active insight whose expiry is before
// now and returns how many were changed.
func (r *InsightRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE ai_insights
		SET is_active = FALSE, updated_at = NOW()
		WHERE is_active = TRUE AND expires_at < $1
	`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire insights: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to expire insights: %w", err)
	}
	return n, nil
}

func scanInsight(row rowScanner) (*domain.Insight, error) {
	var in domain.Insight
	err := row.Scan(
		&in.ID,
		&in.UserID,
		&in.Content,
		&in.SuggestionFormat,
		&in.IsActive,
		&in.ExpiresAt,
		&in.CreatedAt,
		&in.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrInsightNotFound
	}
	if err != nil {
		return nil, err
	}
	return &in, nil
}
