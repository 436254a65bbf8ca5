package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/nutrifit/nutrifit-backend/internal/insights/domain"
)

const suggestionColumns = `suggestion_id, user_id, suggestion_type, user_goal, time_frame,
		       recommendations, specific_metrics, rationale, confidence_score,
		       request_metadata, is_active, created_at`

// SuggestionRepository handles PostgreSQL operations for stored suggestions
type SuggestionRepository struct {
	db *sql.DB
}

// NewSuggestionRepository creates a new SuggestionRepository
func NewSuggestionRepository(db *sql.DB) *SuggestionRepository {
	return &SuggestionRepository{db: db}
}

// Create inserts an active suggestion and fills in its id and creation time.
func (r *SuggestionRepository) Create(ctx context.Context, s *domain.Suggestion) error {
	query := `
		INSERT INTO suggestions (
			user_id, suggestion_type, user_goal, time_frame, recommendations,
			specific_metrics, rationale, confidence_score, request_metadata, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE)
		RETURNING suggestion_id, created_at
	`

	recommendations := s.Recommendations
	if recommendations == nil {
		recommendations = []string{}
	}

	err := r.db.QueryRowContext(ctx, query,
		s.UserID,
		s.SuggestionType,
		s.UserGoal,
		s.TimeFrame,
		pq.Array(recommendations),
		marshalObject(s.SpecificMetrics),
		s.Rationale,
		s.ConfidenceScore,
		marshalObject(s.RequestMetadata),
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create suggestion: %w", err)
	}

	s.IsActive = true
	return nil
}

// LatestActive returns the newest active suggestion of a user.
func (r *SuggestionRepository) LatestActive(ctx context.Context, userID string) (*domain.Suggestion, error) {
	query := `
		SELECT ` + suggestionColumns + `
		FROM suggestions
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC, suggestion_id DESC
		LIMIT 1
	`
	s, err := scanSuggestion(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get latest suggestion: %w", err)
	}
	return s, nil
}

// GetByID returns a suggestion whether or not it is active.
func (r *SuggestionRepository) GetByID(ctx context.Context, id int64) (*domain.Suggestion, error) {
	query := `
		SELECT ` + suggestionColumns + `
		FROM suggestions
		WHERE suggestion_id = $1
	`
	s, err := scanSuggestion(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestion: %w", err)
	}
	return s, nil
}

// Deactivate soft-deletes a suggestion.
func (r *SuggestionRepository) Deactivate(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE suggestions SET is_active = FALSE WHERE suggestion_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate suggestion: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to deactivate suggestion: %w", err)
	}
	if n == 0 {
		return domain.ErrSuggestionNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSuggestion(row rowScanner) (*domain.Suggestion, error) {
	var (
		s                     domain.Suggestion
		recommendations       pq.StringArray
		metricsJSON, metaJSON []byte
	)
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.SuggestionType,
		&s.UserGoal,
		&s.TimeFrame,
		&recommendations,
		&metricsJSON,
		&s.Rationale,
		&s.ConfidenceScore,
		&metaJSON,
		&s.IsActive,
		&s.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSuggestionNotFound
	}
	if err != nil {
		return nil, err
	}

	s.Recommendations = []string(recommendations)
	if s.Recommendations == nil {
		s.Recommendations = []string{}
	}
	s.SpecificMetrics = unmarshalObject(metricsJSON)
	s.RequestMetadata = unmarshalObject(metaJSON)
	return &s, nil
}

// marshalObject encodes m as a JSON object; nil becomes {}.
func marshalObject(m map[string]any) []byte {
	if m == nil {
		return []byte("{}")
	}
	data, err := json.Marshal(m)
	if err != nil {
		return []byte("{}")
	}
	return data
}

// unmarshalObject decodes a JSON object column. Unreadable content is kept
// under "raw".
func unmarshalObject(data []byte) map[string]any {
	out := map[string]any{}
	if len(data) == 0 {
		return out
	}
	if err := json.Unmarshal(data, &out); err != nil || out == nil {
		return map[string]any{"raw": string(data)}
	}
	return out
}
