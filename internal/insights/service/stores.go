// Package service holds the suggestion and insight business rules.
package service

import (
	"context"
	"time"

	"github.com/nutrifit/nutrifit-backend/internal/insights/domain"
)

// SuggestionStore persists suggestions. *repository.SuggestionRepository
// implements it.
type SuggestionStore interface {
	Create(ctx context.Context, s *domain.Suggestion) error
	LatestActive(ctx context.Context, userID string) (*domain.Suggestion, error)
	GetByID(ctx context.Context, id int64) (*domain.Suggestion, error)
	Deactivate(ctx context.Context, id int64) error
}

// InsightStore persists insights. *repository.InsightRepository implements it.
type InsightStore interface {
	Create(ctx context.Context, in *domain.Insight) error
	ListActive(ctx context.Context, userID string, limit int) ([]domain.Insight, error)
	LatestSince(ctx context.Context, userID string, since time.Time) (*domain.Insight, error)
	GetByID(ctx context.Context, id int64) (*domain.Insight, error)
	Deactivate(ctx context.Context, id int64) error
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// BodyMetricsStore reads body measurements.
type BodyMetricsStore interface {
	Latest(ctx context.Context, userID string) (*domain.BodyMetrics, error)
}

// Cache is the per-user lookup cache. *repository.Cache implements it.
type Cache interface {
	LatestSuggestion(ctx context.Context, userID string) (*domain.Suggestion, bool, error)
	SetLatestSuggestion(ctx context.Context, userID string, s *domain.Suggestion) error
	InvalidateLatestSuggestion(ctx context.Context, userID string) error
	MarkRecentInsight(ctx context.Context, userID string, insightID int64, window time.Duration) error
	RecentInsight(ctx context.Context, userID string) (int64, bool, error)
	ForgetRecentInsight(ctx context.Context, userID string) error
}

// Generator writes insight texts and suggestion lists. *generator.Client
// implements it.
type Generator interface {
	GenerateInsight(ctx context.Context, analysisType, userContext string) (string, error)
	GenerateSuggestions(ctx context.Context, suggestionType, userGoal, userContext string) ([]string, error)
}

// loadUserContext renders the user's latest body metrics, or a placeholder
// when none are recorded.
func loadUserContext(ctx context.Context, metrics BodyMetricsStore, userID string) (string, *domain.BodyMetrics) {
	m, err := metrics.Latest(ctx, userID)
	if err != nil {
		return userContext(nil), nil
	}
	return userContext(m), m
}
