package http

import (
	"context"

	"github.com/nutrifit/nutrifit-backend/internal/insights/domain"
	"github.com/nutrifit/nutrifit-backend/internal/insights/dto"
)

// SuggestionService is implemented by *service.SuggestionService.
type SuggestionService interface {
	Generate(ctx context.Context, userID string, req dto.SuggestionRequest) (*domain.Suggestion, error)
	Latest(ctx context.Context, userID string) (*domain.Suggestion, error)
	Delete(ctx context.Context, userID string, id int64) error
}

// InsightService is implemented by *service.InsightService.
type InsightService interface {
	Latest(ctx context.Context, userID string) ([]dto.Insight, bool, error)
	Generate(ctx context.Context, userID string, req dto.GenerateInsightRequest) (dto.Insight, error)
	Details(ctx context.Context, userID string, id int64) (dto.Insight, error)
	Dismiss(ctx context.Context, userID string, id int64) error
}

// latestResponse is the server form of dto.LatestInsightsResponse.
type latestResponse struct {
	Insights         []dto.Insight      `json:"insights"`
	TotalCount       int                `json:"totalCount"`
	HasNewInsights   bool               `json:"hasNewInsights"`
	LatestSuggestion *domain.Suggestion `json:"latestSuggestion"`
}

func generated(s *domain.Suggestion) domain.GeneratedSuggestion {
	return domain.GeneratedSuggestion{
		SuggestionType:  s.SuggestionType,
		UserGoal:        s.UserGoal,
		Recommendations: s.Recommendations,
		SpecificMetrics: s.SpecificMetrics,
		Rationale:       s.Rationale,
		ConfidenceScore: s.ConfidenceScore,
	}
}
