package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/nutrifit/nutrifit-backend/internal/insights/domain"
	"github.com/nutrifit/nutrifit-backend/internal/insights/dto"
	"github.com/nutrifit/nutrifit-backend/internal/logger"
)

const defaultTimeFrame = "week"

// SuggestionService generates, caches and clears suggestions.
type SuggestionService struct {
	store   SuggestionStore
	metrics BodyMetricsStore
	cache   Cache
	gen     Generator
	now     func() time.Time
}

// NewSuggestionService creates a new suggestion service
func NewSuggestionService(store SuggestionStore, metrics BodyMetricsStore, cache Cache, gen Generator) *SuggestionService {
	return &SuggestionService{
		store:   store,
		metrics: metrics,
		cache:   cache,
		gen:     gen,
		now:     time.Now,
	}
}

// Generate produces a suggestion for req and stores it as the user's latest.
// An unavailable generator yields the fixed fallback recommendations rather
// than an error.
func (s *SuggestionService) Generate(ctx context.Context, userID string, req dto.SuggestionRequest) (*domain.Suggestion, error) {
	if strings.TrimSpace(req.TimeFrame) == "" {
		req.TimeFrame = defaultTimeFrame
	}
	if strings.TrimSpace(req.UserGoal) == "" {
		req.UserGoal = domain.GoalMaintenance
	}

	result := s.generate(ctx, userID, req)
	result.SuggestionType = req.SuggestionType
	result.UserGoal = req.UserGoal

	stored := &domain.Suggestion{
		UserID:          userID,
		SuggestionType:  result.SuggestionType,
		UserGoal:        result.UserGoal,
		TimeFrame:       req.TimeFrame,
		Recommendations: result.Recommendations,
		SpecificMetrics: result.SpecificMetrics,
		Rationale:       result.Rationale,
		ConfidenceScore: result.ConfidenceScore,
		RequestMetadata: requestMetadata(req),
		IsActive:        true,
	}
	if err := s.store.Create(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to store suggestion: %w", err)
	}

	if err := s.cache.SetLatestSuggestion(ctx, userID, stored); err != nil {
		logger.New(ctx).LogWarnf("generate_suggestion", "cache update failed: %v", err)
	}
	return stored, nil
}

func (s *SuggestionService) generate(ctx context.Context, userID string, req dto.SuggestionRequest) domain.GeneratedSuggestion {
	userCtx, metrics := loadUserContext(ctx, s.metrics, userID)
	promptCtx := mergeContexts(userCtx, preferenceContext(req))

	var (
		recs     []string
		err      error
		fallback []string
	)
	switch strings.ToLower(strings.TrimSpace(req.SuggestionType)) {
	case dto.SuggestionTypeExercise:
		fallback = exerciseFallback
		recs, err = s.gen.GenerateSuggestions(ctx, dto.SuggestionTypeExercise, req.UserGoal, promptCtx)
		if err == nil {
			return domain.GeneratedSuggestion{
				Recommendations: limitRecommendations(recs),
				SpecificMetrics: exerciseMetrics(req.UserGoal),
				Rationale:       fmt.Sprintf("AI-generated recommendations based on your goal of %s and current activity level", req.UserGoal),
				ConfidenceScore: 90,
			}
		}
	case dto.SuggestionTypeDiet:
		fallback = dietFallback
		recs, err = s.gen.GenerateSuggestions(ctx, dto.SuggestionTypeDiet, req.UserGoal, promptCtx)
		if err == nil {
			weight, bmr := defaultWeightKg, defaultBMR
			if metrics != nil {
				if metrics.WeightKg > 0 {
					weight = metrics.WeightKg
				}
				if metrics.BMR > 0 {
					bmr = metrics.BMR
				}
			}
			return domain.GeneratedSuggestion{
				Recommendations: limitRecommendations(recs),
				SpecificMetrics: dietMetrics(req.UserGoal, weight, bmr),
				Rationale:       fmt.Sprintf("AI-generated recommendations based on your BMR of %d calories and %s goal", int64(math.Round(bmr)), req.UserGoal),
				ConfidenceScore: 95,
			}
		}
	default:
		return domain.GeneratedSuggestion{
			Recommendations: []string{},
			SpecificMetrics: map[string]any{},
			Rationale:       "Unsupported suggestion type: " + req.SuggestionType,
		}
	}

	logger.New(ctx).LogWarnf("generate_suggestion", "using fallback recommendations type=%s error=%v", req.SuggestionType, err)
	return domain.GeneratedSuggestion{
		Recommendations: limitRecommendations(fallback),
		SpecificMetrics: map[string]any{},
		Rationale:       "Basic recommendations due to API unavailability: " + err.Error(),
		ConfidenceScore: 50,
	}
}

// Latest returns the user's newest active suggestion, or nil when there is
// none. Results are served from the cache when possible.
func (s *SuggestionService) Latest(ctx context.Context, userID string) (*domain.Suggestion, error) {
	log := logger.New(ctx)
	cached, found, err := s.cache.LatestSuggestion(ctx, userID)
	if err != nil {
		log.LogWarnf("latest_suggestion", "cache read failed: %v", err)
	} else if found {
		return cached, nil
	}

	latest, err := s.store.LatestActive(ctx, userID)
	if errors.Is(err, domain.ErrSuggestionNotFound) {
		latest = nil
	} else if err != nil {
		return nil, err
	}

	if err := s.cache.SetLatestSuggestion(ctx, userID, latest); err != nil {
		log.LogWarnf("latest_suggestion", "cache update failed: %v", err)
	}
	return latest, nil
}

// Delete deactivates a suggestion owned by userID. Suggestions of other
// users are reported as not found.
func (s *SuggestionService) Delete(ctx context.Context, userID string, id int64) error {
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return domain.ErrSuggestionNotFound
	}
	if existing.IsActive {
		if err := s.store.Deactivate(ctx, id); err != nil {
			return err
		}
	}

	if err := s.cache.InvalidateLatestSuggestion(ctx, userID); err != nil {
		logger.New(ctx).LogWarnf("delete_suggestion", "cache invalidation failed: %v", err)
	}
	return nil
}
