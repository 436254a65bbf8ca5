package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nutrifit/nutrifit-backend/internal/insights/domain"
	"github.com/nutrifit/nutrifit-backend/internal/insights/dto"
	"github.com/nutrifit/nutrifit-backend/internal/logger"
)

const insightFallbackPrefix = "Unable to generate detailed analysis at this time. " +
	"Please ensure your profile and recent activity data are up to date. Error: "

// InsightSettings controls insight lifetimes.
type InsightSettings struct {
	// TTL is how long a generated insight stays active.
	TTL time.Duration
	// RecentWindow is how long a new insight is reused instead of
	// generating another one.
	RecentWindow time.Duration
}

// InsightService generates, lists and dismisses insights.
type InsightService struct {
	store    InsightStore
	metrics  BodyMetricsStore
	cache    Cache
	gen      Generator
	settings InsightSettings
	now      func() time.Time
}

// NewInsightService creates a new insight service
func NewInsightService(store InsightStore, metrics BodyMetricsStore, cache Cache, gen Generator, settings InsightSettings) *InsightService {
	if settings.TTL <= 0 {
		settings.TTL = 7 * 24 * time.Hour
	}
	if settings.RecentWindow <= 0 {
		settings.RecentWindow = 2 * time.Hour
	}
	return &InsightService{
		store:    store,
		metrics:  metrics,
		cache:    cache,
		gen:      gen,
		settings: settings,
		now:      time.Now,
	}
}

// Latest expires stale insights and returns up to ten active ones, newest
// first. hasNew reports whether any of them is younger than an hour.
func (s *InsightService) Latest(ctx context.Context, userID string) (insights []dto.Insight, hasNew bool, err error) {
	if _, err := s.ExpireInsights(ctx); err != nil {
		logger.New(ctx).LogWarnf("latest_insights", "expiry sweep failed: %v", err)
	}

	active, err := s.store.ListActive(ctx, userID, maxLatestInsights)
	if err != nil {
		return nil, false, err
	}

	now := s.now()
	insights = make([]dto.Insight, 0, len(active))
	for _, in := range active {
		d := toInsightDTO(in, now)
		if d.Status == dto.InsightStatusNew {
			hasNew = true
		}
		insights = append(insights, d)
	}
	return insights, hasNew, nil
}

// Generate returns a fresh insight for req. Unless ForceRegenerate is set,
// an insight created within the recent window is returned instead.
func (s *InsightService) Generate(ctx context.Context, userID string, req dto.GenerateInsightRequest) (dto.Insight, error) {
	log := logger.New(ctx)
	resolved := req.ResolvedAnalysisType()
	normalized := NormalizeAnalysisType(resolved)
	promptType := resolved
	if promptType == "" {
		promptType = normalized
	}

	if !req.ForceRegenerate {
		recent, err := s.recentInsight(ctx, userID)
		if err != nil {
			return dto.Insight{}, err
		}
		if recent != nil {
			log.LogInfof("generate_insight", "reusing recent insight insight_id=%d", recent.ID)
			return toInsightDTO(*recent, s.now()), nil
		}
	}

	userCtx, _ := loadUserContext(ctx, s.metrics, userID)
	content, err := s.gen.GenerateInsight(ctx, promptType, userCtx)
	if err != nil {
		log.LogWarnf("generate_insight", "using fallback content error=%v", err)
		content = insightFallbackPrefix + err.Error()
	}

	now := s.now()
	in := &domain.Insight{
		UserID:           userID,
		Content:          content,
		SuggestionFormat: DetermineFormat(content, normalized),
		IsActive:         true,
		ExpiresAt:        now.Add(s.settings.TTL),
	}
	if err := s.store.Create(ctx, in); err != nil {
		return dto.Insight{}, fmt.Errorf("failed to store insight: %w", err)
	}
	if err := s.cache.MarkRecentInsight(ctx, userID, in.ID, s.settings.RecentWindow); err != nil {
		log.LogWarnf("generate_insight", "cache update failed: %v", err)
	}
	return toInsightDTO(*in, now), nil
}

// recentInsight looks for an active insight created within the recent
// window, asking the cache before the database.
func (s *InsightService) recentInsight(ctx context.Context, userID string) (*domain.Insight, error) {
	since := s.now().Add(-s.settings.RecentWindow)

	if id, ok, err := s.cache.RecentInsight(ctx, userID); err == nil && ok {
		in, err := s.store.GetByID(ctx, id)
		if err == nil && in.UserID == userID && in.IsActive && in.CreatedAt.After(since) {
			return in, nil
		}
	}

	in, err := s.store.LatestSince(ctx, userID, since)
	if errors.Is(err, domain.ErrInsightNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return in, nil
}

// Details returns one insight owned by userID.
func (s *InsightService) Details(ctx context.Context, userID string, id int64) (dto.Insight, error) {
	in, err := s.owned(ctx, userID, id)
	if err != nil {
		return dto.Insight{}, err
	}
	return toInsightDTO(*in, s.now()), nil
}

// Dismiss deactivates an insight owned by userID.
func (s *InsightService) Dismiss(ctx context.Context, userID string, id int64) error {
	in, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if in.IsActive {
		if err := s.store.Deactivate(ctx, id); err != nil {
			return err
		}
	}

	if recentID, ok, err := s.cache.RecentInsight(ctx, userID); err == nil && ok && recentID == id {
		if err := s.cache.ForgetRecentInsight(ctx, userID); err != nil {
			logger.New(ctx).LogWarnf("dismiss_insight", "cache invalidation failed: %v", err)
		}
	}
	return nil
}

func (s *InsightService) owned(ctx context.Context, userID string, id int64) (*domain.Insight, error) {
	in, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return in, nil
}

// ExpireInsights deactivates every insight past its expiry time and returns
// how many were changed.
func (s *InsightService) ExpireInsights(ctx context.Context) (int64, error) {
	n, err := s.store.DeactivateExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to expire insights: %w", err)
	}
	if n > 0 {
		logger.New(ctx).LogInfof("expire_insights", "deactivated=%d", n)
	}
	return n, nil
}
