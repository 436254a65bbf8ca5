package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nutrifit/nutrifit-backend/internal/insights/domain"
)

const (
	latestSuggestionPrefix = "nutrifit:suggestion:latest:" // nutrifit:suggestion:latest:{user_id}
	recentInsightPrefix    = "nutrifit:insight:recent:"    // nutrifit:insight:recent:{user_id} -> insight_id
	noSuggestion           = "null"
)

// cachedSuggestion carries the fields hidden from the JSON form of
// domain.Suggestion.
type cachedSuggestion struct {
	domain.Suggestion
	UserID string `json:"userId"`
}

// Cache keeps per-user lookups in Redis so the dashboard does not hit
// PostgreSQL on every refresh.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache creates a Cache whose suggestion entries live for ttl.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// LatestSuggestion returns the cached latest suggestion. found is false on a
// cache miss; a cached "no suggestion" yields (nil, true, nil).
func (c *Cache) LatestSuggestion(ctx context.Context, userID string) (s *domain.Suggestion, found bool, err error) {
	data, err := c.client.Get(ctx, latestSuggestionPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached suggestion: %w", err)
	}
	if data == noSuggestion {
		return nil, true, nil
	}

	var cached cachedSuggestion
	if err := json.Unmarshal([]byte(data), &cached); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached suggestion: %w", err)
	}
	cached.Suggestion.UserID = cached.UserID
	cached.Suggestion.IsActive = true
	return &cached.Suggestion, true, nil
}

// SetLatestSuggestion stores s, or the absence of one when s is nil.
func (c *Cache) SetLatestSuggestion(ctx context.Context, userID string, s *domain.Suggestion) error {
	data := []byte(noSuggestion)
	if s != nil {
		var err error
		data, err = json.Marshal(cachedSuggestion{Suggestion: *s, UserID: s.UserID})
		if err != nil {
			return fmt.Errorf("failed to marshal suggestion: %w", err)
		}
	}
	if err := c.client.Set(ctx, latestSuggestionPrefix+userID, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache suggestion: %w", err)
	}
	return nil
}

func (c *Cache) InvalidateLatestSuggestion(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, latestSuggestionPrefix+userID).Err(); err != nil {
		return fmt.Errorf("failed to invalidate suggestion: %w", err)
	}
	return nil
}

// MarkRecentInsight remembers the insight generated for a user for window.
func (c *Cache) MarkRecentInsight(ctx context.Context, userID string, insightID int64, window time.Duration) error {
	if err := c.client.Set(ctx, recentInsightPrefix+userID, insightID, window).Err(); err != nil {
		return fmt.Errorf("failed to mark recent insight: %w", err)
	}
	return nil
}

// RecentInsight returns the id stored by MarkRecentInsight.
func (c *Cache) RecentInsight(ctx context.Context, userID string) (int64, bool, error) {
	data, err := c.client.Get(ctx, recentInsightPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get recent insight: %w", err)
	}
	id, err := strconv.ParseInt(data, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return id, true, nil
}

// ForgetRecentInsight drops the marker set by MarkRecentInsight.
func (c *Cache) ForgetRecentInsight(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, recentInsightPrefix+userID).Err(); err != nil {
		return fmt.Errorf("failed to forget recent insight: %w", err)
	}
	return nil
}
