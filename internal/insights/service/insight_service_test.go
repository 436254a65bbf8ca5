package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrifit/nutrifit-backend/internal/insights/domain"
	"github.com/nutrifit/nutrifit-backend/internal/insights/dto"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type insightFixture struct {
	svc   *InsightService
	store *memInsights
	gen   *stubGenerator
	clock *clock
	flush func()
}

func setupInsightService(t *testing.T) insightFixture {
	t.Helper()
	cache, mr := setupCache(t)
	clk := &clock{now: fixedNow}
	store := newMemInsights(clk.Now)
	gen := &stubGenerator{insight: "Your workout streak is great. You should add protein."}
	svc := NewInsightService(store, memBodyMetrics{}, cache, gen, InsightSettings{})
	svc.now = clk.Now
	return insightFixture{svc: svc, store: store, gen: gen, clock: clk, flush: mr.FlushAll}
}

func TestInsightService_Generate(t *testing.T) {
	f := setupInsightService(t)
	ctx := context.Background()

	first, err := f.svc.Generate(ctx, "user-1", dto.GenerateInsightRequest{InsightType: "fitness"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.InsightID)
	assert.Equal(t, domain.FormatExercise, first.SuggestionFormat)
	assert.Equal(t, first.SuggestionFormat, first.Category)
	assert.Equal(t, dto.InsightStatusNew, first.Status)
	assert.Equal(t, 3, first.Priority)
	assert.Equal(t, fixedNow.Add(7*24*time.Hour), first.ExpiresAt)
	assert.Equal(t, []string{"fitness"}, f.gen.prompts)

	t.Run("recent insight is reused", func(t *testing.T) {
		again, err := f.svc.Generate(ctx, "user-1", dto.GenerateInsightRequest{AnalysisType: "diet"})
		require.NoError(t, err)
		assert.Equal(t, first.InsightID, again.InsightID)
		assert.Equal(t, 1, f.gen.calls())
	})

	t.Run("reuse falls back to the database without the cache marker", func(t *testing.T) {
		f.flush()
		again, err := f.svc.Generate(ctx, "user-1", dto.GenerateInsightRequest{})
		require.NoError(t, err)
		assert.Equal(t, first.InsightID, again.InsightID)
	})

	t.Run("force regenerates", func(t *testing.T) {
		forced, err := f.svc.Generate(ctx, "user-1", dto.GenerateInsightRequest{ForceRegenerate: true})
		require.NoError(t, err)
		assert.Equal(t, int64(2), forced.InsightID)
		assert.Equal(t, "overall", f.gen.prompts[1])
	})

	t.Run("window elapsed", func(t *testing.T) {
		f.clock.Advance(3 * time.Hour)
		later, err := f.svc.Generate(ctx, "user-1", dto.GenerateInsightRequest{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), later.InsightID)
	})

	t.Run("other users are independent", func(t *testing.T) {
		other, err := f.svc.Generate(ctx, "user-2", dto.GenerateInsightRequest{})
		require.NoError(t, err)
		assert.Equal(t, int64(4), other.InsightID)
	})
}

func TestInsightService_GenerateFallbackContent(t *testing.T) {
	f := setupInsightService(t)
	f.gen.err = errors.New("upstream down")

	in, err := f.svc.Generate(context.Background(), "user-1", dto.GenerateInsightRequest{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(in.Content, "Unable to generate detailed analysis at this time."))
	assert.True(t, strings.HasSuffix(in.Content, "Error: upstream down"))
	assert.Equal(t, domain.FormatGeneral, in.SuggestionFormat)
}

func TestInsightService_Latest(t *testing.T) {
	f := setupInsightService(t)
	ctx := context.Background()

	expired := f.store.add(domain.Insight{
		UserID: "user-1", Content: "old", IsActive: true,
		CreatedAt: fixedNow.Add(-8 * 24 * time.Hour), ExpiresAt: fixedNow.Add(-time.Hour),
	})
	f.store.add(domain.Insight{
		UserID: "user-1", Content: "older insight", SuggestionFormat: domain.FormatGeneral, IsActive: true,
		CreatedAt: fixedNow.Add(-5 * time.Hour), ExpiresAt: fixedNow.Add(24 * time.Hour),
	})

	insights, hasNew, err := f.svc.Latest(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, insights, 1)
	assert.False(t, hasNew)
	assert.Equal(t, dto.InsightStatusActive, insights[0].Status)

	stored, err := f.store.GetByID(ctx, expired.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	_, err = f.svc.Generate(ctx, "user-1", dto.GenerateInsightRequest{})
	require.NoError(t, err)

	insights, hasNew, err = f.svc.Latest(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, insights, 2)
	assert.True(t, hasNew)
	assert.Equal(t, dto.InsightStatusNew, insights[0].Status)

	for i := 0; i < 12; i++ {
		f.store.add(domain.Insight{
			UserID: "user-1", IsActive: true,
			CreatedAt: fixedNow.Add(-time.Duration(i+10) * time.Hour), ExpiresAt: fixedNow.Add(time.Hour),
		})
	}
	insights, _, err = f.svc.Latest(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, insights, 10)
}

func TestInsightService_DetailsAndDismiss(t *testing.T) {
	f := setupInsightService(t)
	ctx := context.Background()

	in, err := f.svc.Generate(ctx, "user-1", dto.GenerateInsightRequest{})
	require.NoError(t, err)

	_, err = f.svc.Details(ctx, "user-2", in.InsightID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.Details(ctx, "user-1", 404)
	assert.ErrorIs(t, err, domain.ErrInsightNotFound)

	got, err := f.svc.Details(ctx, "user-1", in.InsightID)
	require.NoError(t, err)
	assert.Equal(t, in.Content, got.Content)

	assert.ErrorIs(t, f.svc.Dismiss(ctx, "user-2", in.InsightID), domain.ErrForbidden)
	require.NoError(t, f.svc.Dismiss(ctx, "user-1", in.InsightID))

	insights, _, err := f.svc.Latest(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, insights)

	// the dismissed insight is no longer reused
	next, err := f.svc.Generate(ctx, "user-1", dto.GenerateInsightRequest{})
	require.NoError(t, err)
	assert.NotEqual(t, in.InsightID, next.InsightID)
}

func TestInsightService_ExpireInsights(t *testing.T) {
	f := setupInsightService(t)
	f.store.add(domain.Insight{UserID: "a", IsActive: true, ExpiresAt: fixedNow.Add(-time.Second)})
	f.store.add(domain.Insight{UserID: "b", IsActive: true, ExpiresAt: fixedNow.Add(-time.Hour)})
	f.store.add(domain.Insight{UserID: "b", IsActive: true, ExpiresAt: fixedNow.Add(time.Hour)})

	n, err := f.svc.ExpireInsights(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
