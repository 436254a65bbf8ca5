package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrifit/nutrifit-backend/internal/insights/domain"
	"github.com/nutrifit/nutrifit-backend/internal/insights/dto"
)

type suggestionFixture struct {
	svc   *SuggestionService
	store *memSuggestions
	gen   *stubGenerator
}

func setupSuggestionService(t *testing.T, metrics memBodyMetrics) suggestionFixture {
	t.Helper()
	cache, _ := setupCache(t)
	store := newMemSuggestions()
	gen := &stubGenerator{}
	if metrics == nil {
		metrics = memBodyMetrics{}
	}
	return suggestionFixture{
		svc:   NewSuggestionService(store, metrics, cache, gen),
		store: store,
		gen:   gen,
	}
}

func TestSuggestionService_GenerateExercise(t *testing.T) {
	f := setupSuggestionService(t, nil)
	f.gen.suggestions = []string{"Run", "Lift", strings.Repeat("stretch ", 150), "Swim"}
	ctx := context.Background()

	s, err := f.svc.Generate(ctx, "user-1", dto.SuggestionRequest{SuggestionType: "exercise", UserGoal: "weight_loss"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), s.ID)
	assert.Equal(t, "exercise", s.SuggestionType)
	assert.Equal(t, "weight_loss", s.UserGoal)
	assert.Equal(t, "week", s.TimeFrame)
	require.Len(t, s.Recommendations, 3)
	assert.True(t, strings.HasSuffix(s.Recommendations[2], "..."))
	assert.Equal(t, "30-45 minutes", s.SpecificMetrics["recommendedDuration"])
	assert.Equal(t, "AI-generated recommendations based on your goal of weight_loss and current activity level", s.Rationale)
	assert.Equal(t, 90, s.ConfidenceScore)
	assert.Equal(t, []string{"exercise"}, f.gen.prompts)
	assert.Equal(t, "Limited user data available for analysis.\n", f.gen.contexts[0])

	latest, err := f.svc.Latest(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, s.ID, latest.ID)
	assert.Zero(t, f.store.reads, "latest suggestion should come from the cache")
}

func TestSuggestionService_GenerateDiet(t *testing.T) {
	f := setupSuggestionService(t, memBodyMetrics{
		"user-1": {UserID: "user-1", WeightKg: 80, BMI: 24.7, BMR: 1650.4, WeightTrend: "stable"},
	})
	f.gen.suggestions = []string{"Eat greens"}

	s, err := f.svc.Generate(context.Background(), "user-1", dto.SuggestionRequest{
		SuggestionType:     "Diet",
		UserGoal:           "weight_loss",
		TimeFrame:          "month",
		DietaryPreferences: dto.StringList{"vegetarian"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Diet", s.SuggestionType)
	assert.Equal(t, "month", s.TimeFrame)
	assert.Equal(t, int64(2011), s.SpecificMetrics["targetCalories"])
	assert.Equal(t, "AI-generated recommendations based on your BMR of 1650 calories and weight_loss goal", s.Rationale)
	assert.Equal(t, 95, s.ConfidenceScore)
	assert.Equal(t, map[string]any{"dietaryPreferences": []string{"vegetarian"}}, s.RequestMetadata)

	require.Len(t, f.gen.contexts, 1)
	assert.Contains(t, f.gen.contexts[0], "- Weight: 80 kg\n")
	assert.Contains(t, f.gen.contexts[0], "User Preferences and Constraints:\n- Dietary preferences: vegetarian\n")
}

func TestSuggestionService_GenerateFallback(t *testing.T) {
	f := setupSuggestionService(t, nil)
	f.gen.err = errors.New("quota exceeded")

	s, err := f.svc.Generate(context.Background(), "user-1", dto.SuggestionRequest{SuggestionType: "diet"})
	require.NoError(t, err)

	assert.Equal(t, dietFallback[:3], s.Recommendations)
	assert.Empty(t, s.SpecificMetrics)
	assert.Equal(t, "Basic recommendations due to API unavailability: quota exceeded", s.Rationale)
	assert.Equal(t, 50, s.ConfidenceScore)
	assert.Equal(t, domain.GoalMaintenance, s.UserGoal)
}

func TestSuggestionService_GenerateUnsupportedType(t *testing.T) {
	f := setupSuggestionService(t, nil)

	s, err := f.svc.Generate(context.Background(), "user-1", dto.SuggestionRequest{SuggestionType: "sleep", UserGoal: "rest"})
	require.NoError(t, err)

	assert.Empty(t, s.Recommendations)
	assert.Equal(t, "Unsupported suggestion type: sleep", s.Rationale)
	assert.Zero(t, s.ConfidenceScore)
	assert.Zero(t, f.gen.calls())
}

func TestSuggestionService_Latest(t *testing.T) {
	f := setupSuggestionService(t, nil)
	ctx := context.Background()

	latest, err := f.svc.Latest(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, latest)
	assert.Equal(t, 1, f.store.reads)

	// absence is cached as well
	latest, err = f.svc.Latest(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, latest)
	assert.Equal(t, 1, f.store.reads)
}

func TestSuggestionService_Delete(t *testing.T) {
	f := setupSuggestionService(t, nil)
	f.gen.suggestions = []string{"Walk"}
	ctx := context.Background()

	s, err := f.svc.Generate(ctx, "user-1", dto.SuggestionRequest{SuggestionType: "exercise"})
	require.NoError(t, err)

	t.Run("other user's suggestion is not found", func(t *testing.T) {
		err := f.svc.Delete(ctx, "user-2", s.ID)
		assert.ErrorIs(t, err, domain.ErrSuggestionNotFound)
	})

	t.Run("unknown id", func(t *testing.T) {
		err := f.svc.Delete(ctx, "user-1", 999)
		assert.ErrorIs(t, err, domain.ErrSuggestionNotFound)
	})

	t.Run("owner deletes and cache is invalidated", func(t *testing.T) {
		require.NoError(t, f.svc.Delete(ctx, "user-1", s.ID))

		latest, err := f.svc.Latest(ctx, "user-1")
		require.NoError(t, err)
		assert.Nil(t, latest)
	})

	t.Run("deleting twice is harmless", func(t *testing.T) {
		assert.NoError(t, f.svc.Delete(ctx, "user-1", s.ID))
	})
}
