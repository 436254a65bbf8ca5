package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrifit/nutrifit-backend/internal/insights/domain"
)

var suggestionRowColumns = []string{
	"suggestion_id", "user_id", "suggestion_type", "user_goal", "time_frame",
	"recommendations", "specific_metrics", "rationale", "confidence_score",
	"request_metadata", "is_active", "created_at",
}

func setupSuggestionRepo(t *testing.T) (*SuggestionRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewSuggestionRepository(db), mock, db
}

func TestSuggestionRepository_Create(t *testing.T) {
	repo, mock, db := setupSuggestionRepo(t)
	defer db.Close()

	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO suggestions`).
		WithArgs(
			"user-1",
			"diet",
			"weight_loss",
			"week",
			sqlmock.AnyArg(), // recommendations TEXT[]
			sqlmock.AnyArg(), // specific_metrics JSONB
			"because",
			95,
			sqlmock.AnyArg(), // request_metadata JSONB
		).
		WillReturnRows(sqlmock.NewRows([]string{"suggestion_id", "created_at"}).AddRow(int64(17), created))

	s := &domain.Suggestion{
		UserID:          "user-1",
		SuggestionType:  "diet",
		UserGoal:        "weight_loss",
		TimeFrame:       "week",
		Recommendations: []string{"Eat greens"},
		SpecificMetrics: map[string]any{"targetCalories": 1800},
		Rationale:       "because",
		ConfidenceScore: 95,
	}
	require.NoError(t, repo.Create(context.Background(), s))
	assert.Equal(t, int64(17), s.ID)
	assert.Equal(t, created, s.CreatedAt)
	assert.True(t, s.IsActive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSuggestionRepository_LatestActive(t *testing.T) {
	repo, mock, db := setupSuggestionRepo(t)
	defer db.Close()

	t.Run("returns newest active suggestion", func(t *testing.T) {
		mock.ExpectQuery(`FROM suggestions\s+WHERE user_id = \$1 AND is_active = TRUE`).
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows(suggestionRowColumns).AddRow(
				int64(3), "user-1", "exercise", "muscle_gain", "week",
				`{"Lift heavy","Sleep well"}`, `{"targetSets":"3-4 per exercise"}`,
				"rationale", 90, `{"experienceLevel":"beginner"}`, true, time.Now(),
			))

		s, err := repo.LatestActive(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Equal(t, int64(3), s.ID)
		assert.Equal(t, []string{"Lift heavy", "Sleep well"}, s.Recommendations)
		assert.Equal(t, "3-4 per exercise", s.SpecificMetrics["targetSets"])
		assert.Equal(t, "beginner", s.RequestMetadata["experienceLevel"])
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`FROM suggestions`).
			WithArgs("user-2").
			WillReturnRows(sqlmock.NewRows(suggestionRowColumns))

		_, err := repo.LatestActive(context.Background(), "user-2")
		assert.ErrorIs(t, err, domain.ErrSuggestionNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unreadable json is kept raw", func(t *testing.T) {
		mock.ExpectQuery(`FROM suggestions`).
			WithArgs("user-3").
			WillReturnRows(sqlmock.NewRows(suggestionRowColumns).AddRow(
				int64(4), "user-3", "diet", "", "", `{}`, `not json`, "", 0, ``, true, time.Now(),
			))

		s, err := repo.LatestActive(context.Background(), "user-3")
		require.NoError(t, err)
		assert.Empty(t, s.Recommendations)
		assert.Equal(t, map[string]any{"raw": "not json"}, s.SpecificMetrics)
		assert.Empty(t, s.RequestMetadata)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery(`FROM suggestions`).
			WithArgs("user-4").
			WillReturnError(errors.New("connection reset"))

		_, err := repo.LatestActive(context.Background(), "user-4")
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrSuggestionNotFound)
	})
}

func TestSuggestionRepository_GetByID(t *testing.T) {
	repo, mock, db := setupSuggestionRepo(t)
	defer db.Close()

	mock.ExpectQuery(`WHERE suggestion_id = \$1`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(suggestionRowColumns).AddRow(
			int64(9), "user-1", "diet", "maintenance", "week", `{}`, `{}`, "", 50, `{}`, false, time.Now(),
		))

	s, err := repo.GetByID(context.Background(), 9)
	require.NoError(t, err)
	assert.False(t, s.IsActive)
	assert.Equal(t, "user-1", s.UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSuggestionRepository_Deactivate(t *testing.T) {
	repo, mock, db := setupSuggestionRepo(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE suggestions SET is_active = FALSE`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Deactivate(context.Background(), 5))

	mock.ExpectExec(`UPDATE suggestions SET is_active = FALSE`).
		WithArgs(int64(6)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Deactivate(context.Background(), 6), domain.ErrSuggestionNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
