package domain

import "time"

// Suggestion is a stored generation result. Deleting one only clears IsActive.
type Suggestion struct {
	ID              int64          `json:"suggestionId"`
	UserID          string         `json:"-"`
	SuggestionType  string         `json:"suggestionType"`
	UserGoal        string         `json:"userGoal"`
	TimeFrame       string         `json:"timeFrame"`
	Recommendations []string       `json:"recommendations"`
	SpecificMetrics map[string]any `json:"specificMetrics"`
	Rationale       string         `json:"rationale"`
	ConfidenceScore int            `json:"confidenceScore"`
	RequestMetadata map[string]any `json:"requestMetadata"`
	IsActive        bool           `json:"-"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// GeneratedSuggestion is the body placed under "suggestions" in generation
// responses.
type GeneratedSuggestion struct {
	SuggestionType  string         `json:"suggestionType"`
	UserGoal        string         `json:"userGoal"`
	Recommendations []string       `json:"recommendations"`
	SpecificMetrics map[string]any `json:"specificMetrics"`
	Rationale       string         `json:"rationale"`
	ConfidenceScore int            `json:"confidenceScore"`
}

// Insight is a free-text analysis with a fixed lifetime.
type Insight struct {
	ID               int64
	UserID           string
	Content          string
	SuggestionFormat string // nutrition, exercise, general
	IsActive         bool
	ExpiresAt        time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// BodyMetrics is the most recent body measurement of a user.
type BodyMetrics struct {
	UserID      string
	WeightKg    float64
	BMI         float64
	BMR         float64
	WeightTrend string
	RecordedAt  time.Time
}

// Analysis types
const (
	AnalysisExercise  = "exercise"
	AnalysisNutrition = "nutrition"
	AnalysisOverall   = "overall"
)

// Insight formats
const (
	FormatNutrition = "nutrition"
	FormatExercise  = "exercise"
	FormatGeneral   = "general"
)

// User goals
const (
	GoalWeightLoss  = "weight_loss"
	GoalMuscleGain  = "muscle_gain"
	GoalMaintenance = "maintenance"
)
