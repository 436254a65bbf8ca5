package service

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/nutrifit/nutrifit-backend/internal/insights/domain"
	"github.com/nutrifit/nutrifit-backend/internal/insights/dto"
)

const (
	maxRecommendations        = 3
	maxWordsPerRecommendation = 100
	maxLatestInsights         = 10
	newInsightWindow          = time.Hour

	defaultWeightKg = 70.0
	defaultBMR      = 1500.0
)

// NormalizeAnalysisType maps the free-form analysis aliases onto exercise,
// nutrition or overall. Unknown values are lower-cased and kept.
func NormalizeAnalysisType(analysisType string) string {
	t := strings.ToLower(strings.TrimSpace(analysisType))
	switch t {
	case "fitness", "exercise", "workout", "training":
		return domain.AnalysisExercise
	case "nutrition", "diet", "dietary", "food":
		return domain.AnalysisNutrition
	case "", "overall", "general", "wellness", "health":
		return domain.AnalysisOverall
	}
	return t
}

// DetermineFormat picks the insight category from the analysis type, or from
// keywords in the content when the type is not specific.
func DetermineFormat(content, analysisType string) string {
	switch t := NormalizeAnalysisType(analysisType); t {
	case domain.AnalysisNutrition:
		return domain.FormatNutrition
	case domain.AnalysisExercise:
		return domain.FormatExercise
	}

	lower := strings.ToLower(content)
	switch {
	case containsAny(lower, "protein", "calories", "nutrition"):
		return domain.FormatNutrition
	case containsAny(lower, "workout", "exercise", "streak"):
		return domain.FormatExercise
	}
	return domain.FormatGeneral
}

// DeterminePriority ranks an insight from 1 (low) to 5 (high).
func DeterminePriority(content string) int {
	switch {
	case containsAny(content, "⚠️", "critical", "urgent"):
		return 5
	case containsAny(content, "recommendation", "should"):
		return 3
	}
	return 1
}

// InsightStatus is expired after ExpiresAt, new within an hour of creation
// and active otherwise.
func InsightStatus(in domain.Insight, now time.Time) string {
	switch {
	case !in.ExpiresAt.IsZero() && in.ExpiresAt.Before(now):
		return dto.InsightStatusExpired
	case !in.CreatedAt.IsZero() && in.CreatedAt.After(now.Add(-newInsightWindow)):
		return dto.InsightStatusNew
	}
	return dto.InsightStatusActive
}

func toInsightDTO(in domain.Insight, now time.Time) dto.Insight {
	return dto.Insight{
		InsightID:        in.ID,
		Content:          in.Content,
		SuggestionFormat: in.SuggestionFormat,
		IsActive:         in.IsActive,
		ExpiresAt:        in.ExpiresAt,
		CreatedAt:        in.CreatedAt,
		UpdatedAt:        in.UpdatedAt,
		Status:           InsightStatus(in, now),
		Category:         in.SuggestionFormat,
		Priority:         DeterminePriority(in.Content),
	}
}

// limitRecommendations drops blank items, shortens long ones and keeps the
// first three.
func limitRecommendations(recs []string) []string {
	out := []string{}
	for _, rec := range recs {
		if strings.TrimSpace(rec) == "" {
			continue
		}
		out = append(out, limitWords(rec, maxWordsPerRecommendation))
		if len(out) == maxRecommendations {
			break
		}
	}
	return out
}

func limitWords(text string, maxWords int) string {
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return strings.TrimSpace(text)
	}
	return strings.Join(words[:maxWords], " ") + "..."
}

func exerciseMetrics(goal string) map[string]any {
	switch strings.ToLower(goal) {
	case domain.GoalWeightLoss:
		return map[string]any{
			"targetCaloriesBurn":  "300-500 per session",
			"recommendedDuration": "30-45 minutes",
			"weeklyFrequency":     "4-5 times",
		}
	case domain.GoalMuscleGain:
		return map[string]any{
			"targetSets":      "3-4 per exercise",
			"targetReps":      "8-12 for hypertrophy",
			"weeklyFrequency": "4-5 times",
		}
	}
	return map[string]any{
		"weeklyMinutes":   "150-300",
		"weeklyFrequency": "3-4 times",
	}
}

func dietMetrics(goal string, weightKg, bmr float64) map[string]any {
	switch strings.ToLower(goal) {
	case domain.GoalWeightLoss:
		return map[string]any{
			"targetCalories": int64(math.Round(bmr*1.4 - 300)),
			"proteinTarget":  fmt.Sprintf("%dg", int64(math.Round(weightKg*1.6))),
			"calorieDeficit": "300-500 calories",
		}
	case domain.GoalMuscleGain:
		return map[string]any{
			"targetCalories": int64(math.Round(bmr*1.6 + 200)),
			"proteinTarget":  fmt.Sprintf("%dg", int64(math.Round(weightKg*2.0))),
			"calorieSurplus": "200-300 calories",
		}
	}
	return map[string]any{
		"targetCalories": int64(math.Round(bmr * 1.4)),
		"proteinTarget":  fmt.Sprintf("%dg", int64(math.Round(weightKg*1.4))),
		"hydration":      "8-10 glasses daily",
	}
}

var (
	exerciseFallback = []string{
		"Consult with a fitness professional for personalized recommendations",
		"Start with moderate exercise 3-4 times per week",
		"Include both cardio and strength training",
	}
	dietFallback = []string{
		"Consult with a nutritionist for personalized meal planning",
		"Focus on whole, unprocessed foods",
		"Stay hydrated throughout the day",
		"Practice portion control",
	}
)

// requestMetadata records the optional preferences of a request.
func requestMetadata(req dto.SuggestionRequest) map[string]any {
	meta := map[string]any{}
	setText := func(key, v string) {
		if strings.TrimSpace(v) != "" {
			meta[key] = v
		}
	}
	setList := func(key string, v dto.StringList) {
		if len(v) > 0 {
			meta[key] = []string(v)
		}
	}
	setText("preferredIntensity", req.PreferredIntensity)
	setText("experienceLevel", req.ExperienceLevel)
	setList("focusAreas", req.FocusAreas)
	setList("equipment", req.Equipment)
	setList("dietaryPreferences", req.DietaryPreferences)
	setText("weeklySchedule", req.WeeklySchedule)
	setList("preferredTimes", req.PreferredTimes)
	setText("notes", req.Notes)
	return meta
}

// preferenceContext renders the request preferences for the prompt.
func preferenceContext(req dto.SuggestionRequest) string {
	var details []string
	addText := func(label, v string) {
		if strings.TrimSpace(v) != "" {
			details = append(details, label+": "+v)
		}
	}
	addList := func(label string, v dto.StringList) {
		if s := formatList(v); s != "" {
			details = append(details, label+": "+s)
		}
	}
	addText("Preferred intensity", req.PreferredIntensity)
	addText("Experience level", req.ExperienceLevel)
	addList("Focus areas", req.FocusAreas)
	addList("Available equipment", req.Equipment)
	addList("Dietary preferences", req.DietaryPreferences)
	addText("Weekly schedule", req.WeeklySchedule)
	addList("Preferred times", req.PreferredTimes)
	addText("Additional notes", req.Notes)

	if len(details) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("User Preferences and Constraints:\n")
	for _, d := range details {
		b.WriteString("- " + d + "\n")
	}
	return b.String()
}

func formatList(values []string) string {
	var parts []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

// userContext describes the user's body metrics for the prompt.
func userContext(m *domain.BodyMetrics) string {
	if m == nil {
		return "Limited user data available for analysis.\n"
	}
	var b strings.Builder
	b.WriteString("User Profile:\n")
	fmt.Fprintf(&b, "- Weight: %g kg\n", m.WeightKg)
	fmt.Fprintf(&b, "- BMI: %g\n", m.BMI)
	fmt.Fprintf(&b, "- BMR: %g calories\n", m.BMR)
	if m.WeightTrend != "" {
		fmt.Fprintf(&b, "- Weight Trend: %s\n", m.WeightTrend)
	}
	return b.String()
}

func mergeContexts(contexts ...string) string {
	var parts []string
	for _, c := range contexts {
		if strings.TrimSpace(c) != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, "\n")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
