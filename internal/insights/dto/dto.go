// Package dto holds the JSON bodies exchanged between the insights API and
// its clients.
package dto

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/nutrifit/nutrifit-backend/internal/suggestion"
)

// Insight statuses
const (
	InsightStatusNew     = "new"
	InsightStatusActive  = "active"
	InsightStatusExpired = "expired"
)

// Insight is a standing recommendation item with its own dismiss lifecycle.
type Insight struct {
	InsightID        int64     `json:"insightId"`
	Content          string    `json:"content"`
	SuggestionFormat string    `json:"suggestionFormat"`
	IsActive         bool      `json:"isActive"`
	ExpiresAt        time.Time `json:"expiresAt"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	Status           string    `json:"status"`   // new, active, expired
	Category         string    `json:"category"` // nutrition, exercise, general
	Priority         int       `json:"priority"` // 1-5, 5 being highest
}

type LatestInsightsResponse struct {
	Insights         []Insight           `json:"insights"`
	TotalCount       int                 `json:"totalCount"`
	HasNewInsights   bool                `json:"hasNewInsights"`
	LatestSuggestion *suggestion.Content `json:"latestSuggestion"`
}

// GenerateInsightRequest accepts the analysis type under any of three aliases.
type GenerateInsightRequest struct {
	AnalysisType    string `json:"analysisType,omitempty"`
	InsightType     string `json:"insightType,omitempty"`
	FocusArea       string `json:"focusArea,omitempty"`
	ForceRegenerate bool   `json:"forceRegenerate,omitempty"`
}

// ResolvedAnalysisType returns the first non-blank alias.
func (r GenerateInsightRequest) ResolvedAnalysisType() string {
	for _, v := range []string{r.AnalysisType, r.InsightType, r.FocusArea} {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

type GenerateInsightResponse struct {
	Insight Insight `json:"insight"`
	Message string  `json:"message"`
}

type InsightDetailsResponse struct {
	Insight            Insight  `json:"insight"`
	CanEdit            bool     `json:"canEdit"`
	RelatedSuggestions []string `json:"relatedSuggestions"`
}

// Suggestion kinds
const (
	SuggestionTypeExercise = "exercise"
	SuggestionTypeDiet     = "diet"
)

// QuickSuggestionParams are the query parameters of the quick suggestion endpoint.
type QuickSuggestionParams struct {
	Type      string `form:"type" json:"type"`
	Goal      string `form:"goal" json:"goal,omitempty"`
	TimeFrame string `form:"timeFrame" json:"timeFrame,omitempty"`
}

// SuggestionRequest is the body of a custom suggestion request.
type SuggestionRequest struct {
	SuggestionType     string     `json:"suggestionType"`
	UserGoal           string     `json:"userGoal,omitempty"`
	TimeFrame          string     `json:"timeFrame,omitempty"`
	PreferredIntensity string     `json:"preferredIntensity,omitempty"`
	ExperienceLevel    string     `json:"experienceLevel,omitempty"`
	FocusAreas         StringList `json:"focusAreas,omitempty"`
	Equipment          StringList `json:"equipment,omitempty"`
	DietaryPreferences StringList `json:"dietaryPreferences,omitempty"`
	WeeklySchedule     string     `json:"weeklySchedule,omitempty"`
	PreferredTimes     StringList `json:"preferredTimes,omitempty"`
	Notes              string     `json:"notes,omitempty"`
}

// SuggestionEnvelope wraps a generated suggestion in the quick and custom
// endpoint responses. It decodes as a suggestion.Response on the client.
type SuggestionEnvelope struct {
	Suggestions  any    `json:"suggestions"`
	RequestID    string `json:"requestId"`
	Timestamp    string `json:"timestamp"`
	SuggestionID int64  `json:"suggestionId,omitempty"`
	Type         string `json:"type,omitempty"`
	Goal         string `json:"goal,omitempty"`
}

type MessageResponse struct {
	Message      string `json:"message"`
	InsightID    int64  `json:"insightId,omitempty"`
	SuggestionID int64  `json:"suggestionId,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// StringList accepts either a JSON array of strings or a single string.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*l = list
	return nil
}
