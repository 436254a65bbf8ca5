// Package suggestion turns loosely shaped AI suggestion payloads into a single
// display model.
package suggestion

// Source tags where a displayed suggestion came from. It is only used for
// labeling and never decides which suggestion wins.
type Source string

const (
	SourceQuick  Source = "quick"
	SourceCustom Source = "custom"
	SourceLatest Source = "latest"
)

// Content is a raw suggestion payload. Every field is optional.
type Content struct {
	RequestID       *string  `json:"requestId,omitempty"`
	Timestamp       *string  `json:"timestamp,omitempty"`
	SuggestionType  *string  `json:"suggestionType,omitempty"`
	UserGoal        *string  `json:"userGoal,omitempty"`
	TimeFrame       *string  `json:"timeFrame,omitempty"`
	SuggestionID    ID       `json:"suggestionId,omitzero"`
	ID              ID       `json:"id,omitzero"`
	Recommendations []string `json:"recommendations,omitempty"`
	SpecificMetrics Metrics  `json:"specificMetrics,omitempty"`
	Rationale       *string  `json:"rationale,omitempty"`
	ConfidenceScore *float64 `json:"confidenceScore,omitempty"`
	Title           *string  `json:"title,omitempty"`
	Summary         *string  `json:"summary,omitempty"`
	Plan            *string  `json:"plan,omitempty"`
	CreatedAt       *string  `json:"createdAt,omitempty"`
	RequestMetadata Record   `json:"requestMetadata,omitempty"`
	Meta            Record   `json:"meta,omitempty"`
}

// Response is the body returned by the quick and custom generation endpoints.
// The suggestion either sits under "suggestions" or is flattened at the root.
type Response struct {
	RequestID    string `json:"requestId,omitempty"`
	Timestamp    string `json:"timestamp,omitempty"`
	SuggestionID ID     `json:"suggestionId,omitzero"`
	ID           ID     `json:"id,omitzero"`

	Suggestions *Content `json:"suggestions,omitempty"`

	SuggestionType  *string  `json:"suggestionType,omitempty"`
	UserGoal        *string  `json:"userGoal,omitempty"`
	TimeFrame       *string  `json:"timeFrame,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
	SpecificMetrics Metrics  `json:"specificMetrics,omitempty"`
	Rationale       *string  `json:"rationale,omitempty"`
	ConfidenceScore *float64 `json:"confidenceScore,omitempty"`
	Title           *string  `json:"title,omitempty"`
	Summary         *string  `json:"summary,omitempty"`
	Plan            *string  `json:"plan,omitempty"`
	CreatedAt       *string  `json:"createdAt,omitempty"`
	Meta            Record   `json:"meta,omitempty"`
}

// Meta is caller supplied metadata that takes priority over anything found
// inside the content. Empty strings mean "not supplied".
type Meta struct {
	RequestID    string
	Timestamp    string
	SuggestionID ID
	ID           ID
}

// DisplayState is the canonical suggestion record shown to the user. Empty
// string fields are absent.
type DisplayState struct {
	Content      Content `json:"content"`
	RequestID    string  `json:"requestId,omitempty"`
	SuggestionID string  `json:"suggestionId,omitempty"`
	Timestamp    string  `json:"timestamp,omitempty"`
	Source       Source  `json:"source"`
}
