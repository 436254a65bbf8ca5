package session

import (
	"context"

	"github.com/nutrifit/nutrifit-backend/internal/insights/dto"
	"github.com/nutrifit/nutrifit-backend/internal/suggestion"
)

// Backend is the remote collaborator the controller sequences calls against.
// Transport, auth headers and JSON decoding belong to the implementation.
type Backend interface {
	FetchLatestInsights(ctx context.Context) (*dto.LatestInsightsResponse, error)
	GenerateQuickSuggestion(ctx context.Context, params dto.QuickSuggestionParams) (*suggestion.Response, error)
	GenerateCustomSuggestion(ctx context.Context, req dto.SuggestionRequest) (*suggestion.Response, error)
	// DeleteSuggestion fails with a not-found error when the id is unknown
	// to the server.
	DeleteSuggestion(ctx context.Context, id int64) error
	GenerateInsight(ctx context.Context, req dto.GenerateInsightRequest) (*dto.GenerateInsightResponse, error)
	DismissInsight(ctx context.Context, id int64) error
}

// Credentials reports whether a user session is present. The session itself
// lives in the auth layer.
type Credentials interface {
	Authenticated() bool
}

// CredentialsFunc adapts a plain function to Credentials.
type CredentialsFunc func() bool

func (f CredentialsFunc) Authenticated() bool { return f() }
