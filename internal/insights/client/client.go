// Package client talks to the AI insights API over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/nutrifit/nutrifit-backend/internal/insights/dto"
	"github.com/nutrifit/nutrifit-backend/internal/logger"
	"github.com/nutrifit/nutrifit-backend/internal/suggestion"
)

const (
	basePath       = "/api/homepage/ai-insights"
	defaultTimeout = 60 * time.Second
)

var ErrNotFound = errors.New("not found")

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("api returned status %d: %s", e.StatusCode, e.Message)
}

// Is makes a 404 match ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// UserMessage returns the server's error text.
func (e *APIError) UserMessage() string { return e.Message }

// Client implements the session backend against the insights API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     oauth2.TokenSource
	userID     string
	timeout    time.Duration
}

type Option func(*Client)

// WithTokenSource sends "Authorization: Bearer" with every request.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithToken is WithTokenSource for a fixed ID token.
func WithToken(token string) Option {
	return func(c *Client) {
		if token != "" {
			c.tokens = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
		}
	}
}

// WithUserID sets X-User-Id, accepted by servers running without Firebase.
func WithUserID(id string) Option {
	return func(c *Client) { c.userID = id }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	var transport http.RoundTripper = http.DefaultTransport
	if c.tokens != nil {
		transport = &oauth2.Transport{Source: c.tokens, Base: transport}
	}
	c.httpClient = &http.Client{Timeout: c.timeout, Transport: transport}
	return c
}

// Authenticated reports whether the client carries credentials.
func (c *Client) Authenticated() bool {
	return c.tokens != nil || c.userID != ""
}

func (c *Client) FetchLatestInsights(ctx context.Context) (*dto.LatestInsightsResponse, error) {
	var out dto.LatestInsightsResponse
	if err := c.do(ctx, http.MethodGet, "/latest", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GenerateQuickSuggestion(ctx context.Context, params dto.QuickSuggestionParams) (*suggestion.Response, error) {
	q := url.Values{}
	q.Set("type", params.Type)
	if params.Goal != "" {
		q.Set("goal", params.Goal)
	}
	if params.TimeFrame != "" {
		q.Set("timeFrame", params.TimeFrame)
	}
	var out suggestion.Response
	if err := c.do(ctx, http.MethodGet, "/suggestions", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GenerateCustomSuggestion(ctx context.Context, req dto.SuggestionRequest) (*suggestion.Response, error) {
	var out suggestion.Response
	if err := c.do(ctx, http.MethodPost, "/suggestions", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSuggestion(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/suggestions/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

func (c *Client) GenerateInsight(ctx context.Context, req dto.GenerateInsightRequest) (*dto.GenerateInsightResponse, error) {
	var out dto.GenerateInsightResponse
	if err := c.do(ctx, http.MethodPost, "/generate", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetInsightDetails(ctx context.Context, id int64) (*dto.InsightDetailsResponse, error) {
	var out dto.InsightDetailsResponse
	if err := c.do(ctx, http.MethodGet, "/detailed/"+strconv.FormatInt(id, 10), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DismissInsight(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	log := logger.New(ctx)
	operation := method + " " + path

	reqURL := c.baseURL + basePath + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userID != "" {
		req.Header.Set("X-User-Id", c.userID)
	}
	if rid := logger.RequestID(ctx); rid != "" {
		req.Header.Set("X-Request-Id", rid)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.LogError(operation, err)
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	log.LogDebugf(operation, "status=%d duration=%s", resp.StatusCode, time.Since(start))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody dto.ErrorResponse
		if json.Unmarshal(data, &errBody) == nil {
			apiErr.Message = errBody.Error
		}
		log.LogWarnf(operation, "api returned status %d", resp.StatusCode)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
