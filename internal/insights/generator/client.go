// Package generator calls the chat-completions style AI upstream that writes
// insight texts and suggestion lists.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/nutrifit/nutrifit-backend/internal/logger"
)

const DefaultModel = "google/gemini-2.0-flash-001"

var ErrNotConfigured = errors.New("ai api key is not configured")

// Options configures Client.
type Options struct {
	URL           string
	APIKey        string
	Model         string
	Timeout       time.Duration
	RatePerMinute int
}

// Client handles communication with the AI upstream
type Client struct {
	url        string
	model      string
	configured bool
	httpClient *http.Client
	limiter    *rate.Limiter
}

// New creates a Client. Calls are spaced to at most RatePerMinute per minute.
func New(opts Options) *Client {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RatePerMinute <= 0 {
		opts.RatePerMinute = 30
	}

	transport := &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.APIKey, TokenType: "Bearer"}),
		Base:   http.DefaultTransport,
	}
	return &Client{
		url:        opts.URL,
		model:      opts.Model,
		configured: opts.APIKey != "",
		httpClient: &http.Client{Timeout: opts.Timeout, Transport: transport},
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RatePerMinute)), opts.RatePerMinute),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateInsight returns a short markdown analysis for analysisType.
func (c *Client) GenerateInsight(ctx context.Context, analysisType, userContext string) (string, error) {
	if strings.TrimSpace(analysisType) == "" {
		return "", errors.New("analysis type must not be empty")
	}
	return c.complete(ctx, "generate_insight", insightPrompt(analysisType, userContext))
}

// GenerateSuggestions returns the numbered or bulleted recommendations of
// the upstream answer, without their list markers.
func (c *Client) GenerateSuggestions(ctx context.Context, suggestionType, userGoal, userContext string) ([]string, error) {
	if strings.TrimSpace(suggestionType) == "" {
		return nil, errors.New("suggestion type must not be empty")
	}
	content, err := c.complete(ctx, "generate_suggestions", suggestionPrompt(suggestionType, userGoal, userContext))
	if err != nil {
		return nil, err
	}
	return ParseSuggestionList(content), nil
}

func (c *Client) complete(ctx context.Context, operation, prompt string) (string, error) {
	log := logger.New(ctx)
	if !c.configured {
		log.LogError(operation, ErrNotConfigured)
		return "", ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	start := time.Now()
	content, err := c.post(ctx, prompt)
	recordUpstreamCall(time.Since(start), err)
	if err != nil {
		log.LogError(operation, err)
		return "", err
	}
	log.LogInfof(operation, "upstream answered length=%d duration=%s", len(content), time.Since(start))
	return content, nil
}

func (c *Client) post(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.Error != nil && out.Error.Message != "" {
		return "", fmt.Errorf("upstream error: %s", out.Error.Message)
	}
	for _, choice := range out.Choices {
		if text := strings.TrimSpace(choice.Message.Content); text != "" {
			return text, nil
		}
	}
	return "", errors.New("upstream response missing text content")
}

var (
	numberedItem = regexp.MustCompile(`^\d+\.\s*`)
	bulletItem   = regexp.MustCompile(`^[•-]\s*`)
)

// ParseSuggestionList keeps lines that start with "1.", "•" or "-".
func ParseSuggestionList(content string) []string {
	out := []string{}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !numberedItem.MatchString(line) && !strings.HasPrefix(line, "•") && !strings.HasPrefix(line, "-") {
			continue
		}
		line = bulletItem.ReplaceAllString(numberedItem.ReplaceAllString(line, ""), "")
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

func insightPrompt(analysisType, userContext string) string {
	if userContext == "" {
		userContext = "Limited data available"
	}
	var b strings.Builder
	b.WriteString("As a fitness and nutrition expert, analyze the following user data and provide personalized insights:\n\n")
	fmt.Fprintf(&b, "Analysis Type: %s\n", analysisType)
	fmt.Fprintf(&b, "User Context: %s\n\n", userContext)
	b.WriteString("Please provide a concise analysis that includes:\n")
	b.WriteString("1. Key observations about current patterns (1-2 sentences)\n")
	b.WriteString("2. Specific recommendations for improvement (up to 3 bullet points)\n")
	b.WriteString("3. Actionable next steps (up to 3 bullet points)\n")
	b.WriteString("4. Potential concerns or areas to monitor (optional, 1 sentence)\n\n")
	b.WriteString("Format your response as markdown with clear sections and emojis for readability. ")
	b.WriteString("Keep the tone encouraging but realistic, base recommendations on evidence-based fitness and nutrition principles, ")
	b.WriteString("and keep the entire response under 200 words.")
	return b.String()
}

func suggestionPrompt(suggestionType, userGoal, userContext string) string {
	if userContext == "" {
		userContext = "General recommendations"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Generate specific %s recommendations for a user with the goal: %s\n\n", suggestionType, userGoal)
	fmt.Fprintf(&b, "User Context: %s\n\n", userContext)
	b.WriteString("Provide 4 specific, actionable recommendations. Each recommendation should be:\n")
	b.WriteString("- Practical and achievable\n")
	b.WriteString("- Evidence-based\n")
	b.WriteString("- Tailored to the user's goal\n")
	b.WriteString("- Include specific metrics or targets where appropriate\n")
	b.WriteString("- Respect any stated preferences, constraints, schedule, equipment, or dietary requirements\n\n")
	b.WriteString("Format your response as a numbered list with each recommendation on a separate line.")
	return b.String()
}
