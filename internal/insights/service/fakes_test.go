package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/nutrifit/nutrifit-backend/internal/insights/domain"
	"github.com/nutrifit/nutrifit-backend/internal/insights/repository"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type memSuggestions struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*domain.Suggestion
	reads  int
}

func newMemSuggestions() *memSuggestions {
	return &memSuggestions{rows: map[int64]*domain.Suggestion{}}
}

func (m *memSuggestions) Create(_ context.Context, s *domain.Suggestion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	s.ID = m.nextID
	s.IsActive = true
	s.CreatedAt = fixedNow.Add(time.Duration(m.nextID) * time.Second)
	cp := *s
	m.rows[s.ID] = &cp
	return nil
}

func (m *memSuggestions) LatestActive(_ context.Context, userID string) (*domain.Suggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	var latest *domain.Suggestion
	for _, s := range m.rows {
		if s.UserID != userID || !s.IsActive {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, domain.ErrSuggestionNotFound
	}
	cp := *latest
	return &cp, nil
}

func (m *memSuggestions) GetByID(_ context.Context, id int64) (*domain.Suggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrSuggestionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSuggestions) Deactivate(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok || !s.IsActive {
		return domain.ErrSuggestionNotFound
	}
	s.IsActive = false
	return nil
}

type memInsights struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*domain.Insight
	now    func() time.Time
}

func newMemInsights(now func() time.Time) *memInsights {
	return &memInsights{rows: map[int64]*domain.Insight{}, now: now}
}

func (m *memInsights) add(in domain.Insight) *domain.Insight {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	in.ID = m.nextID
	m.rows[in.ID] = &in
	return &in
}

func (m *memInsights) Create(_ context.Context, in *domain.Insight) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	in.ID = m.nextID
	in.IsActive = true
	in.CreatedAt = m.now()
	in.UpdatedAt = in.CreatedAt
	cp := *in
	m.rows[in.ID] = &cp
	return nil
}

func (m *memInsights) sorted(userID string) []domain.Insight {
	var out []domain.Insight
	for _, in := range m.rows {
		if in.UserID == userID && in.IsActive {
			out = append(out, *in)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memInsights) ListActive(_ context.Context, userID string, limit int) ([]domain.Insight, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.sorted(userID)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memInsights) LatestSince(_ context.Context, userID string, since time.Time) (*domain.Insight, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, in := range m.sorted(userID) {
		if !in.CreatedAt.Before(since) {
			return &in, nil
		}
	}
	return nil, domain.ErrInsightNotFound
}

func (m *memInsights) GetByID(_ context.Context, id int64) (*domain.Insight, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	in, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrInsightNotFound
	}
	cp := *in
	return &cp, nil
}

func (m *memInsights) Deactivate(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	in, ok := m.rows[id]
	if !ok || !in.IsActive {
		return domain.ErrInsightNotFound
	}
	in.IsActive = false
	return nil
}

func (m *memInsights) DeactivateExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, in := range m.rows {
		if in.IsActive && in.ExpiresAt.Before(now) {
			in.IsActive = false
			n++
		}
	}
	return n, nil
}

type memBodyMetrics map[string]*domain.BodyMetrics

func (m memBodyMetrics) Latest(_ context.Context, userID string) (*domain.BodyMetrics, error) {
	if bm, ok := m[userID]; ok {
		return bm, nil
	}
	return nil, domain.ErrBodyMetricsNotFound
}

type stubGenerator struct {
	mu          sync.Mutex
	insight     string
	suggestions []string
	err         error
	prompts     []string
	contexts    []string
}

func (g *stubGenerator) GenerateInsight(_ context.Context, analysisType, userContext string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, analysisType)
	g.contexts = append(g.contexts, userContext)
	return g.insight, g.err
}

func (g *stubGenerator) GenerateSuggestions(_ context.Context, suggestionType, _, userContext string) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, suggestionType)
	g.contexts = append(g.contexts, userContext)
	return g.suggestions, g.err
}

func (g *stubGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

func setupCache(t *testing.T) (*repository.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return repository.NewCache(client, 10*time.Minute), mr
}
