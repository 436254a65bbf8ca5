package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/nutrifit/nutrifit-backend/internal/insights/domain"
	"github.com/nutrifit/nutrifit-backend/internal/insights/dto"
)

type emptySuggestions struct{}

func (emptySuggestions) Generate(context.Context, string, dto.SuggestionRequest) (*domain.Suggestion, error) {
	return nil, domain.ErrUpstreamFailed
}
func (emptySuggestions) Latest(context.Context, string) (*domain.Suggestion, error) { return nil, nil }
func (emptySuggestions) Delete(context.Context, string, int64) error {
	return domain.ErrSuggestionNotFound
}

type emptyInsights struct{}

func (emptyInsights) Latest(context.Context, string) ([]dto.Insight, bool, error) {
	return []dto.Insight{}, false, nil
}
func (emptyInsights) Generate(context.Context, string, dto.GenerateInsightRequest) (dto.Insight, error) {
	return dto.Insight{}, domain.ErrUpstreamFailed
}
func (emptyInsights) Details(context.Context, string, int64) (dto.Insight, error) {
	return dto.Insight{}, domain.ErrInsightNotFound
}
func (emptyInsights) Dismiss(context.Context, string, int64) error { return nil }

func testRouter() *gin.Engine {
	SetGinMode("test")
	return BuildRouter(RouterDeps{
		ServiceName: "nutrifit-api",
		Version:     "test",
		CORSOrigins: []string{"http://localhost:5173"},
		Suggestions: emptySuggestions{},
		Insights:    emptyInsights{},
	})
}

func TestBuildRouter_Health(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"db":"disabled"`)
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
}

func TestBuildRouter_InsightsRequireUser(t *testing.T) {
	r := testRouter()

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/homepage/ai-insights/latest", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/homepage/ai-insights/latest", nil)
	req.Header.Set("X-User-Id", "user-1")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"insights": [], "totalCount": 0, "hasNewInsights": false, "latestSuggestion": null}`, rr.Body.String())
}

func TestBuildRouter_CORS(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/homepage/ai-insights/latest", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rr := httptest.NewRecorder()
	testRouter().ServeHTTP(rr, req)

	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
}
