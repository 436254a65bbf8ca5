package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func serveHealth(t *testing.T, h *HealthHandler, method string) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true
	h.RegisterRoutes(router)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(method, "/health", nil))

	var resp HealthResponse
	if rr.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	}
	return rr, resp
}

func TestHealthCheck(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	h := NewHealthHandler("test-service", "1.0.0", pingFunc(func(context.Context) error { return nil }), client)
	rr, resp := serveHealth(t, h, http.MethodGet)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "test-service", resp.Service)
	assert.Equal(t, "1.0.0", resp.Version)
	assert.Equal(t, "up", resp.DB)
	assert.Equal(t, "up", resp.Cache)
}

func TestHealthCheck_Degraded(t *testing.T) {
	h := NewHealthHandler("test-service", "1.0.0", pingFunc(func(context.Context) error { return errors.New("refused") }), nil)
	rr, resp := serveHealth(t, h, http.MethodGet)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "down", resp.DB)
	assert.Equal(t, "disabled", resp.Cache)
}

func TestHealthCheckMethodNotAllowed(t *testing.T) {
	h := NewHealthHandler("test-service", "1.0.0", nil, nil)
	rr, _ := serveHealth(t, h, http.MethodPost)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
