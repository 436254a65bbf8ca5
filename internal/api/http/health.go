package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/nutrifit/nutrifit-backend/internal/insights/generator"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type UpstreamStats struct {
	Calls            int64   `json:"calls"`
	Errors           int64   `json:"errors"`
	ErrorRatePercent float64 `json:"error_rate_pct"`
	AvgLatencyMillis float64 `json:"avg_latency_ms"`
}

type HealthResponse struct {
	Status    string        `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Service   string        `json:"service"`
	Version   string        `json:"version"`
	DB        string        `json:"db,omitempty"`
	Cache     string        `json:"cache,omitempty"`
	Upstream  UpstreamStats `json:"ai_upstream"`
}

type HealthHandler struct {
	serviceName string
	version     string
	db          Pinger
	cache       *redis.Client
}

// NewHealthHandler creates a health handler. db and cache may be nil.
func NewHealthHandler(serviceName, version string, db Pinger, cache *redis.Client) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		db:          db,
		cache:       cache,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
	defer cancel()

	dbStatus := "disabled"
	if h.db != nil {
		dbStatus = status(h.db.Ping(pingCtx))
	}
	cacheStatus := "disabled"
	if h.cache != nil {
		cacheStatus = status(h.cache.Ping(pingCtx).Err())
	}

	m := generator.GetMetrics()
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		DB:        dbStatus,
		Cache:     cacheStatus,
		Upstream: UpstreamStats{
			Calls:            m.UpstreamCalls,
			Errors:           m.UpstreamErrors,
			ErrorRatePercent: m.UpstreamErrorRate(),
			AvgLatencyMillis: m.AverageUpstreamLatency(),
		},
	})
}

func status(err error) string {
	if err != nil {
		return "down"
	}
	return "up"
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
