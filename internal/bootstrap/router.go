package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/nutrifit/nutrifit-backend/internal/api/http"
	"github.com/nutrifit/nutrifit-backend/internal/api/http/middleware"
	"github.com/nutrifit/nutrifit-backend/internal/auth"
	insightshttp "github.com/nutrifit/nutrifit-backend/internal/insights/http"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	CORSOrigins []string
	DB          *pgxpool.Pool
	Redis       *redis.Client
	// Verifier checks Firebase ID tokens; nil enables X-User-Id header auth.
	Verifier    auth.TokenVerifier
	Suggestions insightshttp.SuggestionService
	Insights    insightshttp.InsightService
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID, auth.DevUserHeader},
		ExposeHeaders:    []string{middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	var pinger httpapi.Pinger
	if dep.DB != nil {
		pinger = dep.DB
	}
	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, pinger, dep.Redis)
	healthHandler.RegisterRoutes(r)

	insights := r.Group(insightshttp.BasePath)
	insights.Use(auth.RequireUser(dep.Verifier))
	insightshttp.New(dep.Suggestions, dep.Insights).Register(insights)

	return r
}
