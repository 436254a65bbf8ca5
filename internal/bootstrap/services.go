package bootstrap

import (
	"database/sql"

	"github.com/redis/go-redis/v9"

	"github.com/nutrifit/nutrifit-backend/config"
	"github.com/nutrifit/nutrifit-backend/internal/insights/generator"
	"github.com/nutrifit/nutrifit-backend/internal/insights/repository"
	"github.com/nutrifit/nutrifit-backend/internal/insights/service"
)

type Services struct {
	Suggestions *service.SuggestionService
	Insights    *service.InsightService
}

// NewServices wires the repositories, cache and AI client into the
// suggestion and insight services.
func NewServices(db *sql.DB, rdb *redis.Client, cfg *config.Config) *Services {
	cache := repository.NewCache(rdb, cfg.Redis.SuggestionTTL)
	metrics := repository.NewBodyMetricsRepository(db)
	gen := generator.New(generator.Options{
		URL:           cfg.AI.UpstreamURL,
		APIKey:        cfg.AI.APIKey,
		Model:         cfg.AI.Model,
		Timeout:       cfg.AI.Timeout,
		RatePerMinute: cfg.AI.RatePerMinute,
	})

	return &Services{
		Suggestions: service.NewSuggestionService(repository.NewSuggestionRepository(db), metrics, cache, gen),
		Insights: service.NewInsightService(repository.NewInsightRepository(db), metrics, cache, gen, service.InsightSettings{
			TTL:          cfg.Insights.TTL,
			RecentWindow: cfg.Insights.RecentWindow,
		}),
	}
}
