package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Firebase FirebaseConfig
	AI       AIConfig
	Insights InsightsConfig
	App      AppConfig
}

type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	// DSN is used by the pgx pool (schema bootstrap and health checks).
	DSN            string
	PoolMaxConns   int
	ConnectTimeout time.Duration
	PingTimeout    time.Duration
}

type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	SuggestionTTL time.Duration
}

type FirebaseConfig struct {
	// Empty means development mode: identity comes from the X-User-Id header.
	CredentialsPath string
}

type AIConfig struct {
	UpstreamURL   string
	APIKey        string
	Model         string
	Timeout       time.Duration
	RatePerMinute int
}

type InsightsConfig struct {
	ExpiryCron   string
	TTL          time.Duration
	RecentWindow time.Duration
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnvAsInt("DB_PORT", 5432),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", ""),
			Name:           getEnv("DB_NAME", "nutrifit"),
			DSN:            getEnv("DB_DSN", ""),
			PoolMaxConns:   getEnvAsInt("DB_POOL_MAX_CONNS", 4),
			ConnectTimeout: getEnvAsDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
			PingTimeout:    getEnvAsDuration("DB_PING_TIMEOUT", 2*time.Second),
		},
		Redis: RedisConfig{
			Addr:          getEnv("REDIS_ADDR", "localhost:6379"),
			Password:      getEnv("REDIS_PASSWORD", ""),
			DB:            getEnvAsInt("REDIS_DB", 0),
			SuggestionTTL: getEnvAsDuration("SUGGESTION_CACHE_TTL", 10*time.Minute),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		},
		AI: AIConfig{
			UpstreamURL:   getEnv("AI_UPSTREAM_URL", "http://localhost:9000"),
			APIKey:        getEnv("AI_API_KEY", ""),
			Model:         getEnv("AI_MODEL", "google/gemini-2.0-flash-001"),
			Timeout:       getEnvAsDuration("AI_TIMEOUT", 30*time.Second),
			RatePerMinute: getEnvAsInt("AI_RATE_PER_MINUTE", 30),
		},
		Insights: InsightsConfig{
			ExpiryCron:   getEnv("INSIGHT_EXPIRY_CRON", "0 */15 * * * *"),
			TTL:          getEnvAsDuration("INSIGHT_TTL", 7*24*time.Hour),
			RecentWindow: getEnvAsDuration("INSIGHT_RECENT_WINDOW", 2*time.Hour),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if cfg.Database.DSN == "" {
		cfg.Database.DSN = cfg.Database.URL()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}

	if c.AI.UpstreamURL == "" {
		return fmt.Errorf("AI_UPSTREAM_URL is required")
	}

	if c.AI.RatePerMinute <= 0 {
		return fmt.Errorf("AI_RATE_PER_MINUTE must be positive")
	}

	if c.App.Environment == "production" && c.Firebase.CredentialsPath == "" {
		return fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required in production")
	}

	return nil
}

// URL renders the database settings as a postgres connection URL for pgx.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
