package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/nutrifit/nutrifit-backend/config"
	"github.com/nutrifit/nutrifit-backend/internal/bootstrap"
	"github.com/nutrifit/nutrifit-backend/internal/logger"
	"github.com/nutrifit/nutrifit-backend/internal/storage/postgres"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: worker expire-insights")
	}

	switch os.Args[1] {
	case "expire-insights":
		runExpireInsights()
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

func runExpireInsights() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.App.LogLevel))

	ctx, cancel := context.WithTimeout(logger.WithRequestID(context.Background(), "worker"), time.Minute)
	defer cancel()

	db, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	n, err := bootstrap.NewServices(db, rdb, cfg).Insights.ExpireInsights(ctx)
	if err != nil {
		log.Fatalf("expire-insights: %v", err)
	}
	log.Printf("expired %d insights", n)
}
