package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nutrifit/nutrifit-backend/config"
	"github.com/nutrifit/nutrifit-backend/internal/auth"
	"github.com/nutrifit/nutrifit-backend/internal/bootstrap"
	cronjob "github.com/nutrifit/nutrifit-backend/internal/insights/cron"
	"github.com/nutrifit/nutrifit-backend/internal/insights/repository"
	"github.com/nutrifit/nutrifit-backend/internal/logger"
	"github.com/nutrifit/nutrifit-backend/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.App.LogLevel))
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := bootstrap.OpenDB(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()
	if err := bootstrap.EnsureSchema(ctx, pool, repository.Schema); err != nil {
		log.Fatalf("database: %v", err)
	}

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

	firebaseClient, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
	if err != nil {
		log.Fatalf("firebase: %v", err)
	}
	var verifier auth.TokenVerifier
	if firebaseClient != nil {
		verifier = firebaseClient
	} else {
		log.Println("Firebase credentials not set, using X-User-Id header auth")
	}

	services := bootstrap.NewServices(db, rdb, cfg)

	scheduler := cronjob.NewScheduler(services.Insights)
	if err := scheduler.Start(cfg.Insights.ExpiryCron); err != nil {
		log.Fatalf("cron: %v", err)
	}
	defer scheduler.Stop()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "nutrifit-api",
		Version:     cfg.App.Version,
		CORSOrigins: cfg.Server.CORSOrigins,
		DB:          pool,
		Redis:       rdb,
		Verifier:    verifier,
		Suggestions: services.Suggestions,
		Insights:    services.Insights,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
