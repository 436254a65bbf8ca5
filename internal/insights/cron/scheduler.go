package cronjob

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nutrifit/nutrifit-backend/internal/logger"
)

// Expirer is implemented by *service.InsightService.
type Expirer interface {
	ExpireInsights(ctx context.Context) (int64, error)
}

// Scheduler runs the periodic insight expiry sweep.
type Scheduler struct {
	cron    *cron.Cron
	expirer Expirer
	timeout time.Duration
}

func NewScheduler(expirer Expirer) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		expirer: expirer,
		timeout: 30 * time.Second,
	}
}

// Start registers the sweep under spec (six fields, seconds first) and
// starts the scheduler.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.runExpiry); err != nil {
		return fmt.Errorf("failed to create cron job: %w", err)
	}
	log.Printf("Cron scheduler started (insight expiry %q)", spec)
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runExpiry() {
	ctx, cancel := context.WithTimeout(logger.WithRequestID(context.Background(), "cron-expiry"), s.timeout)
	defer cancel()

	if _, err := s.expirer.ExpireInsights(ctx); err != nil {
		logger.New(ctx).LogError("expire_insights", err)
	}
}
