package services

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/meridian-labs/topiclens/internal/core/domain"
	"github.com/meridian-labs/topiclens/internal/core/ports/driving"
	"github.com/meridian-labs/topiclens/internal/logger"
)

// Scheduler triggers periodic incremental retrains.
//
// The scheduler is a plain external caller of the pipeline: it owns the
// timer, the pipeline owns the mutual-exclusion guard. A tick that lands
// while a retrain is still running is skipped, not queued.
type Scheduler struct {
	pipeline driving.Pipeline
	schedule string

	mu      sync.Mutex
	running bool
	cron    *cron.Cron
}

// NewScheduler creates a scheduler with a cron schedule expression
// (e.g. "@every 1h" or "0 3 * * *").
func NewScheduler(pipeline driving.Pipeline, schedule string) *Scheduler {
	if schedule == "" {
		schedule = domain.DefaultRetrainSchedule
	}
	return &Scheduler{pipeline: pipeline, schedule: schedule}
}

// Start begins the scheduler loop. This method blocks until the context
// is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	c := cron.New()
	if _, err := c.AddFunc(s.schedule, func() { s.trigger(ctx) }); err != nil {
		s.mu.Unlock()
		return err
	}
	s.running = true
	s.cron = c
	s.mu.Unlock()

	c.Start()
	<-ctx.Done()
	return s.Stop()
}

// Stop gracefully shuts down the scheduler, waiting for an in-flight
// trigger to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	// Stop returns a context that completes when running jobs finish.
	<-c.Stop().Done()
	return nil
}

// trigger runs one incremental retrain.
func (s *Scheduler) trigger(ctx context.Context) {
	logger.Info("Scheduled retrain triggered")
	result, err := s.pipeline.RunRetrain(ctx, domain.ModeIncremental)
	switch {
	case errors.Is(err, domain.ErrRetrainInProgress):
		logger.Warn("Scheduled retrain skipped: previous run still in progress")
	case errors.Is(err, domain.ErrInsufficientData):
		logger.Warn("Scheduled retrain skipped: %v", err)
	case err != nil:
		log.Printf("scheduler: retrain failed: %v", err)
	default:
		logger.Info("Scheduled retrain %s finished: %d documents",
			result.RunID, result.DocumentsProcessed)
	}
}
