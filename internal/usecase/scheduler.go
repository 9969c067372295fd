package usecase

import (
	"context"
	"log/slog"
	"time"

	"PaperRecommender/internal/ports"
)

// Scheduler wires the trigger driver with the pipeline. Every cycle
// failure, error or panic, is contained here: it is logged and the
// process keeps waiting for the next trigger.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop the recurring cycle.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, log *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, pipeline: pipeline, logger: log}
}

// Start registers the pipeline cycle with the provided trigger driver.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	return s.driver.Start(ctx, func(trigger time.Time) {
		s.runCycle(ctx, trigger)
	})
}

// Stop gracefully tears down the underlying trigger driver.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}

func (s *Scheduler) runCycle(ctx context.Context, trigger time.Time) {
	defer func() {
		if r := recover(); r != nil {
			s.errorLog("cycle panicked", "trigger", trigger, "panic", r)
		}
	}()

	s.info("cycle started", "trigger", trigger)
	if err := s.pipeline.RunCycle(ctx, trigger); err != nil {
		s.errorLog("cycle failed", "trigger", trigger, "error", err)
		return
	}
	s.info("cycle completed", "trigger", trigger)
}

func (s *Scheduler) info(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Scheduler) errorLog(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Error(msg, args...)
	}
}
