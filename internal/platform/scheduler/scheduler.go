package scheduler

import (
	"context"
	"time"

	"log/slog"

	portssvc "github.com/epsilon-fin/epsilon_backend/internal/core/ports/services"
	"github.com/epsilon-fin/epsilon_backend/internal/middleware"
	"github.com/google/uuid"
)

// Scheduler drives the recurring-rule engine on a fixed interval.
type Scheduler struct {
	recurring portssvc.RecurringSvcFacade
	interval  time.Duration
	logger    *slog.Logger
}

// New creates a scheduler that processes due rules every interval.
func New(recurring portssvc.RecurringSvcFacade, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		recurring: recurring,
		interval:  interval,
		logger:    logger,
	}
}

// Run blocks until the context is cancelled. One pass fires immediately on
// startup so a restarted service catches up without waiting a full interval.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("Recurring scheduler started", slog.Duration("interval", s.interval))

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Recurring scheduler stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// runOnce executes a single ProcessDue pass with a run-scoped logger.
func (s *Scheduler) runOnce(ctx context.Context) {
	runLogger := s.logger.With(slog.String("scheduler_run_id", uuid.NewString()))
	runCtx := middleware.ContextWithLogger(ctx, runLogger)

	start := time.Now()
	results, err := s.recurring.ProcessDue(runCtx, start)
	if err != nil {
		runLogger.Error("Scheduler pass failed", slog.String("error", err.Error()))
		return
	}

	for _, res := range results {
		if res.Err != nil {
			runLogger.Warn("Rule run failed",
				slog.String("rule_id", res.RuleID),
				slog.String("error", res.Err.Error()))
		}
	}
	runLogger.Info("Scheduler pass finished",
		slog.Int("rules_processed", len(results)),
		slog.Duration("elapsed", time.Since(start)))
}
