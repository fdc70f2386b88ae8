// Package schedule runs jobs on cron expressions.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/robfig/cron/v3"
)

// Job is a unit of scheduled work.
type Job func(ctx context.Context) error

// Scheduler wraps a cron runner. Overlapping runs of one job are skipped.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// New returns a scheduler logging through logger.
func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLogger),
			cron.SkipIfStillRunning(cronLogger),
		)),
		logger: logger,
	}
}

// Add registers job under a standard five-field spec or a descriptor like "@hourly".
func (s *Scheduler) Add(ctx context.Context, spec, name string, job Job) error {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return errors.New("schedule spec is required")
	}
	if job == nil {
		return errors.New("scheduled job is required")
	}
	_, err := s.cron.AddFunc(spec, func() {
		s.logger.Info("scheduled job starting", slog.String("job", name))
		if err := job(ctx); err != nil {
			s.logger.Error("scheduled job failed", slog.String("job", name), slog.String("error", err.Error()))
			return
		}
		s.logger.Info("scheduled job finished", slog.String("job", name))
	})
	if err != nil {
		return fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	return nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs or ctx, whichever comes first.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// Validate reports whether spec parses as a cron schedule.
func Validate(spec string) error {
	if _, err := cron.ParseStandard(strings.TrimSpace(spec)); err != nil {
		return fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	return nil
}
