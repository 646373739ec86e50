package library

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/audiohaus/melody/pkg/observability"
)

// RescanScheduler runs full library rescans on a cron schedule
type RescanScheduler struct {
	cron   *cron.Cron
	logger *observability.Logger
}

// NewRescanScheduler schedules fn on the given cron expression. The
// expression is validated here so a bad schedule fails at startup.
func NewRescanScheduler(schedule string, logger *observability.Logger, fn func()) (*RescanScheduler, error) {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		defer observability.RecoverPanic(logger, "scheduled rescan")
		logger.WithField("schedule", schedule).Info("Scheduled rescan starting")
		fn()
	}); err != nil {
		return nil, fmt.Errorf("invalid rescan schedule %q: %w", schedule, err)
	}

	return &RescanScheduler{
		cron:   c,
		logger: logger,
	}, nil
}

// Start begins running scheduled rescans
func (s *RescanScheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running job to finish, honoring
// ctx cancellation.
func (s *RescanScheduler) Stop(ctx context.Context) error {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
