// Package worker runs the vault's background jobs.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/redkeep/redkeep/internal/vault/usecase"
)

// reapTimeout bounds a single reap run.
const reapTimeout = 5 * time.Minute

// Reaper periodically deletes records whose expiry passed the grace period.
// Expired secrets are already invisible to reads; the reaper only reclaims
// storage.
type Reaper struct {
	useCase usecase.SecretUseCase
	cron    *cron.Cron
	grace   time.Duration
	logger  *slog.Logger
}

// NewReaper creates a reaper that runs on the given cron schedule (e.g.
// "@every 1h") with the given grace period.
func NewReaper(
	useCase usecase.SecretUseCase,
	schedule string,
	grace time.Duration,
	logger *slog.Logger,
) (*Reaper, error) {
	r := &Reaper{
		useCase: useCase,
		cron:    cron.New(),
		grace:   grace,
		logger:  logger,
	}

	if _, err := r.cron.AddFunc(schedule, r.run); err != nil {
		return nil, fmt.Errorf("invalid reaper schedule %q: %w", schedule, err)
	}

	return r, nil
}

// Start begins scheduled execution in a background goroutine.
func (r *Reaper) Start() {
	r.logger.Info("starting expiry reaper", slog.Duration("grace", r.grace))
	r.cron.Start()
}

// Stop halts the schedule and waits for a running job to finish.
func (r *Reaper) Stop() {
	r.logger.Info("stopping expiry reaper")
	<-r.cron.Stop().Done()
}

func (r *Reaper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), reapTimeout)
	defer cancel()

	count, err := r.useCase.ReapExpired(ctx, r.grace)
	if err != nil {
		r.logger.Error("reap run failed", slog.Any("error", err))
		return
	}

	if count > 0 {
		r.logger.Info("reaped expired secrets", slog.Int("count", count))
	}
}
