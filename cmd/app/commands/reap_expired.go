package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redkeep/redkeep/internal/app"
	"github.com/redkeep/redkeep/internal/config"
)

// RunReapExpired deletes secrets whose expiry passed the grace period. A zero
// grace argument uses the configured REAPER_GRACE_PERIOD_MINUTES.
func RunReapExpired(ctx context.Context, grace time.Duration) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	if grace == 0 {
		grace = cfg.ReaperGracePeriod
	}

	useCase, err := container.SecretUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize secret use case: %w", err)
	}

	count, err := useCase.ReapExpired(ctx, grace)
	if err != nil {
		return fmt.Errorf("failed to reap expired secrets: %w", err)
	}

	logger.Info("reap complete",
		slog.Duration("grace", grace),
		slog.Int("count", count),
	)
	fmt.Printf("Reaped %d expired secrets\n", count)

	return nil
}
