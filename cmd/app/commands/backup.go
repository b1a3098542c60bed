package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/redkeep/redkeep/internal/app"
	"github.com/redkeep/redkeep/internal/config"
	"github.com/redkeep/redkeep/internal/vault/domain"
	"github.com/redkeep/redkeep/internal/vault/usecase"
)

// backupFileMode keeps the backup readable by the owner only; the values
// inside are encrypted but metadata is not.
const backupFileMode = 0o600

// RunExport writes all non-expired secrets to a JSON backup file. Values stay
// encrypted under the vault master key; the key itself is never exported.
func RunExport(ctx context.Context, path string) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	useCase, err := container.SecretUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize secret use case: %w", err)
	}

	secrets, err := useCase.Export(ctx)
	if err != nil {
		return fmt.Errorf("failed to export secrets: %w", err)
	}

	data, err := json.MarshalIndent(secrets, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	if err := os.WriteFile(path, data, backupFileMode); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}

	logger.Info("export complete",
		slog.String("file", path),
		slog.Int("count", len(secrets)),
	)
	fmt.Printf("Exported %d secrets to %s\n", len(secrets), path)

	return nil
}

// RunImport reads a JSON backup file and stores its records. Records with a
// missing name or value, or whose name collides with an existing secret, are
// skipped and reported.
func RunImport(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}

	var secrets []*domain.Secret
	if err := json.Unmarshal(data, &secrets); err != nil {
		return fmt.Errorf("failed to decode backup file: %w", err)
	}

	records := make([]usecase.ImportRecord, 0, len(secrets))
	for _, secret := range secrets {
		records = append(records, usecase.ImportRecord{
			Name:        secret.Name,
			Value:       secret.Value,
			Description: secret.Description,
			Tags:        secret.Tags,
			ExpiresAt:   secret.ExpiresAt,
		})
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	useCase, err := container.SecretUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize secret use case: %w", err)
	}

	report, err := useCase.Import(ctx, records)
	if err != nil {
		return fmt.Errorf("failed to import secrets: %w", err)
	}

	logger.Info("import complete",
		slog.String("file", path),
		slog.Int("imported", report.Imported),
		slog.Int("skipped", report.Skipped),
	)
	fmt.Printf("Imported %d secrets, skipped %d\n", report.Imported, report.Skipped)

	return nil
}
