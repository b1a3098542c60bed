package usecase

import (
	"context"
	"time"

	"github.com/redkeep/redkeep/internal/metrics"
	"github.com/redkeep/redkeep/internal/vault/domain"
)

// secretUseCaseWithMetrics decorates SecretUseCase with metrics instrumentation.
type secretUseCaseWithMetrics struct {
	next    SecretUseCase
	metrics metrics.BusinessMetrics
}

// NewSecretUseCaseWithMetrics wraps a SecretUseCase with metrics recording.
func NewSecretUseCaseWithMetrics(useCase SecretUseCase, m metrics.BusinessMetrics) SecretUseCase {
	return &secretUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// record emits the operation counter and duration histogram for one call.
func (s *secretUseCaseWithMetrics) record(
	ctx context.Context,
	operation string,
	start time.Time,
	err error,
) {
	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "vault", operation, status)
	s.metrics.RecordDuration(ctx, "vault", operation, time.Since(start), status)
}

// List records metrics for list operations.
func (s *secretUseCaseWithMetrics) List(ctx context.Context) ([]*domain.Secret, error) {
	start := time.Now()
	secrets, err := s.next.List(ctx)
	s.record(ctx, "secret_list", start, err)
	return secrets, err
}

// Get records metrics for secret retrieval operations.
func (s *secretUseCaseWithMetrics) Get(ctx context.Context, id string) (*domain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Get(ctx, id)
	s.record(ctx, "secret_get", start, err)
	return secret, err
}

// Create records metrics for secret creation operations.
func (s *secretUseCaseWithMetrics) Create(
	ctx context.Context,
	input CreateSecretInput,
) (*domain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Create(ctx, input)
	s.record(ctx, "secret_create", start, err)
	return secret, err
}

// Update records metrics for secret update operations.
func (s *secretUseCaseWithMetrics) Update(
	ctx context.Context,
	id string,
	input UpdateSecretInput,
) (*domain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Update(ctx, id, input)
	s.record(ctx, "secret_update", start, err)
	return secret, err
}

// Delete records metrics for secret deletion operations.
func (s *secretUseCaseWithMetrics) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := s.next.Delete(ctx, id)
	s.record(ctx, "secret_delete", start, err)
	return err
}

// Search records metrics for search operations.
func (s *secretUseCaseWithMetrics) Search(
	ctx context.Context,
	query string,
	tags []string,
) ([]*domain.Secret, error) {
	start := time.Now()
	secrets, err := s.next.Search(ctx, query, tags)
	s.record(ctx, "secret_search", start, err)
	return secrets, err
}

// Export records metrics for export operations.
func (s *secretUseCaseWithMetrics) Export(ctx context.Context) ([]*domain.Secret, error) {
	start := time.Now()
	secrets, err := s.next.Export(ctx)
	s.record(ctx, "secret_export", start, err)
	return secrets, err
}

// Import records metrics for import operations.
func (s *secretUseCaseWithMetrics) Import(
	ctx context.Context,
	records []ImportRecord,
) (*ImportReport, error) {
	start := time.Now()
	report, err := s.next.Import(ctx, records)
	s.record(ctx, "secret_import", start, err)
	return report, err
}

// ReapExpired records metrics for reap operations.
func (s *secretUseCaseWithMetrics) ReapExpired(
	ctx context.Context,
	grace time.Duration,
) (int, error) {
	start := time.Now()
	count, err := s.next.ReapExpired(ctx, grace)
	s.record(ctx, "secret_reap", start, err)
	return count, err
}
