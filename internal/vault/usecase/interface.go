// Package usecase implements the vault's business logic: encryption of secret
// values, soft expiry, redaction, and import/export, orchestrated over the
// Redis repository.
package usecase

import (
	"context"
	"time"

	"github.com/redkeep/redkeep/internal/vault/domain"
)

// SecretRepository defines the interface for secret persistence operations.
type SecretRepository interface {
	Create(ctx context.Context, secret *domain.Secret) error
	Get(ctx context.Context, id string) (*domain.Secret, error)
	// Update persists a mutated record; previousName is the name before the
	// mutation so the repository can move the name-index reservation.
	Update(ctx context.Context, secret *domain.Secret, previousName string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Secret, error)
	GetIDByName(ctx context.Context, name string) (string, error)
}

// CreateSecretInput contains the parameters for creating a secret.
type CreateSecretInput struct {
	Name        string
	Value       string
	Description string
	Tags        []string
	ExpiresAt   *time.Time
}

// UpdateSecretInput contains the patch for updating a secret. Nil fields are
// left unchanged; a non-nil Value is re-encrypted before storage.
type UpdateSecretInput struct {
	Name        *string
	Value       *string
	Description *string
	Tags        []string
	ExpiresAt   *time.Time
}

// ImportRecord is one entry of a backup being imported. Value carries the
// already-encrypted token from a previous export and is stored as-is.
type ImportRecord struct {
	Name        string
	Value       string
	Description string
	Tags        []string
	ExpiresAt   *time.Time
}

// ImportReport summarizes an import run.
type ImportReport struct {
	Imported int
	Skipped  int
}

// SecretUseCase defines the interface for vault business logic.
type SecretUseCase interface {
	// List returns all non-expired secrets, newest update first, values redacted.
	List(ctx context.Context) ([]*domain.Secret, error)
	// Get decrypts a secret's value and records the access. Returns ErrGone
	// (wrapped) for expired secrets.
	Get(ctx context.Context, id string) (*domain.Secret, error)
	// Create encrypts and stores a new secret, returning it redacted.
	Create(ctx context.Context, input CreateSecretInput) (*domain.Secret, error)
	// Update applies a patch to an existing secret, returning it redacted.
	Update(ctx context.Context, id string, input UpdateSecretInput) (*domain.Secret, error)
	// Delete permanently removes a secret.
	Delete(ctx context.Context, id string) error
	// Search filters non-expired secrets by free-text query and tag set, redacted.
	Search(ctx context.Context, query string, tags []string) ([]*domain.Secret, error)
	// Export returns all non-expired secrets with their encrypted values intact.
	Export(ctx context.Context) ([]*domain.Secret, error)
	// Import stores backup records, skipping invalid or name-colliding entries.
	Import(ctx context.Context, records []ImportRecord) (*ImportReport, error)
	// ReapExpired physically deletes secrets whose expiry passed more than
	// grace ago, returning the number deleted.
	ReapExpired(ctx context.Context, grace time.Duration) (int, error)
}
