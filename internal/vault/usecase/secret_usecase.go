package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/redkeep/redkeep/internal/errors"
	"github.com/redkeep/redkeep/internal/vault/crypto"
	"github.com/redkeep/redkeep/internal/vault/domain"
)

// reapConcurrency bounds parallel deletes during a reap run.
const reapConcurrency = 8

// secretUseCase implements the SecretUseCase interface.
type secretUseCase struct {
	repo   SecretRepository
	cipher *crypto.Cipher
}

// NewSecretUseCase creates a new secret use case instance.
func NewSecretUseCase(repo SecretRepository, cipher *crypto.Cipher) SecretUseCase {
	return &secretUseCase{repo: repo, cipher: cipher}
}

// List returns all non-expired secrets sorted by UpdatedAt descending, with
// values redacted.
func (s *secretUseCase) List(ctx context.Context) ([]*domain.Secret, error) {
	secrets, err := s.listActive(ctx)
	if err != nil {
		return nil, err
	}

	redacted := make([]*domain.Secret, len(secrets))
	for i, secret := range secrets {
		redacted[i] = secret.Redacted()
	}
	return redacted, nil
}

// Get decrypts a secret's value, increments its access counter, and stamps
// the access time. The persisted record keeps the encrypted value; only the
// returned copy carries plaintext.
func (s *secretUseCase) Get(ctx context.Context, id string) (*domain.Secret, error) {
	secret, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if secret.Expired(now) {
		return nil, domain.ErrSecretExpired
	}

	plaintext, err := s.cipher.DecryptToken(secret.Value)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decrypt secret value")
	}

	secret.AccessCount++
	secret.LastAccessed = &now
	if err := s.repo.Update(ctx, secret, secret.Name); err != nil {
		return nil, err
	}

	out := *secret
	out.Value = plaintext
	return &out, nil
}

// Create encrypts the value and stores a new secret with a fresh id, zero
// access count, and creation timestamps. Returns the record redacted.
func (s *secretUseCase) Create(
	ctx context.Context,
	input CreateSecretInput,
) (*domain.Secret, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "name is required")
	}
	if input.Value == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "value is required")
	}

	// Cheap pre-check before paying for encryption; the repository's atomic
	// name reservation remains the authoritative guard.
	if _, err := s.repo.GetIDByName(ctx, input.Name); err == nil {
		return nil, domain.ErrNameTaken
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	token, err := s.cipher.EncryptToken(input.Value)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt secret value")
	}

	now := time.Now().UTC()
	secret := &domain.Secret{
		ID:          domain.NewID(),
		Name:        input.Name,
		Value:       token,
		Description: input.Description,
		Tags:        normalizeTags(input.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   input.ExpiresAt,
	}

	if err := s.repo.Create(ctx, secret); err != nil {
		return nil, err
	}

	return secret.Redacted(), nil
}

// Update applies a patch to an existing secret. A changed name re-checks
// uniqueness excluding the secret itself; a supplied value is re-encrypted.
// UpdatedAt is bumped on every successful update.
func (s *secretUseCase) Update(
	ctx context.Context,
	id string,
	input UpdateSecretInput,
) (*domain.Secret, error) {
	secret, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	previousName := secret.Name

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "name must not be blank")
		}
		secret.Name = *input.Name
	}
	if input.Value != nil {
		if *input.Value == "" {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "value must not be empty")
		}
		token, err := s.cipher.EncryptToken(*input.Value)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to encrypt secret value")
		}
		secret.Value = token
	}
	if input.Description != nil {
		secret.Description = *input.Description
	}
	if input.Tags != nil {
		secret.Tags = normalizeTags(input.Tags)
	}
	if input.ExpiresAt != nil {
		secret.ExpiresAt = input.ExpiresAt
	}

	secret.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, secret, previousName); err != nil {
		return nil, err
	}

	return secret.Redacted(), nil
}

// Delete permanently removes a secret and frees its name.
func (s *secretUseCase) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Search filters non-expired secrets by case-insensitive substring query on
// name/description/tags, then by tag intersection. Values are redacted.
func (s *secretUseCase) Search(
	ctx context.Context,
	query string,
	tags []string,
) ([]*domain.Secret, error) {
	secrets, err := s.listActive(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*domain.Secret, 0, len(secrets))
	for _, secret := range secrets {
		if secret.Matches(query, tags) {
			matched = append(matched, secret.Redacted())
		}
	}
	return matched, nil
}

// Export returns all non-expired secrets with their encrypted value field
// intact. The master key is never part of the export.
func (s *secretUseCase) Export(ctx context.Context) ([]*domain.Secret, error) {
	return s.listActive(ctx)
}

// Import stores backup records. A record is skipped when its name or value is
// missing, or when its name collides with an existing secret or an earlier
// record of the same batch. Values are treated as pre-encrypted tokens and
// stored without re-encryption. Previously imported records stay committed
// when a later record fails with a store error.
func (s *secretUseCase) Import(
	ctx context.Context,
	records []ImportRecord,
) (*ImportReport, error) {
	report := &ImportReport{}

	for _, record := range records {
		if strings.TrimSpace(record.Name) == "" || record.Value == "" {
			report.Skipped++
			continue
		}

		now := time.Now().UTC()
		secret := &domain.Secret{
			ID:          domain.NewID(),
			Name:        record.Name,
			Value:       record.Value,
			Description: record.Description,
			Tags:        normalizeTags(record.Tags),
			CreatedAt:   now,
			UpdatedAt:   now,
			ExpiresAt:   record.ExpiresAt,
		}

		err := s.repo.Create(ctx, secret)
		switch {
		case err == nil:
			report.Imported++
		case apperrors.Is(err, apperrors.ErrConflict):
			report.Skipped++
		default:
			return report, err
		}
	}

	return report, nil
}

// ReapExpired physically deletes secrets whose expiry passed more than grace
// ago. Soft expiry at read time remains the correctness mechanism; this only
// reclaims space. Deletes run with bounded concurrency.
func (s *secretUseCase) ReapExpired(ctx context.Context, grace time.Duration) (int, error) {
	secrets, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().UTC().Add(-grace)

	var ids []string
	for _, secret := range secrets {
		if secret.ExpiresAt != nil && secret.ExpiresAt.Before(cutoff) {
			ids = append(ids, secret.ID)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reapConcurrency)

	reaped := make(chan struct{}, len(ids))
	for _, id := range ids {
		g.Go(func() error {
			err := s.repo.Delete(gctx, id)
			if apperrors.Is(err, apperrors.ErrNotFound) {
				// Already gone, someone else deleted it
				return nil
			}
			if err != nil {
				return err
			}
			reaped <- struct{}{}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return len(reaped), err
	}
	return len(reaped), nil
}

// listActive returns non-expired secrets sorted by UpdatedAt descending.
func (s *secretUseCase) listActive(ctx context.Context) ([]*domain.Secret, error) {
	secrets, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	active := make([]*domain.Secret, 0, len(secrets))
	for _, secret := range secrets {
		if !secret.Expired(now) {
			active = append(active, secret)
		}
	}

	sort.Slice(active, func(i, j int) bool {
		return active[i].UpdatedAt.After(active[j].UpdatedAt)
	})

	return active, nil
}

// normalizeTags trims whitespace and drops empty entries.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
