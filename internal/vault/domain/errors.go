package domain

import (
	"github.com/redkeep/redkeep/internal/errors"
)

// Vault-specific error definitions.
var (
	// ErrSecretNotFound indicates no secret exists with the requested id.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found")

	// ErrNameTaken indicates another secret already uses the name (case-insensitively).
	ErrNameTaken = errors.Wrap(errors.ErrConflict, "secret name already in use")

	// ErrSecretExpired indicates the secret exists but is past its expiry timestamp.
	ErrSecretExpired = errors.Wrap(errors.ErrGone, "secret expired")
)
