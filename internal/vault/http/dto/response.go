package dto

import (
	"github.com/redkeep/redkeep/internal/vault/domain"
)

// VaultResponse is the envelope returned by all vault operations.
type VaultResponse struct {
	Success  bool             `json:"success"`
	Secret   *domain.Secret   `json:"secret,omitempty"`
	Secrets  []*domain.Secret `json:"secrets,omitempty"`
	Imported *int             `json:"imported,omitempty"`
	Skipped  *int             `json:"skipped,omitempty"`
	Message  string           `json:"message,omitempty"`
}

// MapSecretToResponse wraps a single secret in a success envelope.
func MapSecretToResponse(secret *domain.Secret) VaultResponse {
	return VaultResponse{
		Success: true,
		Secret:  secret,
	}
}

// MapSecretsToResponse wraps a secret list in a success envelope. A nil slice
// becomes an empty array so clients always receive "secrets": [].
func MapSecretsToResponse(secrets []*domain.Secret) VaultResponse {
	if secrets == nil {
		secrets = []*domain.Secret{}
	}
	return VaultResponse{
		Success: true,
		Secrets: secrets,
	}
}

// MapImportReportToResponse wraps an import report in a success envelope.
func MapImportReportToResponse(imported, skipped int) VaultResponse {
	return VaultResponse{
		Success:  true,
		Imported: &imported,
		Skipped:  &skipped,
	}
}

// MapMessageToResponse wraps a plain confirmation message in a success envelope.
func MapMessageToResponse(message string) VaultResponse {
	return VaultResponse{
		Success: true,
		Message: message,
	}
}
