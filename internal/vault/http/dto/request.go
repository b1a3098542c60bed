// Package dto provides data transfer objects for the vault's single-endpoint
// HTTP API. Every call is a POST with an action discriminator in the body.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	customValidation "github.com/redkeep/redkeep/internal/validation"
	"github.com/redkeep/redkeep/internal/vault/usecase"
)

// Action selects the vault operation performed by a request.
type Action string

// Supported vault actions.
const (
	ActionList   Action = "list_secrets"
	ActionGet    Action = "get_secret"
	ActionCreate Action = "create_secret"
	ActionUpdate Action = "update_secret"
	ActionDelete Action = "delete_secret"
	ActionSearch Action = "search_secrets"
	ActionExport Action = "export_secrets"
	ActionImport Action = "import_secrets"
)

// SecretPayload carries secret fields supplied by create and update requests.
// On update, absent or empty fields leave the stored value unchanged. This
// means an update cannot clear a stored description or tag set back to empty;
// it can only replace them with new non-empty values.
type SecretPayload struct {
	Name        string     `json:"name"`
	Value       string     `json:"value"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}

// ImportEntry is one record of a backup supplied to the import action. The
// value is the encrypted token produced by a previous export.
type ImportEntry struct {
	Name        string     `json:"name"`
	Value       string     `json:"value"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}

// VaultRequest is the envelope for all vault operations.
type VaultRequest struct {
	Action      Action         `json:"action"`
	SecretID    string         `json:"secretId"`
	Secret      *SecretPayload `json:"secret"`
	SearchQuery string         `json:"searchQuery"`
	Tags        []string       `json:"tags"`
	ExportData  []ImportEntry  `json:"exportData"`
}

// Validate checks that the action is present and known, and that the fields
// the action depends on are supplied.
func (r VaultRequest) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.Action,
			validation.Required,
			validation.In(
				ActionList, ActionGet, ActionCreate, ActionUpdate,
				ActionDelete, ActionSearch, ActionExport, ActionImport,
			),
		),
	); err != nil {
		return err
	}

	switch r.Action {
	case ActionGet, ActionUpdate, ActionDelete:
		if r.SecretID == "" {
			return validation.Errors{
				"secretId": validation.NewError(
					"required",
					"secretId is required for this action",
				),
			}
		}
	case ActionCreate:
		if r.Secret == nil {
			return validation.Errors{
				"secret": validation.NewError(
					"required",
					"secret is required for the create action",
				),
			}
		}
		return validation.ValidateStruct(r.Secret,
			validation.Field(&r.Secret.Name, validation.Required, customValidation.NotBlank),
			validation.Field(&r.Secret.Value, validation.Required, customValidation.NotBlank),
		)
	case ActionImport:
		if r.ExportData == nil {
			return validation.Errors{
				"exportData": validation.NewError(
					"required",
					"exportData is required for the import action",
				),
			}
		}
	}

	return nil
}

// ToCreateInput maps a create request payload to the use case input.
func (r VaultRequest) ToCreateInput() usecase.CreateSecretInput {
	return usecase.CreateSecretInput{
		Name:        r.Secret.Name,
		Value:       r.Secret.Value,
		Description: r.Secret.Description,
		Tags:        r.Secret.Tags,
		ExpiresAt:   r.Secret.ExpiresAt,
	}
}

// ToUpdateInput maps an update request payload to the use case patch. Empty
// strings mean "leave unchanged"; only supplied fields become non-nil. See
// SecretPayload for the clearing limitation this implies.
func (r VaultRequest) ToUpdateInput() usecase.UpdateSecretInput {
	input := usecase.UpdateSecretInput{}
	if r.Secret == nil {
		return input
	}

	if r.Secret.Name != "" {
		input.Name = &r.Secret.Name
	}
	if r.Secret.Value != "" {
		input.Value = &r.Secret.Value
	}
	if r.Secret.Description != "" {
		input.Description = &r.Secret.Description
	}
	if r.Secret.Tags != nil {
		input.Tags = r.Secret.Tags
	}
	if r.Secret.ExpiresAt != nil {
		input.ExpiresAt = r.Secret.ExpiresAt
	}
	return input
}

// ToImportRecords maps the import payload to use case records.
func (r VaultRequest) ToImportRecords() []usecase.ImportRecord {
	records := make([]usecase.ImportRecord, 0, len(r.ExportData))
	for _, entry := range r.ExportData {
		records = append(records, usecase.ImportRecord{
			Name:        entry.Name,
			Value:       entry.Value,
			Description: entry.Description,
			Tags:        entry.Tags,
			ExpiresAt:   entry.ExpiresAt,
		})
	}
	return records
}
