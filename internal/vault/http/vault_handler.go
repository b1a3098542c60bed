// Package http provides the vault's HTTP surface: a single POST endpoint that
// dispatches on the action field of the request body.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/redkeep/redkeep/internal/httputil"
	customValidation "github.com/redkeep/redkeep/internal/validation"
	"github.com/redkeep/redkeep/internal/vault/http/dto"
	"github.com/redkeep/redkeep/internal/vault/usecase"
)

// VaultHandler handles the action-dispatched vault endpoint.
type VaultHandler struct {
	useCase usecase.SecretUseCase
	logger  *slog.Logger
}

// NewVaultHandler creates a new vault handler with required dependencies.
func NewVaultHandler(useCase usecase.SecretUseCase, logger *slog.Logger) *VaultHandler {
	return &VaultHandler{
		useCase: useCase,
		logger:  logger,
	}
}

// ActionHandler serves POST /v1/vault. The request body names the operation
// and carries its parameters; responses share the VaultResponse envelope.
func (h *VaultHandler) ActionHandler(c *gin.Context) {
	var req dto.VaultRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	ctx := c.Request.Context()

	switch req.Action {
	case dto.ActionList:
		secrets, err := h.useCase.List(ctx)
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		c.JSON(http.StatusOK, dto.MapSecretsToResponse(secrets))

	case dto.ActionGet:
		secret, err := h.useCase.Get(ctx, req.SecretID)
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		c.JSON(http.StatusOK, dto.MapSecretToResponse(secret))

	case dto.ActionCreate:
		secret, err := h.useCase.Create(ctx, req.ToCreateInput())
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		c.JSON(http.StatusCreated, dto.MapSecretToResponse(secret))

	case dto.ActionUpdate:
		secret, err := h.useCase.Update(ctx, req.SecretID, req.ToUpdateInput())
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		c.JSON(http.StatusOK, dto.MapSecretToResponse(secret))

	case dto.ActionDelete:
		if err := h.useCase.Delete(ctx, req.SecretID); err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		c.JSON(http.StatusOK, dto.MapMessageToResponse("secret deleted"))

	case dto.ActionSearch:
		secrets, err := h.useCase.Search(ctx, req.SearchQuery, req.Tags)
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		c.JSON(http.StatusOK, dto.MapSecretsToResponse(secrets))

	case dto.ActionExport:
		secrets, err := h.useCase.Export(ctx)
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		c.JSON(http.StatusOK, dto.MapSecretsToResponse(secrets))

	case dto.ActionImport:
		report, err := h.useCase.Import(ctx, req.ToImportRecords())
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		c.JSON(http.StatusOK, dto.MapImportReportToResponse(report.Imported, report.Skipped))
	}
}
