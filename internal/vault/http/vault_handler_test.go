package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redkeep/redkeep/internal/httputil"
	"github.com/redkeep/redkeep/internal/vault/crypto"
	"github.com/redkeep/redkeep/internal/vault/domain"
	"github.com/redkeep/redkeep/internal/vault/http/dto"
	"github.com/redkeep/redkeep/internal/vault/repository"
	"github.com/redkeep/redkeep/internal/vault/usecase"
)

const testKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

// setupTestRouter wires the handler to a real use case over an in-memory Redis.
func setupTestRouter(t *testing.T) (*gin.Engine, usecase.SecretUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := repository.NewRedisSecretRepository(client, logger)

	cipher, err := crypto.New(testKey, crypto.AlgorithmAESGCM)
	require.NoError(t, err)

	useCase := usecase.NewSecretUseCase(repo, cipher)
	handler := NewVaultHandler(useCase, logger)

	router := gin.New()
	router.POST("/v1/vault", handler.ActionHandler)

	return router, useCase
}

func postVault(t *testing.T, router *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/vault", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeVaultResponse(t *testing.T, recorder *httptest.ResponseRecorder) dto.VaultResponse {
	t.Helper()

	var response dto.VaultResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	return response
}

func decodeErrorResponse(t *testing.T, recorder *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()

	var response httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	return response
}

func TestVaultHandler_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		recorder := postVault(t, router, dto.VaultRequest{
			Action: dto.ActionCreate,
			Secret: &dto.SecretPayload{
				Name:  "API Key",
				Value: "super-secret",
				Tags:  []string{"prod"},
			},
		})

		assert.Equal(t, http.StatusCreated, recorder.Code)
		response := decodeVaultResponse(t, recorder)
		assert.True(t, response.Success)
		require.NotNil(t, response.Secret)
		assert.NotEmpty(t, response.Secret.ID)
		assert.Equal(t, domain.RedactedValue, response.Secret.Value)
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		req := httptest.NewRequest(
			http.MethodPost, "/v1/vault", bytes.NewReader([]byte("{not json")),
		)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("Error_MissingValue", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		recorder := postVault(t, router, dto.VaultRequest{
			Action: dto.ActionCreate,
			Secret: &dto.SecretPayload{Name: "no-value"},
		})

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		response := decodeErrorResponse(t, recorder)
		assert.False(t, response.Success)
		assert.Equal(t, "validation_error", response.Error)
	})

	t.Run("Error_NameConflict", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		first := postVault(t, router, dto.VaultRequest{
			Action: dto.ActionCreate,
			Secret: &dto.SecretPayload{Name: "API Key", Value: "v"},
		})
		require.Equal(t, http.StatusCreated, first.Code)

		second := postVault(t, router, dto.VaultRequest{
			Action: dto.ActionCreate,
			Secret: &dto.SecretPayload{Name: "api key", Value: "v"},
		})

		assert.Equal(t, http.StatusConflict, second.Code)
		response := decodeErrorResponse(t, second)
		assert.Equal(t, "conflict", response.Error)
	})
}

func TestVaultHandler_Get(t *testing.T) {
	t.Run("Success_ReturnsPlaintext", func(t *testing.T) {
		router, useCase := setupTestRouter(t)

		created, err := useCase.Create(context.Background(), usecase.CreateSecretInput{
			Name:  "db-password",
			Value: "hunter2",
		})
		require.NoError(t, err)

		recorder := postVault(t, router, dto.VaultRequest{
			Action:   dto.ActionGet,
			SecretID: created.ID,
		})

		assert.Equal(t, http.StatusOK, recorder.Code)
		response := decodeVaultResponse(t, recorder)
		require.NotNil(t, response.Secret)
		assert.Equal(t, "hunter2", response.Secret.Value)
		assert.Equal(t, int64(1), response.Secret.AccessCount)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		recorder := postVault(t, router, dto.VaultRequest{
			Action:   dto.ActionGet,
			SecretID: "missing-id",
		})

		assert.Equal(t, http.StatusNotFound, recorder.Code)
		response := decodeErrorResponse(t, recorder)
		assert.Equal(t, "not_found", response.Error)
	})

	t.Run("Error_Expired", func(t *testing.T) {
		router, useCase := setupTestRouter(t)

		past := time.Now().UTC().Add(-time.Minute)
		created, err := useCase.Create(context.Background(), usecase.CreateSecretInput{
			Name:      "expired",
			Value:     "v",
			ExpiresAt: &past,
		})
		require.NoError(t, err)

		recorder := postVault(t, router, dto.VaultRequest{
			Action:   dto.ActionGet,
			SecretID: created.ID,
		})

		assert.Equal(t, http.StatusGone, recorder.Code)
		response := decodeErrorResponse(t, recorder)
		assert.Equal(t, "gone", response.Error)
	})

	t.Run("Error_MissingID", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		recorder := postVault(t, router, dto.VaultRequest{Action: dto.ActionGet})

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestVaultHandler_Update(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, useCase := setupTestRouter(t)

		created, err := useCase.Create(context.Background(), usecase.CreateSecretInput{
			Name:  "service-key",
			Value: "v",
		})
		require.NoError(t, err)

		recorder := postVault(t, router, dto.VaultRequest{
			Action:   dto.ActionUpdate,
			SecretID: created.ID,
			Secret:   &dto.SecretPayload{Description: "rotated weekly"},
		})

		assert.Equal(t, http.StatusOK, recorder.Code)
		response := decodeVaultResponse(t, recorder)
		require.NotNil(t, response.Secret)
		assert.Equal(t, "rotated weekly", response.Secret.Description)
		assert.Equal(t, domain.RedactedValue, response.Secret.Value)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		recorder := postVault(t, router, dto.VaultRequest{
			Action:   dto.ActionUpdate,
			SecretID: "missing-id",
			Secret:   &dto.SecretPayload{Description: "x"},
		})

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestVaultHandler_Delete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, useCase := setupTestRouter(t)

		created, err := useCase.Create(context.Background(), usecase.CreateSecretInput{
			Name:  "to-delete",
			Value: "v",
		})
		require.NoError(t, err)

		recorder := postVault(t, router, dto.VaultRequest{
			Action:   dto.ActionDelete,
			SecretID: created.ID,
		})

		assert.Equal(t, http.StatusOK, recorder.Code)
		response := decodeVaultResponse(t, recorder)
		assert.True(t, response.Success)
		assert.Equal(t, "secret deleted", response.Message)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		recorder := postVault(t, router, dto.VaultRequest{
			Action:   dto.ActionDelete,
			SecretID: "missing-id",
		})

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestVaultHandler_ListAndSearch(t *testing.T) {
	seed := func(t *testing.T, useCase usecase.SecretUseCase) {
		t.Helper()
		ctx := context.Background()
		_, err := useCase.Create(ctx, usecase.CreateSecretInput{
			Name: "stripe-api-key", Value: "v", Tags: []string{"payments"},
		})
		require.NoError(t, err)
		_, err = useCase.Create(ctx, usecase.CreateSecretInput{
			Name: "github-token", Value: "v", Tags: []string{"ci"},
		})
		require.NoError(t, err)
	}

	t.Run("Success_List", func(t *testing.T) {
		router, useCase := setupTestRouter(t)
		seed(t, useCase)

		recorder := postVault(t, router, dto.VaultRequest{Action: dto.ActionList})

		assert.Equal(t, http.StatusOK, recorder.Code)
		response := decodeVaultResponse(t, recorder)
		require.Len(t, response.Secrets, 2)
		for _, secret := range response.Secrets {
			assert.Equal(t, domain.RedactedValue, secret.Value)
		}
	})

	t.Run("Success_ListEmpty", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		recorder := postVault(t, router, dto.VaultRequest{Action: dto.ActionList})

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"secrets":[]`)
	})

	t.Run("Success_Search", func(t *testing.T) {
		router, useCase := setupTestRouter(t)
		seed(t, useCase)

		recorder := postVault(t, router, dto.VaultRequest{
			Action:      dto.ActionSearch,
			SearchQuery: "stripe",
		})

		assert.Equal(t, http.StatusOK, recorder.Code)
		response := decodeVaultResponse(t, recorder)
		require.Len(t, response.Secrets, 1)
		assert.Equal(t, "stripe-api-key", response.Secrets[0].Name)
	})

	t.Run("Success_SearchByTags", func(t *testing.T) {
		router, useCase := setupTestRouter(t)
		seed(t, useCase)

		recorder := postVault(t, router, dto.VaultRequest{
			Action: dto.ActionSearch,
			Tags:   []string{"ci"},
		})

		assert.Equal(t, http.StatusOK, recorder.Code)
		response := decodeVaultResponse(t, recorder)
		require.Len(t, response.Secrets, 1)
		assert.Equal(t, "github-token", response.Secrets[0].Name)
	})
}

func TestVaultHandler_ExportImport(t *testing.T) {
	t.Run("Success_RoundTrip", func(t *testing.T) {
		router, useCase := setupTestRouter(t)

		_, err := useCase.Create(context.Background(), usecase.CreateSecretInput{
			Name:  "exported",
			Value: "round-trip-me",
		})
		require.NoError(t, err)

		exportRecorder := postVault(t, router, dto.VaultRequest{Action: dto.ActionExport})
		require.Equal(t, http.StatusOK, exportRecorder.Code)

		exported := decodeVaultResponse(t, exportRecorder)
		require.Len(t, exported.Secrets, 1)
		assert.NotEqual(t, domain.RedactedValue, exported.Secrets[0].Value)

		// Re-import the exported payload into a fresh vault.
		freshRouter, _ := setupTestRouter(t)

		entries := make([]dto.ImportEntry, len(exported.Secrets))
		for i, s := range exported.Secrets {
			entries[i] = dto.ImportEntry{
				Name:        s.Name,
				Value:       s.Value,
				Description: s.Description,
				Tags:        s.Tags,
				ExpiresAt:   s.ExpiresAt,
			}
		}

		importRecorder := postVault(t, freshRouter, dto.VaultRequest{
			Action:     dto.ActionImport,
			ExportData: entries,
		})

		assert.Equal(t, http.StatusOK, importRecorder.Code)
		response := decodeVaultResponse(t, importRecorder)
		require.NotNil(t, response.Imported)
		require.NotNil(t, response.Skipped)
		assert.Equal(t, 1, *response.Imported)
		assert.Equal(t, 0, *response.Skipped)
	})

	t.Run("Success_ImportReportsSkipped", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		recorder := postVault(t, router, dto.VaultRequest{
			Action: dto.ActionImport,
			ExportData: []dto.ImportEntry{
				{Name: "valid", Value: "aa:bb"},
				{Name: "", Value: "aa:bb"},
				{Name: "valid", Value: "cc:dd"},
			},
		})

		assert.Equal(t, http.StatusOK, recorder.Code)
		response := decodeVaultResponse(t, recorder)
		assert.Equal(t, 1, *response.Imported)
		assert.Equal(t, 2, *response.Skipped)
	})
}

func TestVaultHandler_UnknownAction(t *testing.T) {
	router, _ := setupTestRouter(t)

	recorder := postVault(t, router, map[string]string{"action": "destroy"})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	response := decodeErrorResponse(t, recorder)
	assert.False(t, response.Success)
	assert.Equal(t, "validation_error", response.Error)
}
