package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider("redkeep")
	require.NoError(t, err)

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "redkeep"))
	router.POST("/v1/vault", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	for range 3 {
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/vault", nil)
		router.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusOK, recorder.Code)
	}

	output := scrapeMetrics(t, provider)
	assertMetricLine(t, output, "redkeep_http_requests_total", `path="/v1/vault"`, "3")
	assert.Contains(t, output, "redkeep_http_request_duration_seconds")

	t.Run("Success_UnmatchedRouteUsesUnknownPath", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/nope", nil)
		router.ServeHTTP(recorder, req)

		output := scrapeMetrics(t, provider)
		assertMetricLine(t, output, "redkeep_http_requests_total", `path="unknown"`, "1")
	})
}
