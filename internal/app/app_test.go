package app

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordtrend/internal/config"
	"wordtrend/internal/infrastructure"
)

func testApplication(t *testing.T) *Application {
	t.Helper()
	app := &Application{
		Config:        config.Default(),
		logger:        slog.Default(),
		otelProviders: &infrastructure.OTelProviders{},
	}
	app.initializeServices()
	app.createServer()
	return app
}

func TestSetupRouter_HealthRoute(t *testing.T) {
	app := testApplication(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	app.Server.Handler.ServeHTTP(rec, req)

	// No corpus loaded yet, the service reports degraded.
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "degraded")
}

func TestSetupRouter_ExportWithoutCorpus(t *testing.T) {
	app := testApplication(t)

	req := httptest.NewRequest(http.MethodGet, "/api/export/freqs", nil)
	rec := httptest.NewRecorder()
	app.Server.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetupRouter_MetricsWithoutProviders(t *testing.T) {
	app := testApplication(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	app.Server.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSetupRouter_SecurityHeaders(t *testing.T) {
	app := testApplication(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	app.Server.Handler.ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestSetupRouter_DataRoutes(t *testing.T) {
	app := testApplication(t)

	req := httptest.NewRequest(http.MethodGet, "/api/trends?words=corona", nil)
	rec := httptest.NewRecorder()
	app.Server.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec = httptest.NewRecorder()
	app.Server.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "version")
}

func TestCreateServer(t *testing.T) {
	app := testApplication(t)

	require.NotNil(t, app.Server)
	assert.Equal(t, ":8080", app.Server.Addr)
	assert.Equal(t, app.Config.Server.ReadTimeout, app.Server.ReadTimeout)
}
