package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accelari/trademarkiq2-sub002/internal/domain/jurisdiction"
	"github.com/accelari/trademarkiq2-sub002/internal/interfaces/http/handlers"
	"github.com/accelari/trademarkiq2-sub002/internal/interfaces/http/middleware"
)

func testRouterConfig() RouterConfig {
	return RouterConfig{
		JurisdictionHandler: handlers.NewJurisdictionHandler(jurisdiction.NewMap()),
		HealthHandler:       handlers.NewHealthHandler("test"),
		Mode:                "test",
	}
}

func TestRouterRegistersRoutes(t *testing.T) {
	router := NewRouter(testRouterConfig())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/offices/DE", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterAssignsRequestID(t *testing.T) {
	router := NewRouter(testRouterConfig())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	router.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get(middleware.RequestIDHeader))
}

func TestRouterCORSPreflight(t *testing.T) {
	cfg := testRouterConfig()
	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = []string{"https://app.example.com"}
	cfg.CORS = &cors
	router := NewRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/detections", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestRouterCORSRejectsUnknownOrigin(t *testing.T) {
	cfg := testRouterConfig()
	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = []string{"https://app.example.com"}
	cfg.CORS = &cors
	router := NewRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	router.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterUnknownRoute(t *testing.T) {
	router := NewRouter(testRouterConfig())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
