package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accelari/trademarkiq2-sub002/internal/application/detection"
	"github.com/accelari/trademarkiq2-sub002/internal/config"
	"github.com/accelari/trademarkiq2-sub002/internal/domain/conflict"
	"github.com/accelari/trademarkiq2-sub002/internal/domain/jurisdiction"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/registry"
	"github.com/accelari/trademarkiq2-sub002/pkg/types/trademark"
)

type stubSearcher struct {
	pages map[string]registry.FilteredResult
}

func (s *stubSearcher) SearchWithFilters(_ context.Context, keyword string, _ registry.Filters) registry.FilteredResult {
	return s.pages[keyword]
}

func newTestEngine(t *testing.T, pages map[string]registry.FilteredResult) *detection.Engine {
	t.Helper()
	agg, err := detection.NewAggregator(&stubSearcher{pages: pages}, 2, 50, nil)
	require.NoError(t, err)
	ranker, err := conflict.NewRanker(conflict.DefaultInclusionThreshold, conflict.DefaultReportLimit)
	require.NoError(t, err)

	engine, err := detection.NewEngine(detection.EngineDeps{
		Jurisdictions: jurisdiction.NewMap(),
		Variants:      detection.NewVariantProvider(nil),
		Aggregator:    agg,
		Ranker:        ranker,
	}, config.DetectionConfig{MaxVariants: 8}, config.RegistryConfig{})
	require.NoError(t, err)
	return engine
}

func detectionRouter(t *testing.T, pages map[string]registry.FilteredResult) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewDetectionHandler(newTestEngine(t, pages))
	r.POST("/api/v1/detections", h.Check)
	return r
}

func TestDetectionHandlerCheck(t *testing.T) {
	router := detectionRouter(t, map[string]registry.FilteredResult{
		"Novatek": {Total: 1, Hits: []trademark.RawRegistryHit{{
			RegistryID: "tm-100",
			Name:       "NOVATEK",
			Status:     trademark.StatusActive,
			Office:     "DE",
			Accuracy:   100,
		}}},
	})

	body := `{"name": "Novatek", "countries": ["DE"]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/detections", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp detection.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Novatek", resp.CandidateName)
	require.NotEmpty(t, resp.Conflicts)
	assert.Equal(t, 100, resp.Conflicts[0].CombinedScore)
	assert.Equal(t, trademark.RiskHigh, resp.HighestRisk)
}

func TestDetectionHandlerEmptyName(t *testing.T) {
	router := detectionRouter(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/detections", strings.NewReader(`{"name": "  "}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "VAR_001", resp.Code)
}

func TestDetectionHandlerMalformedBody(t *testing.T) {
	router := detectionRouter(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/detections", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "COMMON_002", resp.Code)
}

func TestDetectionHandlerInvalidClass(t *testing.T) {
	router := detectionRouter(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/detections",
		strings.NewReader(`{"name": "Novatek", "nice_classes": [99]}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "DET_003", resp.Code)
}
