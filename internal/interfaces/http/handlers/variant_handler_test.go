package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accelari/trademarkiq2-sub002/internal/application/detection"
	"github.com/accelari/trademarkiq2-sub002/pkg/types/trademark"
)

func variantRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewVariantHandler(detection.NewVariantProvider(nil))
	r.POST("/api/v1/variants", h.Generate)
	return r
}

func TestVariantHandlerGenerate(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/variants",
		strings.NewReader(`{"name": "Grüntech", "max": 8}`))
	req.Header.Set("Content-Type", "application/json")
	variantRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp variantResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Variants)
	assert.Equal(t, trademark.VariantExact, resp.Variants[0].Kind)
	assert.Equal(t, "Grüntech", resp.Variants[0].Term)
	assert.LessOrEqual(t, len(resp.Variants), 8)
}

func TestVariantHandlerEmptyName(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/variants", strings.NewReader(`{"name": ""}`))
	req.Header.Set("Content-Type", "application/json")
	variantRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "VAR_001", resp.Code)
}
