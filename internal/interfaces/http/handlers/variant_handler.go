package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/accelari/trademarkiq2-sub002/internal/application/detection"
	"github.com/accelari/trademarkiq2-sub002/pkg/types/trademark"
)

// VariantHandler exposes the variant strategy without running a search, so
// callers can preview what terms a detection run would query.
type VariantHandler struct {
	provider *detection.VariantProvider
}

func NewVariantHandler(provider *detection.VariantProvider) *VariantHandler {
	return &VariantHandler{provider: provider}
}

type variantRequest struct {
	Name        string                   `json:"name"`
	NiceClasses []int                    `json:"nice_classes,omitempty"`
	Countries   []string                 `json:"countries,omitempty"`
	Mode        trademark.GenerationMode `json:"mode,omitempty"`
	Max         int                      `json:"max,omitempty"`
}

type variantResponse struct {
	Name     string                    `json:"name"`
	Variants []trademark.SearchVariant `json:"variants"`
}

// Generate handles POST /api/v1/variants.
func (h *VariantHandler) Generate(c *gin.Context) {
	var req variantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	mode := req.Mode
	if mode == "" {
		mode = trademark.ModeFast
	}

	variants, err := h.provider.Variants(c.Request.Context(), req.Name,
		req.NiceClasses, req.Countries, mode, req.Max)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, variantResponse{Name: req.Name, Variants: variants})
}
