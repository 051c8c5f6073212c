package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/accelari/trademarkiq2-sub002/internal/application/detection"
)

// DetectionHandler serves collision-detection runs.
type DetectionHandler struct {
	engine *detection.Engine
}

// NewDetectionHandler wires the engine into the HTTP layer.
func NewDetectionHandler(engine *detection.Engine) *DetectionHandler {
	return &DetectionHandler{engine: engine}
}

// Check handles POST /api/v1/detections.  The request body is the engine
// request; the response is the full run outcome.
func (h *DetectionHandler) Check(c *gin.Context) {
	var req detection.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	resp, err := h.engine.Detect(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
