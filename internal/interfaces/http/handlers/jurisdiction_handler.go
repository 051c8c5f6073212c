package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/accelari/trademarkiq2-sub002/internal/domain/jurisdiction"
	"github.com/accelari/trademarkiq2-sub002/pkg/errors"
)

// JurisdictionHandler serves office-strategy lookups.
type JurisdictionHandler struct {
	jmap *jurisdiction.Map
}

func NewJurisdictionHandler(jmap *jurisdiction.Map) *JurisdictionHandler {
	return &JurisdictionHandler{jmap: jmap}
}

// officesResponse is the body of GET /api/v1/offices/:country.
type officesResponse struct {
	Country        string                `json:"country"`
	Offices        []jurisdiction.Office `json:"offices"`
	DirectRegister bool                  `json:"direct_register"`
}

// Offices handles GET /api/v1/offices/:country.  Free-text country names are
// accepted.
func (h *JurisdictionHandler) Offices(c *gin.Context) {
	raw := c.Param("country")
	code := jurisdiction.NormalizeCountry(raw)
	if code == "" {
		respondError(c, errors.New(errors.ErrCodeCountryUnknown, "country must not be empty"))
		return
	}

	c.JSON(http.StatusOK, officesResponse{
		Country:        code,
		Offices:        h.jmap.OfficesForCountry(code),
		DirectRegister: jurisdiction.HasDirectNationalRegister(code),
	})
}
