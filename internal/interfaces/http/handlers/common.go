// Package handlers implements the HTTP API endpoints.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/accelari/trademarkiq2-sub002/pkg/errors"
)

// ErrorResponse is the standard error body of the API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// respondError maps an error onto its HTTP status via the error-code table.
// Server-side error details are masked; the code still tells the caller what
// class of failure occurred.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	resp := ErrorResponse{Code: code.String()}
	if errors.IsServerError(code) {
		resp.Message = errors.DefaultMessageForCode(code)
	} else {
		resp.Message = err.Error()
	}
	if appErr, ok := err.(*errors.AppError); ok && !errors.IsServerError(code) {
		resp.Detail = appErr.Detail
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}

// respondBadRequest rejects malformed request bodies.
func respondBadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Code:    errors.ErrCodeBadRequest.String(),
		Message: "invalid request body: " + err.Error(),
	})
}
