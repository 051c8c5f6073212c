package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeNotImplemented     ErrorCode = "COMMON_015"
)

// Jurisdiction Module Error Codes
const (
	ErrCodeCountryUnknown      ErrorCode = "JUR_001"
	ErrCodeOfficeUnsupported   ErrorCode = "JUR_002"
	ErrCodeDesignationInvalid  ErrorCode = "JUR_003"
)

// Variant Module Error Codes
const (
	ErrCodeMarkNameEmpty       ErrorCode = "VAR_001"
	ErrCodeVariantLimitInvalid ErrorCode = "VAR_002"
	ErrCodeVariantSourceFailed ErrorCode = "VAR_003"
)

// Registry Provider Error Codes
const (
	ErrCodeProviderUnavailable ErrorCode = "REG_001"
	ErrCodeProviderRateLimited ErrorCode = "REG_002"
	ErrCodeProviderAuthFailed  ErrorCode = "REG_003"
	ErrCodeProviderParseError  ErrorCode = "REG_004"
	ErrCodeTrademarkNotFound   ErrorCode = "REG_005"
)

// Detection Module Error Codes
const (
	ErrCodeDetectionFailed      ErrorCode = "DET_001"
	ErrCodeConcurrencyInvalid   ErrorCode = "DET_002"
	ErrCodeNiceClassInvalid     ErrorCode = "DET_003"
	ErrCodeDetectionCancelled   ErrorCode = "DET_004"
)

// Similarity Module Error Codes
const (
	ErrCodeThresholdInvalid ErrorCode = "SIM_001"
)

// Aliases kept for call-site readability.
const (
	CodeInternal       = ErrCodeInternal
	CodeInvalidParam   = ErrCodeBadRequest
	CodeUnauthorized   = ErrCodeUnauthorized
	CodeForbidden      = ErrCodeForbidden
	CodeNotFound       = ErrCodeNotFound
	CodeConflict       = ErrCodeConflict
	CodeRateLimit      = ErrCodeTooManyRequests
	CodeNotImplemented = ErrCodeNotImplemented
	CodeCacheError     = ErrCodeCacheError
	CodeDatabaseError  = ErrCodeDatabaseError
	CodeUnknown        = ErrorCode("UNKNOWN")
	CodeOK             = ErrorCode("OK")
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeCountryUnknown:     http.StatusBadRequest,
	ErrCodeOfficeUnsupported:  http.StatusBadRequest,
	ErrCodeDesignationInvalid: http.StatusBadRequest,

	ErrCodeMarkNameEmpty:       http.StatusBadRequest,
	ErrCodeVariantLimitInvalid: http.StatusBadRequest,
	ErrCodeVariantSourceFailed: http.StatusInternalServerError,

	ErrCodeProviderUnavailable: http.StatusServiceUnavailable,
	ErrCodeProviderRateLimited: http.StatusTooManyRequests,
	ErrCodeProviderAuthFailed:  http.StatusBadGateway,
	ErrCodeProviderParseError:  http.StatusBadGateway,
	ErrCodeTrademarkNotFound:   http.StatusNotFound,

	ErrCodeDetectionFailed:    http.StatusInternalServerError,
	ErrCodeConcurrencyInvalid: http.StatusInternalServerError,
	ErrCodeNiceClassInvalid:   http.StatusBadRequest,
	ErrCodeDetectionCancelled: http.StatusRequestTimeout,

	ErrCodeThresholdInvalid: http.StatusBadRequest,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeCountryUnknown:     "unknown country code",
	ErrCodeOfficeUnsupported:  "unsupported trademark office",
	ErrCodeDesignationInvalid: "invalid designation code",

	ErrCodeMarkNameEmpty:       "mark name must not be empty",
	ErrCodeVariantLimitInvalid: "invalid variant limit",
	ErrCodeVariantSourceFailed: "variant generation failed",

	ErrCodeProviderUnavailable: "registry provider unavailable",
	ErrCodeProviderRateLimited: "registry provider rate limited",
	ErrCodeProviderAuthFailed:  "registry provider authentication failed",
	ErrCodeProviderParseError:  "failed to parse registry provider response",
	ErrCodeTrademarkNotFound:   "trademark record not found",

	ErrCodeDetectionFailed:    "collision detection failed",
	ErrCodeConcurrencyInvalid: "invalid search concurrency limit",
	ErrCodeNiceClassInvalid:   "Nice class out of range",
	ErrCodeDetectionCancelled: "detection run cancelled",

	ErrCodeThresholdInvalid: "invalid similarity threshold",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
