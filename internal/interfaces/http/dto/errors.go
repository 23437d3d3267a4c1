package dto

import (
	"net/http"

	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

// Error codes of the API. The domain codes pass through unchanged.
const (
	ErrCodeNotFound          = shared.CodeNotFound
	ErrCodeValidation        = shared.CodeValidation
	ErrCodeState             = shared.CodeState
	ErrCodeInsufficientStock = shared.CodeInsufficientStock
	ErrCodeCreditExceeded    = shared.CodeCreditExceeded
	ErrCodeConflict          = shared.CodeConflict
	ErrCodeAlreadyExists     = shared.CodeAlreadyExists
	ErrCodeInternal          = shared.CodeInternal

	// Transport-level codes with no domain counterpart
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeTimeout         = "TIMEOUT"
	ErrCodeUnavailable     = "UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeNotFound:          http.StatusNotFound,
	ErrCodeValidation:        http.StatusBadRequest,
	ErrCodeAlreadyExists:     http.StatusConflict,
	ErrCodeConflict:          http.StatusConflict,
	ErrCodeState:             http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodeCreditExceeded:    http.StatusUnprocessableEntity,
	ErrCodeInternal:          http.StatusInternalServerError,

	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeForbidden:       http.StatusForbidden,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeTimeout:         http.StatusGatewayTimeout,
	ErrCodeUnavailable:     http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes are 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
