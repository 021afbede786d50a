package dto

import "net/http"

// Error codes exposed by the API. Domain error codes pass through unchanged
// so clients can branch on the same taxonomy the engine uses internally.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeUnauthorized = "UNAUTHORIZED"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes. Stock shortage
// and quantity violations are business verdicts (422), transaction conflicts
// are retryable (409), everything unmapped is a 500.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,

	"NOT_FOUND":      http.StatusNotFound,
	"ALREADY_EXISTS": http.StatusConflict,

	"TRANSACTION_CONFLICT": http.StatusConflict,

	"INSUFFICIENT_STOCK":      http.StatusUnprocessableEntity,
	"NEGATIVE_INVENTORY":      http.StatusUnprocessableEntity,
	"BELOW_RESERVED_QUANTITY": http.StatusUnprocessableEntity,
	"NEGATIVE_AVAILABLE":      http.StatusUnprocessableEntity,

	"INVALID_QUANTITY":        http.StatusBadRequest,
	"INVALID_SKU":             http.StatusBadRequest,
	"INVALID_COST":            http.StatusBadRequest,
	"INVALID_ADJUSTMENT_TYPE": http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
