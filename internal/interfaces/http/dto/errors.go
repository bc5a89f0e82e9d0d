package dto

import (
	"net/http"
	"strings"
)

// Transport-level error codes. Domain errors carry their own codes; these
// cover failures that never reach the domain.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodePayloadSize  = "PAYLOAD_TOO_LARGE"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes. Codes
// not listed fall through to the prefix rules in GetHTTPStatus.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeValidation:  http.StatusBadRequest,
	ErrCodeRateLimited: http.StatusTooManyRequests,
	ErrCodePayloadSize: http.StatusRequestEntityTooLarge,

	"UNAUTHORIZED":        http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"INVALID_TOKEN":       http.StatusUnauthorized,
	"ACCOUNT_LOCKED":      http.StatusUnauthorized,
	"TENANT_INACTIVE":     http.StatusUnauthorized,
	"FORBIDDEN":           http.StatusForbidden,

	"NOT_FOUND": http.StatusNotFound,

	"ALREADY_EXISTS":        http.StatusConflict,
	"CONCURRENCY_CONFLICT":  http.StatusConflict,
	"OPTIMISTIC_LOCK_ERROR": http.StatusConflict,
	"DUPLICATE_SLOT":        http.StatusConflict,
	"DUPLICATE_NHS_NUMBER":  http.StatusConflict,
	"ROOM_OCCUPIED":         http.StatusConflict,
	"BUDGET_EXISTS":         http.StatusConflict,
	"CONTACT_EXISTS":        http.StatusConflict,

	"QUEUE_FULL":    http.StatusServiceUnavailable,
	"STORAGE_ERROR": http.StatusBadGateway,

	"INVALID_STATE": http.StatusUnprocessableEntity,

	"MISSING_COLUMNS": http.StatusBadRequest,
	"INVALID_FILE":    http.StatusBadRequest,
	"WEAK_PASSWORD":   http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// Validation codes map to 400, uniqueness codes to 409, and everything
// else is treated as a business rule violation (422).
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	if strings.HasSuffix(code, "_TAKEN") || strings.HasSuffix(code, "_EXISTS") {
		return http.StatusConflict
	}
	return http.StatusUnprocessableEntity
}
