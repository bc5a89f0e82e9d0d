package csvimport

import "fmt"

// Row error codes
const (
	ErrCodeRequiredField  = "IMPORT_REQUIRED_FIELD"
	ErrCodeInvalidValue   = "IMPORT_INVALID_VALUE"
	ErrCodeDuplicate      = "IMPORT_DUPLICATE"
	ErrCodeSaveFailed     = "IMPORT_SAVE_FAILED"
	ErrCodeMalformedValue = "IMPORT_MALFORMED_VALUE"
)

// RowError describes why one row could not be imported
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Error implements the error interface
func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column %q: %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// NewRowError creates a row error
func NewRowError(row int, column, code, message string) RowError {
	return RowError{Row: row, Column: column, Code: code, Message: message}
}

// ErrorCollection accumulates row errors up to a cap so a pathological file
// cannot produce an unbounded response.
type ErrorCollection struct {
	errors    []RowError
	maxErrors int
	total     int
}

// NewErrorCollection creates a collection holding at most maxErrors entries
func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors < 1 {
		maxErrors = 100
	}
	return &ErrorCollection{
		errors:    make([]RowError, 0, maxErrors),
		maxErrors: maxErrors,
	}
}

// Add records an error, dropping detail past the cap but keeping the count
func (ec *ErrorCollection) Add(err RowError) {
	ec.total++
	if len(ec.errors) < ec.maxErrors {
		ec.errors = append(ec.errors, err)
	}
}

// Errors returns the collected errors
func (ec *ErrorCollection) Errors() []RowError {
	return ec.errors
}

// TotalCount returns the full error count including dropped detail
func (ec *ErrorCollection) TotalCount() int {
	return ec.total
}

// Truncated reports whether detail was dropped past the cap
func (ec *ErrorCollection) Truncated() bool {
	return ec.total > ec.maxErrors
}

// HasErrors reports whether anything was recorded
func (ec *ErrorCollection) HasErrors() bool {
	return ec.total > 0
}
