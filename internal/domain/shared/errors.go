package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")

	// ErrTransactionConflict is returned when a transaction cannot acquire its
	// row locks in time or loses a serialization race. It is the only error
	// class a caller may retry automatically.
	ErrTransactionConflict = NewDomainError("TRANSACTION_CONFLICT", "Transaction conflict, operation may be retried")
)

// IsRetryable reports whether the error is a transient conflict the caller
// may retry. All other domain errors are permanent for the given input.
func IsRetryable(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == ErrTransactionConflict.Code
}
