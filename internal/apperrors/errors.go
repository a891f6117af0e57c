package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested ledger row could not be found.
var ErrNotFound = errors.New("row not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates a fingerprint collision with an already persisted row.
// Duplicates are an expected outcome of re-imports, not a fault.
var ErrDuplicate = errors.New("duplicate row")

// ErrStorage indicates an I/O-level storage fault. This is the only error
// class treated as fatal to the current operation.
var ErrStorage = errors.New("storage failure")

// AppError wraps an underlying error with a code and a stable message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
