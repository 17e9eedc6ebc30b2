package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInternal indicates an unexpected failure in a lower layer (storage, broker).
var ErrInternal = errors.New("internal error")

// Error categories. Every typed journal error matches exactly one of these via errors.Is.
var (
	// ErrInvariant covers unbalanced totals and illegal state transitions.
	ErrInvariant = errors.New("bookkeeping invariant violated")
	// ErrBusinessRule covers closed periods, missing periods and reversal rules.
	ErrBusinessRule = errors.New("business rule violated")
	// ErrConcurrency covers lock timeouts and serialization failures. Safe to retry.
	ErrConcurrency = errors.New("concurrency conflict")
	// ErrFatal marks detected partial state. Never recoverable.
	ErrFatal = errors.New("fatal invariant violation")
)

// AppError carries an HTTP-ish status code alongside a wrapped cause.
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

// NewAppError wraps err with a status code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// IsRetryable reports whether the caller may safely retry the failed operation.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrency)
}
