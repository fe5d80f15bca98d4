// Package apperror defines the failure kinds returned by the data layer.
//
// Every operation either succeeds or returns an error wrapping exactly one of
// the sentinels below. Callers branch with errors.Is:
//
//	if errors.Is(err, apperror.ErrNotFound) { ... }
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrStorage    = errors.New("storage error")
)

type AppError struct {
	Err     error  // sentinel kind
	Cause   error  // underlying driver error, if any
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes both the sentinel and the cause, so errors.Is matches the
// kind and errors.As can still reach the driver error.
func (e *AppError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict with id %s", resource, id),
	}
}

// Storage wraps an engine failure. op names the statement or step that failed,
// e.g. "inserting order".
func Storage(op string, cause error) *AppError {
	return &AppError{
		Err:     ErrStorage,
		Cause:   cause,
		Message: "storage: " + op,
	}
}
