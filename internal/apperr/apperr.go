// Package apperr defines the CLI-level error categories used by mulberry.
//
// Error taxonomy
//
//	UserError    – caused by missing or invalid user input (empty reading,
//	               non-numeric temperature, bad flag value, …).
//	               The CLI prints only the message. Exit code: 1.
//
//	ErrCancelled – the user deliberately aborted an interactive form.
//	               Exit code: 0 (not a failure).
//
// Failures talking to the inference service are *api.Error values and carry
// their own Transport/Protocol/Schema kind. Everything else is a plain Go
// error wrapped with fmt.Errorf("context: %w", err).
package apperr

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned when the user explicitly aborts an interactive
// operation.  The CLI should exit 0 rather than 1 when it sees this error.
var ErrCancelled = errors.New("operation cancelled")

// UserError represents an error caused by invalid or missing user input.
type UserError struct {
	Message string
}

func (e *UserError) Error() string { return e.Message }

// User creates a UserError with the given message.
func User(msg string) error { return &UserError{Message: msg} }

// Userf creates a formatted UserError.
func Userf(format string, args ...any) error {
	return &UserError{Message: fmt.Sprintf(format, args...)}
}

// IsUser reports whether err is (or wraps) a *UserError.
func IsUser(err error) bool {
	var u *UserError
	return errors.As(err, &u)
}
