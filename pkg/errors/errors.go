// Package errors defines the domain error values shared across the CLI and
// the analysis pipeline. Sentinels are checked with errors.Is; per-review
// soft failures are carried by AnalysisError so batch callers can report
// them item by item without aborting the run.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure categories.
var (
	// ErrNotFound indicates a requested row or period is absent.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates invalid user-supplied input.
	ErrValidation = errors.New("validation failed")
	// ErrAlreadyExists indicates an insert collided with an existing row.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotConfigured indicates a feature needs config that is absent.
	ErrNotConfigured = errors.New("not configured")
	// ErrUnavailable indicates a backing service could not be reached.
	ErrUnavailable = errors.New("service unavailable")
)

// IsNotFound returns true if err wraps ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsValidation returns true if err wraps ErrValidation.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotConfigured returns true if err wraps ErrNotConfigured.
func IsNotConfigured(err error) bool { return errors.Is(err, ErrNotConfigured) }

// NotFound wraps ErrNotFound with context.
func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrNotFound}, args...)...)
}

// Validation wraps ErrValidation with context.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}
