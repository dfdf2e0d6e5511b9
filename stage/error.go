package stage

import (
	"context"
	"errors"
	"fmt"

	"github.com/universalpress/cascade/model"
)

// Class splits stage failures into retryable and non-retryable.
type Class int

const (
	// ClassTransient marks a recoverable external-call failure; the
	// resilient runtime retries it up to the configured budget.
	ClassTransient Class = iota
	// ClassFatal marks a non-recoverable failure; it aborts the stage
	// immediately without retry.
	ClassFatal
)

// Error is a stage-local failure carrying a transient/fatal classification
// hint for the resilient runtime.
type Error struct {
	Kind  Kind
	Class Class
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewTransient wraps err as a retryable failure of the given stage.
func NewTransient(kind Kind, err error) error {
	return &Error{Kind: kind, Class: ClassTransient, Err: err}
}

// NewFatal wraps err as a non-retryable failure of the given stage.
func NewFatal(kind Kind, err error) error {
	return &Error{Kind: kind, Class: ClassFatal, Err: err}
}

// Transientf is a convenience formatter for NewTransient.
func Transientf(kind Kind, format string, args ...interface{}) error {
	return NewTransient(kind, fmt.Errorf(format, args...))
}

// Fatalf is a convenience formatter for NewFatal.
func Fatalf(kind Kind, format string, args ...interface{}) error {
	return NewFatal(kind, fmt.Errorf(format, args...))
}

// ExhaustedError is raised by the resilient runtime when the retry budget is
// spent; it carries the last underlying error and the attempt count.
type ExhaustedError struct {
	Kind     Kind
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("stage %s failed after %d attempts: %v", e.Kind, e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

// IsTransient is the default failure classifier: validation errors and
// explicit fatal classifications abort immediately, timeouts and everything
// else are treated as recoverable external-call failures.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var validation *model.ValidationError
	if errors.As(err, &validation) {
		return false
	}
	var exhausted *ExhaustedError
	if errors.As(err, &exhausted) {
		return false
	}
	var stageErr *Error
	if errors.As(err, &stageErr) {
		return stageErr.Class == ClassTransient
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return true
}
