// ABOUTME: Error taxonomy for the pipeline core
// ABOUTME: Validation, not-found, terminal-state, and persistence errors
package pipeline

import (
	"errors"
	"fmt"

	"github.com/harperreed/pipecrm/models"
)

var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrItemNotFound     = errors.New("checklist item not found")

	// ErrTerminalStatus is returned when a lifecycle transition is attempted
	// on an activity that is already completed or cancelled.
	ErrTerminalStatus = errors.New("activity is in a terminal status")
)

// ValidationError blocks a mutation locally; no write is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// PersistError signals that a persist failed after the optimistic local
// mutation was already applied. Applied carries the aggregate as it exists
// locally so the caller can reconcile (typically by reloading); the core
// performs no automatic rollback.
type PersistError struct {
	Op      string
	Applied *models.Opportunity
	Err     error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist failed during %s: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}
