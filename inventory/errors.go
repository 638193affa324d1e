/*
errors.go - Centralized error types for the inventory engine

PURPOSE:
  All error kinds in one place. Callers (HTTP layer, batch jobs) branch
  on three kinds to pick response semantics:
    ValidationError  → 400 bad request
    NotFoundError    → 404 not found
    InvalidStateError→ 409 conflict

  The classifier and aggregator functions are total and never fail on
  well-typed input; only the poster, the ledger, and the stores return
  errors.

USAGE:
  if inventory.IsNotFound(err) { ... }

  var verr *inventory.ValidationError
  if errors.As(err, &verr) { ... }

SEE ALSO:
  - poster.go: Produces ValidationError / InvalidStateError
  - ledger.go: Produces NotFoundError on unknown vouchers
*/
package inventory

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the root of all input-validation failures.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is the root of all missing-record failures.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState is returned when a lifecycle transition is not
	// allowed, e.g. cancelling an already-cancelled stock entry.
	ErrInvalidState = errors.New("invalid state")

	// ErrDuplicatePartNumber is returned when creating a material whose
	// part number already exists in the catalog.
	ErrDuplicatePartNumber = errors.New("duplicate part number")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError describes why an input was rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError identifies which record was missing.
type NotFoundError struct {
	Kind string // "material", "stock entry", "voucher", "material request"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InvalidStateError describes a rejected lifecycle transition.
type InvalidStateError struct {
	Kind    string
	ID      string
	Current string
	Attempt string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %s is %s: cannot %s", e.Kind, e.ID, e.Current, e.Attempt)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound reports whether err indicates a missing record.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict reports whether err indicates a state conflict.
func IsConflict(err error) bool { return errors.Is(err, ErrInvalidState) }

// IsClientError reports whether err is the caller's fault (as opposed
// to an internal failure).
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrDuplicatePartNumber)
}
