/*
errors.go - Centralized error types for the ledger engine

PURPOSE:
  All ledger error types in one place. Callers classify errors with
  errors.Is / errors.As; the API layer maps classes to HTTP status codes.

ERROR CATEGORIES:
  1. Validation errors - caller-correctable input problems, rejected
     before any mutation
  2. Structural errors - unknown collection names on privileged clears
  3. Store errors - persistence failures, surfaced wrapped

SEE ALSO:
  - ledger.go: Validates inputs before mutating
  - api/handlers.go: Maps these to HTTP responses
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrBlankSupplier is returned when a payment names no supplier.
	ErrBlankSupplier = errors.New("supplier name is blank")

	// ErrNonPositiveAmount is returned when a payment amount is zero or
	// negative. Payments must move money.
	ErrNonPositiveAmount = errors.New("payment amount must be positive")

	// ErrBlankCustomer is returned when a posted transaction has no
	// customer name.
	ErrBlankCustomer = errors.New("customer name is blank")

	// ErrNegativeCost is returned when a transaction's repair cost is
	// negative.
	ErrNegativeCost = errors.New("repair cost must not be negative")

	// ErrUnknownCollection is returned when a clear targets a collection
	// the ledger does not own.
	ErrUnknownCollection = errors.New("unknown collection")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports which field failed validation and why.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation returns true if the error is caller-correctable input.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) ||
		errors.Is(err, ErrBlankSupplier) ||
		errors.Is(err, ErrNonPositiveAmount) ||
		errors.Is(err, ErrBlankCustomer) ||
		errors.Is(err, ErrNegativeCost)
}
