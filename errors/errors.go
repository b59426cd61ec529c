// Package errors provides error handling for hdcat.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for user-facing messages
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrStepNotFound) {
//	    // handle unregistered step
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	"strings"

	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapOnce    = crdb.UnwrapOnce
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

// Sentinel errors forming the converter's error taxonomy.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrSourceNotFound indicates the input location does not resolve to a
	// readable resource
	ErrSourceNotFound = New("source not found")

	// ErrStepNotFound indicates a lookup for an unregistered step name
	ErrStepNotFound = New("step not found")

	// ErrStructuralInvalid indicates input that is not shaped as expected
	// (not a record set, or a malformed tabular source)
	ErrStructuralInvalid = New("structurally invalid input")

	// ErrValidationFailed indicates the record set failed field validation;
	// the wrapped message carries the full collected error list
	ErrValidationFailed = New("validation failed")

	// ErrDiscoveryUnavailable indicates the step-modules location could not
	// be scanned. Never returned by Load; only logged as a warning.
	ErrDiscoveryUnavailable = New("step discovery unavailable")
)

// IsNotFound checks if an error is or wraps either not-found sentinel.
func IsNotFound(err error) bool {
	return err != nil && IsAny(err, ErrSourceNotFound, ErrStepNotFound)
}

// IsStepNotFound checks if an error is or wraps ErrStepNotFound
func IsStepNotFound(err error) bool {
	return err != nil && Is(err, ErrStepNotFound)
}

// IsStructuralInvalid checks if an error is or wraps ErrStructuralInvalid
func IsStructuralInvalid(err error) bool {
	return err != nil && Is(err, ErrStructuralInvalid)
}

// IsValidationFailed checks if an error is or wraps ErrValidationFailed
func IsValidationFailed(err error) bool {
	return err != nil && Is(err, ErrValidationFailed)
}

// NewStepNotFoundError creates a step-not-found error naming the step
func NewStepNotFoundError(name string) error {
	return Wrapf(ErrStepNotFound, "step %q is not registered", name)
}

// NewSourceNotFoundError creates a source-not-found error naming the location
func NewSourceNotFoundError(path string) error {
	return Wrapf(ErrSourceNotFound, "source file %q", path)
}

// NewValidationFailedError aggregates collected field errors into the
// terminal validation failure. The individual messages are preserved in
// order, joined with "; ".
func NewValidationFailedError(errs []string) error {
	return Wrap(ErrValidationFailed, strings.Join(errs, "; "))
}
