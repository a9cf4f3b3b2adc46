package domain

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoApplicableReferenceData is returned when no reference data window
	// covers the requested date and jurisdiction.
	ErrNoApplicableReferenceData = errors.New("no applicable reference data")

	// ErrAmbiguousReferenceData is returned when more than one window covers
	// the requested date and jurisdiction. Overlapping windows are a data bug.
	ErrAmbiguousReferenceData = errors.New("ambiguous reference data")

	// ErrInconsistentData is returned when reference data is internally
	// inconsistent or does not cover what a calculation needs.
	ErrInconsistentData = errors.New("inconsistent reference data")

	// ErrInvalidInput is returned when a calculation input is out of range.
	ErrInvalidInput = errors.New("invalid input")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidInputError identifies the offending parameter of a rejected input.
type InvalidInputError struct {
	Parameter string
	Value     any
	Reason    string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Parameter, e.Value, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// ReferenceDataError describes a failed reference data lookup.
type ReferenceDataError struct {
	Collection   string
	Date         time.Time
	Jurisdiction Country
	Matches      int
	Err          error
}

func (e *ReferenceDataError) Error() string {
	return fmt.Sprintf("%s: %s on %s for %s (%d matching windows)",
		e.Collection, e.Err, e.Date.Format("2006-01-02"), e.Jurisdiction, e.Matches)
}

func (e *ReferenceDataError) Unwrap() error { return e.Err }

// invalid is a shorthand for building an InvalidInputError.
func invalid(parameter string, value any, reason string) error {
	return &InvalidInputError{Parameter: parameter, Value: value, Reason: reason}
}
