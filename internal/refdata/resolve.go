// Package refdata selects the reference data window that applies to a pay
// date and jurisdiction, and validates collections when they are loaded.
package refdata

import (
	"time"

	"github.com/ukpaye/payroll-engine/internal/domain"
)

// Resolve returns the payload of the single window in windows that covers
// onDate for jurisdiction c. Zero matches and multiple matches are both
// errors; the caller gets a *domain.ReferenceDataError naming the collection.
func Resolve[T any](collection string, windows []domain.ApplicabilityWindow[T], onDate time.Time, c domain.Country) (T, error) {
	var (
		found   T
		matches int
	)
	for _, w := range windows {
		if w.Covers(onDate, c) {
			matches++
			if matches == 1 {
				found = w.Payload
			}
		}
	}

	switch matches {
	case 1:
		return found, nil
	case 0:
		var zero T
		return zero, &domain.ReferenceDataError{
			Collection: collection, Date: onDate, Jurisdiction: c,
			Err: domain.ErrNoApplicableReferenceData,
		}
	default:
		var zero T
		return zero, &domain.ReferenceDataError{
			Collection: collection, Date: onDate, Jurisdiction: c, Matches: matches,
			Err: domain.ErrAmbiguousReferenceData,
		}
	}
}

// Window is like Resolve but returns the matching window itself, so callers
// can report the date range that was used.
func Window[T any](collection string, windows []domain.ApplicabilityWindow[T], onDate time.Time, c domain.Country) (domain.ApplicabilityWindow[T], error) {
	idx := -1
	matches := 0
	for i, w := range windows {
		if w.Covers(onDate, c) {
			matches++
			idx = i
		}
	}
	if matches == 1 {
		return windows[idx], nil
	}
	err := &domain.ReferenceDataError{Collection: collection, Date: onDate, Jurisdiction: c, Matches: matches, Err: domain.ErrNoApplicableReferenceData}
	if matches > 1 {
		err.Err = domain.ErrAmbiguousReferenceData
	}
	return domain.ApplicabilityWindow[T]{}, err
}
