package domain

import "time"

// MaxDate is the open-ended ValidTo of the latest window in a collection
var MaxDate = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// ApplicabilityWindow binds a reference data payload to the dates and
// jurisdictions it applies to. Both ends of the date range are inclusive.
// Windows are built once at load time and never mutated.
type ApplicabilityWindow[T any] struct {
	ValidFrom     time.Time  `json:"valid_from"`
	ValidTo       time.Time  `json:"valid_to"`
	Jurisdictions CountrySet `json:"jurisdictions"`
	Payload       T          `json:"payload"`
}

// Covers reports whether the window applies on date for jurisdiction c
func (w ApplicabilityWindow[T]) Covers(date time.Time, c Country) bool {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(w.ValidFrom) && !day.After(w.ValidTo) && w.Jurisdictions.Contains(c)
}

// IsOpenEnded reports whether the window has no end date
func (w ApplicabilityWindow[T]) IsOpenEnded() bool {
	return !w.ValidTo.Before(MaxDate)
}
