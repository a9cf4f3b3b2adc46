package domain

import (
	"fmt"
	"strings"
)

// PayFrequency is how often an employee is paid
type PayFrequency int

const (
	Weekly PayFrequency = iota + 1
	TwoWeekly
	FourWeekly
	Monthly
	Quarterly
	BiAnnually
	Annually
)

var payFrequencyNames = map[PayFrequency]string{
	Weekly:     "weekly",
	TwoWeekly:  "two_weekly",
	FourWeekly: "four_weekly",
	Monthly:    "monthly",
	Quarterly:  "quarterly",
	BiAnnually: "bi_annually",
	Annually:   "annually",
}

// AllPayFrequencies lists every supported frequency in ascending period length
func AllPayFrequencies() []PayFrequency {
	return []PayFrequency{Weekly, TwoWeekly, FourWeekly, Monthly, Quarterly, BiAnnually, Annually}
}

// PeriodsPerYear returns the number of pay periods in a tax year
func (f PayFrequency) PeriodsPerYear() int {
	switch f {
	case Weekly:
		return 52
	case TwoWeekly:
		return 26
	case FourWeekly:
		return 13
	case Monthly:
		return 12
	case Quarterly:
		return 4
	case BiAnnually:
		return 2
	case Annually:
		return 1
	default:
		return 0
	}
}

// Valid reports whether f is a known frequency
func (f PayFrequency) Valid() bool {
	_, ok := payFrequencyNames[f]
	return ok
}

func (f PayFrequency) String() string {
	if name, ok := payFrequencyNames[f]; ok {
		return name
	}
	return fmt.Sprintf("PayFrequency(%d)", int(f))
}

// ParsePayFrequency converts a name such as "monthly" or "two-weekly" to a PayFrequency
func ParsePayFrequency(s string) (PayFrequency, error) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for f, name := range payFrequencyNames {
		if name == n {
			return f, nil
		}
	}
	return 0, &InvalidInputError{Parameter: "pay_frequency", Value: s, Reason: "unknown pay frequency"}
}

// MarshalText implements encoding.TextMarshaler
func (f PayFrequency) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("invalid pay frequency %d", int(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (f *PayFrequency) UnmarshalText(text []byte) error {
	parsed, err := ParsePayFrequency(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
