package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ThresholdEntry holds an authority-published threshold for every pay
// frequency. Values are looked up, never derived by pro-rating.
type ThresholdEntry struct {
	PerWeek      decimal.Decimal `json:"per_week" yaml:"weekly"`
	PerTwoWeeks  decimal.Decimal `json:"per_two_weeks" yaml:"two_weekly"`
	PerFourWeeks decimal.Decimal `json:"per_four_weeks" yaml:"four_weekly"`
	PerMonth     decimal.Decimal `json:"per_month" yaml:"monthly"`
	PerQuarter   decimal.Decimal `json:"per_quarter" yaml:"quarterly"`
	PerHalfYear  decimal.Decimal `json:"per_half_year" yaml:"bi_annually"`
	PerYear      decimal.Decimal `json:"per_year" yaml:"annually"`
}

// ForFrequency returns the threshold for one pay period of frequency f
func (t ThresholdEntry) ForFrequency(f PayFrequency) (decimal.Decimal, error) {
	switch f {
	case Weekly:
		return t.PerWeek, nil
	case TwoWeekly:
		return t.PerTwoWeeks, nil
	case FourWeekly:
		return t.PerFourWeeks, nil
	case Monthly:
		return t.PerMonth, nil
	case Quarterly:
		return t.PerQuarter, nil
	case BiAnnually:
		return t.PerHalfYear, nil
	case Annually:
		return t.PerYear, nil
	default:
		return decimal.Zero, invalid("pay_frequency", f, "unknown pay frequency")
	}
}

// Validate checks that every frequency carries a non-negative value and that
// longer periods never have a smaller threshold than shorter ones.
func (t ThresholdEntry) Validate() error {
	prev := decimal.Zero
	for _, f := range AllPayFrequencies() {
		v, _ := t.ForFrequency(f)
		if v.IsNegative() {
			return fmt.Errorf("%w: negative %s threshold %s", ErrInconsistentData, f, v)
		}
		if v.LessThan(prev) {
			return fmt.Errorf("%w: %s threshold %s below shorter period's %s", ErrInconsistentData, f, v, prev)
		}
		prev = v
	}
	return nil
}
