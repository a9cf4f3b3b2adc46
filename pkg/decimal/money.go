package decimal

import (
	"github.com/shopspring/decimal"
)

// Money is a sterling amount for display. Calculations stay on decimal.Decimal
// and apply their own rounding policy; Money only presents the result.
type Money struct {
	decimal.Decimal
}

// NewMoney wraps d
func NewMoney(d decimal.Decimal) Money {
	return Money{d}
}

// MustMoney parses value and panics if it is not a valid decimal. Intended for
// constants and tests.
func MustMoney(value string) Money {
	return Money{decimal.RequireFromString(value)}
}

// Round rounds the amount to pence, half away from zero
func (m Money) Round() Money {
	return Money{RoundPence(m.Decimal)}
}

// String returns the amount with exactly two decimal places
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format formats the amount as sterling, with a leading minus for negatives
func (m Money) Format() string {
	if m.IsNegative() {
		return "-£" + m.Decimal.Neg().StringFixed(2)
	}
	return "£" + m.String()
}
