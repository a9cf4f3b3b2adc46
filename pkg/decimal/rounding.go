package decimal

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ROUNDING POLICIES
//
// Each calculator applies exactly one of the named policies below:
//
//   RoundTaxBand  - pro-rated band thresholds and cumulative band tax (4dp, toward zero)
//   RoundNi       - National Insurance band contributions (third-decimal rule)
//   RoundReclaim  - employer statutory payment reclaim (2dp, toward +Inf)
//
// The money helpers further down (TruncatePence, TruncatePounds, RoundPence,
// RoundUpPence) are the penny and pound conversions HMRC prescribes for
// taxable pay, tax due, loan deductions and pay adjustments.

// ErrNegativeNiValue is returned when RoundNi is given a negative amount.
// Negative band contributions indicate an upstream calculation bug.
var ErrNegativeNiValue = errors.New("NI rounding is undefined for negative values")

var (
	niHalfPenny = decimal.RequireFromString("0.005")
)

// RoundTaxBand rounds a pro-rated tax band value to four decimal places,
// toward zero. The value is first rounded to ten places so that binary noise
// such as 1.99999999996 resolves to 2.0000 rather than 1.9999.
func RoundTaxBand(value decimal.Decimal) decimal.Decimal {
	return value.Round(10).RoundDown(4)
}

// RoundNi rounds an NI contribution to pence using the third-decimal rule:
// a third decimal digit of 5 or less rounds down, 6 or more rounds up.
func RoundNi(value decimal.Decimal) (decimal.Decimal, error) {
	if value.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrNegativeNiValue, value.String())
	}
	truncated := value.RoundDown(2)
	frac := value.RoundDown(3).Sub(truncated)
	if frac.LessThanOrEqual(niHalfPenny) {
		return truncated, nil
	}
	return value.RoundUp(2), nil
}

// RoundReclaim rounds a statutory payment reclaim figure up to the next penny.
func RoundReclaim(value decimal.Decimal) decimal.Decimal {
	return value.RoundCeil(2)
}

// TruncatePence drops fractions of a penny.
func TruncatePence(value decimal.Decimal) decimal.Decimal {
	return value.RoundDown(2)
}

// TruncatePounds drops pence.
func TruncatePounds(value decimal.Decimal) decimal.Decimal {
	return value.RoundDown(0)
}

// RoundPence rounds to the nearest penny, half away from zero.
func RoundPence(value decimal.Decimal) decimal.Decimal {
	return value.Round(2)
}

// RoundUpPence rounds away from zero to the next penny.
func RoundUpPence(value decimal.Decimal) decimal.Decimal {
	return value.RoundUp(2)
}
