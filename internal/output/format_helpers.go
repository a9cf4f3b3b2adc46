package output

import (
	"strconv"

	"github.com/shopspring/decimal"

	pd "github.com/ukpaye/payroll-engine/pkg/decimal"
)

// FormatCurrency formats a decimal as sterling with 2 decimals.
// Kept here so it can be reused by multiple formatters and unit tested in isolation.
func FormatCurrency(amount decimal.Decimal) string { return pd.NewMoney(amount).Format() }

// FormatPercentage formats a fractional rate (0.05) as a percentage with 2 decimals.
func FormatPercentage(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }
