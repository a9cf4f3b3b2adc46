package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AttachmentRateType is how a rate table band turns earnings into a deduction
type AttachmentRateType int

const (
	// FlatPercentage deducts Rate x available earnings
	FlatPercentage AttachmentRateType = iota
	// FixedPlusPercentage deducts FixedAmount + Rate x (available earnings - band lower bound)
	FixedPlusPercentage
)

func (t AttachmentRateType) String() string {
	if t == FixedPlusPercentage {
		return "fixed_plus_percentage"
	}
	return "percentage"
}

// ParseAttachmentRateType parses "percentage" or "fixed_plus_percentage"
func ParseAttachmentRateType(s string) (AttachmentRateType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "percentage", "flat_percentage":
		return FlatPercentage, nil
	case "fixed_plus_percentage":
		return FixedPlusPercentage, nil
	}
	return 0, invalid("rate_type", s, "unknown attachment rate type")
}

// AttachmentRateBand is one row of an attachment order rate table. A band
// covers earnings above Lower up to and including Upper; a band starting at
// zero also covers zero. Fixed-plus-percentage bands charge FixedAmount plus
// Rate on the earnings above Lower.
type AttachmentRateBand struct {
	Lower       decimal.Decimal    `json:"lower"`
	Upper       *decimal.Decimal   `json:"upper,omitempty"`
	RateType    AttachmentRateType `json:"rate_type"`
	Rate        decimal.Decimal    `json:"rate"`
	FixedAmount decimal.Decimal    `json:"fixed_amount"`
}

// Contains reports whether earnings fall in the band
func (b AttachmentRateBand) Contains(earnings decimal.Decimal) bool {
	if b.Lower.IsZero() {
		if earnings.IsNegative() {
			return false
		}
	} else if !earnings.GreaterThan(b.Lower) {
		return false
	}
	return b.Upper == nil || earnings.LessThanOrEqual(*b.Upper)
}

// AttachmentRateTable is a deduction table per pay frequency
type AttachmentRateTable struct {
	ID          string                                `json:"id"`
	Description string                                `json:"description"`
	Bands       map[PayFrequency][]AttachmentRateBand `json:"bands"`
}

// Lookup returns the band containing earnings for frequency f
func (t AttachmentRateTable) Lookup(f PayFrequency, earnings decimal.Decimal) (AttachmentRateBand, error) {
	bands, ok := t.Bands[f]
	if !ok {
		return AttachmentRateBand{}, fmt.Errorf("%w: table %s has no %s bands", ErrInconsistentData, t.ID, f)
	}
	for _, b := range bands {
		if b.Contains(earnings) {
			return b, nil
		}
	}
	return AttachmentRateBand{}, fmt.Errorf("%w: table %s has no %s band for %s", ErrInconsistentData, t.ID, f, earnings.StringFixed(2))
}

// AttachmentReferenceData is the attachment order payload for one date range
type AttachmentReferenceData struct {
	Tables map[string]AttachmentRateTable `json:"tables"`
}

// AttachmentOrder is a court or agency order against an employee's pay
type AttachmentOrder struct {
	ID        string `json:"id"`
	Reference string `json:"reference"`
	TableID   string `json:"table_id"`
	// Priority orders deductions: lower numbers are applied first
	Priority int `json:"priority"`
	// ProtectedEarnings is the per-period amount the order may not reduce pay below
	ProtectedEarnings decimal.Decimal `json:"protected_earnings"`
	// OutstandingBalance caps the deduction; nil means no cap
	OutstandingBalance *decimal.Decimal `json:"outstanding_balance,omitempty"`
}

// AttachmentOrderResult is the immutable outcome for one order in one period
type AttachmentOrderResult struct {
	OrderID            string             `json:"order_id"`
	TableID            string             `json:"table_id"`
	Priority           int                `json:"priority"`
	AttachableEarnings decimal.Decimal    `json:"attachable_earnings"`
	PreviousDeductions decimal.Decimal    `json:"previous_deductions"`
	AvailableEarnings  decimal.Decimal    `json:"available_earnings"`
	BandLower          decimal.Decimal    `json:"band_lower"`
	RateType           AttachmentRateType `json:"rate_type"`
	Rate               decimal.Decimal    `json:"rate"`
	FixedAmount        decimal.Decimal    `json:"fixed_amount"`
	TableDeduction     decimal.Decimal    `json:"table_deduction"`
	Deduction          decimal.Decimal    `json:"deduction"`
	// BalanceRemaining is nil when the order has no outstanding balance cap
	BalanceRemaining *decimal.Decimal `json:"balance_remaining,omitempty"`
}
