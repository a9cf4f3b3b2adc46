package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// StatutoryPaymentType identifies a reclaimable statutory payment. Every type
// has its own value and its own serialised name; no aliases share a value.
type StatutoryPaymentType int

const (
	StatutoryMaternityPay StatutoryPaymentType = iota + 1
	StatutoryPaternityPay
	StatutoryAdoptionPay
	StatutorySharedParentalPay
	StatutoryParentalBereavementPay
	StatutoryNeonatalCarePay
)

var statutoryPaymentNames = map[StatutoryPaymentType]string{
	StatutoryMaternityPay:           "SMP",
	StatutoryPaternityPay:           "SPP",
	StatutoryAdoptionPay:            "SAP",
	StatutorySharedParentalPay:      "ShPP",
	StatutoryParentalBereavementPay: "SPBP",
	StatutoryNeonatalCarePay:        "SNCP",
}

func (t StatutoryPaymentType) String() string {
	if n, ok := statutoryPaymentNames[t]; ok {
		return n
	}
	return fmt.Sprintf("StatutoryPaymentType(%d)", int(t))
}

// Valid reports whether t is a known payment type
func (t StatutoryPaymentType) Valid() bool {
	_, ok := statutoryPaymentNames[t]
	return ok
}

// ParseStatutoryPaymentType parses "SMP", "shpp" etc.
func ParseStatutoryPaymentType(s string) (StatutoryPaymentType, error) {
	n := strings.TrimSpace(s)
	for t, name := range statutoryPaymentNames {
		if strings.EqualFold(name, n) {
			return t, nil
		}
	}
	return 0, invalid("statutory_payment_type", s, "unknown statutory payment")
}

// MarshalText implements encoding.TextMarshaler
func (t StatutoryPaymentType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (t *StatutoryPaymentType) UnmarshalText(text []byte) error {
	parsed, err := ParseStatutoryPaymentType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ReclaimReferenceData holds employer reclaim rates for one date range
type ReclaimReferenceData struct {
	// StandardRate is the fraction of statutory payments an employer recovers
	StandardRate decimal.Decimal `json:"standard_rate"`
	// SmallEmployerCompensationRate is paid on top of full recovery to small employers
	SmallEmployerCompensationRate decimal.Decimal `json:"small_employer_compensation_rate"`
	// SmallEmployerThreshold is the Class 1 NI limit for small employer relief
	SmallEmployerThreshold decimal.Decimal `json:"small_employer_threshold"`
}

// StatutoryPayment is an amount of statutory pay made in the period
type StatutoryPayment struct {
	Type   StatutoryPaymentType `json:"type"`
	Amount decimal.Decimal      `json:"amount"`
}

// ReclaimLine is the reclaim on one payment type
type ReclaimLine struct {
	Type         StatutoryPaymentType `json:"type"`
	Paid         decimal.Decimal      `json:"paid"`
	Recovered    decimal.Decimal      `json:"recovered"`
	Compensation decimal.Decimal      `json:"compensation"`
}

// ReclaimResult is the immutable outcome of a reclaim calculation
type ReclaimResult struct {
	SmallEmployer     bool            `json:"small_employer"`
	Lines             []ReclaimLine   `json:"lines"`
	TotalRecovered    decimal.Decimal `json:"total_recovered"`
	TotalCompensation decimal.Decimal `json:"total_compensation"`
}
