package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PensionBasis selects the earnings a pension contribution is charged on
type PensionBasis int

const (
	// QualifyingEarnings charges earnings between the lower and upper QE thresholds
	QualifyingEarnings PensionBasis = iota
	// PensionablePay charges all pensionable pay
	PensionablePay
)

func (b PensionBasis) String() string {
	if b == PensionablePay {
		return "pensionable_pay"
	}
	return "qualifying_earnings"
}

// TaxTreatment is how tax relief is given on employee contributions
type TaxTreatment int

const (
	// NetPayArrangement deducts the gross contribution before tax
	NetPayArrangement TaxTreatment = iota
	// ReliefAtSource deducts the contribution net of basic rate relief after tax
	ReliefAtSource
)

func (t TaxTreatment) String() string {
	if t == ReliefAtSource {
		return "relief_at_source"
	}
	return "net_pay"
}

// ParsePensionBasis parses "qualifying_earnings" or "pensionable_pay"
func ParsePensionBasis(s string) (PensionBasis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "qualifying_earnings", "qe":
		return QualifyingEarnings, nil
	case "pensionable_pay":
		return PensionablePay, nil
	}
	return 0, invalid("pension_basis", s, "unknown basis")
}

// ParseTaxTreatment parses "net_pay" or "relief_at_source"
func ParseTaxTreatment(s string) (TaxTreatment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "net_pay", "nps":
		return NetPayArrangement, nil
	case "relief_at_source", "ras":
		return ReliefAtSource, nil
	}
	return 0, invalid("tax_treatment", s, "unknown tax treatment")
}

// PensionReferenceData is the auto-enrolment payload for one date range
type PensionReferenceData struct {
	LowerQualifyingEarnings ThresholdEntry  `json:"lower_qualifying_earnings"`
	UpperQualifyingEarnings ThresholdEntry  `json:"upper_qualifying_earnings"`
	BasicRateRelief         decimal.Decimal `json:"basic_rate_relief"`
}

// PensionScheme is an employee's scheme membership
type PensionScheme struct {
	Name         string          `json:"name"`
	Basis        PensionBasis    `json:"basis"`
	TaxTreatment TaxTreatment    `json:"tax_treatment"`
	EmployeeRate decimal.Decimal `json:"employee_rate"`
	EmployerRate decimal.Decimal `json:"employer_rate"`
}

// Validate rejects negative or greater-than-one rates
func (s PensionScheme) Validate() error {
	for name, r := range map[string]decimal.Decimal{"employee_rate": s.EmployeeRate, "employer_rate": s.EmployerRate} {
		if r.IsNegative() || r.GreaterThan(decimal.NewFromInt(1)) {
			return invalid(name, r, "must be between 0 and 1")
		}
	}
	return nil
}

// PensionInputs are the per-period inputs to a pension calculation
type PensionInputs struct {
	Scheme         PensionScheme   `json:"scheme"`
	PensionablePay decimal.Decimal `json:"pensionable_pay"`
}

// PensionResult is the immutable outcome of one pension calculation
type PensionResult struct {
	Scheme                string          `json:"scheme"`
	Basis                 PensionBasis    `json:"basis"`
	TaxTreatment          TaxTreatment    `json:"tax_treatment"`
	PensionablePay        decimal.Decimal `json:"pensionable_pay"`
	LowerThreshold        decimal.Decimal `json:"lower_threshold"`
	UpperThreshold        decimal.Decimal `json:"upper_threshold"`
	ContributableEarnings decimal.Decimal `json:"contributable_earnings"`
	// EmployeeContributionGross is before any relief at source
	EmployeeContributionGross decimal.Decimal `json:"employee_contribution_gross"`
	// EmployeeDeduction is what is taken from pay: gross for net pay, net of relief for RAS
	EmployeeDeduction    decimal.Decimal `json:"employee_deduction"`
	EmployerContribution decimal.Decimal `json:"employer_contribution"`
}

// String helps log lines
func (r PensionResult) String() string {
	return fmt.Sprintf("%s %s: employee %s employer %s", r.Scheme, r.Basis, r.EmployeeDeduction.StringFixed(2), r.EmployerContribution.StringFixed(2))
}
