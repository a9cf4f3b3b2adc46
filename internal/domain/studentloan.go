package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// StudentLoanPlan identifies an undergraduate student loan repayment plan
type StudentLoanPlan int

const (
	NoStudentLoan StudentLoanPlan = iota
	Plan1
	Plan2
	Plan4
	Plan5
)

var studentLoanPlanNames = map[StudentLoanPlan]string{
	NoStudentLoan: "none",
	Plan1:         "plan1",
	Plan2:         "plan2",
	Plan4:         "plan4",
	Plan5:         "plan5",
}

func (p StudentLoanPlan) String() string {
	if n, ok := studentLoanPlanNames[p]; ok {
		return n
	}
	return fmt.Sprintf("StudentLoanPlan(%d)", int(p))
}

// ParseStudentLoanPlan accepts "plan2", "Plan 2", "2" or "none"
func ParseStudentLoanPlan(s string) (StudentLoanPlan, error) {
	n := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if n == "" {
		return NoStudentLoan, nil
	}
	if !strings.HasPrefix(n, "plan") && n != "none" {
		n = "plan" + n
	}
	for p, name := range studentLoanPlanNames {
		if name == n {
			return p, nil
		}
	}
	return 0, invalid("student_loan_plan", s, "unknown plan")
}

// MarshalText implements encoding.TextMarshaler
func (p StudentLoanPlan) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (p *StudentLoanPlan) UnmarshalText(text []byte) error {
	parsed, err := ParseStudentLoanPlan(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// LoanRate is a repayment threshold with the rate charged above it
type LoanRate struct {
	Threshold ThresholdEntry  `json:"threshold"`
	Rate      decimal.Decimal `json:"rate"`
}

// StudentLoanReferenceData is the student loan payload for one date range
type StudentLoanReferenceData struct {
	Plans        map[StudentLoanPlan]LoanRate `json:"plans"`
	Postgraduate LoanRate                     `json:"postgraduate"`
}

// StudentLoanInputs are the per-period inputs to a loan calculation
type StudentLoanInputs struct {
	Plan            StudentLoanPlan `json:"plan"`
	HasPostgraduate bool            `json:"has_postgraduate"`
	// Earnings is the period's NI-able pay, the basis HMRC uses for repayments
	Earnings decimal.Decimal `json:"earnings"`
}

// StudentLoanResult is the immutable outcome of one loan calculation
type StudentLoanResult struct {
	Plan                  StudentLoanPlan `json:"plan"`
	Earnings              decimal.Decimal `json:"earnings"`
	PlanThreshold         decimal.Decimal `json:"plan_threshold"`
	PlanDeduction         decimal.Decimal `json:"plan_deduction"`
	HasPostgraduate       bool            `json:"has_postgraduate"`
	PostgraduateThreshold decimal.Decimal `json:"postgraduate_threshold"`
	PostgraduateDeduction decimal.Decimal `json:"postgraduate_deduction"`
	TotalDeduction        decimal.Decimal `json:"total_deduction"`
}
