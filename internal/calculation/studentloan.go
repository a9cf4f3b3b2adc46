package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/ukpaye/payroll-engine/internal/domain"
	pd "github.com/ukpaye/payroll-engine/pkg/decimal"
)

// StudentLoanCalculator calculates plan and postgraduate loan repayments
type StudentLoanCalculator struct {
	frequency domain.PayFrequency
	data      domain.StudentLoanReferenceData
	logger    Logger
}

// NewStudentLoanCalculator creates a loan calculator over already resolved reference data
func NewStudentLoanCalculator(f domain.PayFrequency, data domain.StudentLoanReferenceData, logger Logger) *StudentLoanCalculator {
	return &StudentLoanCalculator{frequency: f, data: data, logger: loggerOrNop(logger)}
}

// Calculate works out the plan and postgraduate deductions independently;
// both can be due in the same period. Each is rounded down to whole pounds.
func (sc *StudentLoanCalculator) Calculate(in domain.StudentLoanInputs) (*domain.StudentLoanResult, error) {
	if in.Earnings.IsNegative() {
		return nil, invalidInput("earnings", in.Earnings, "must not be negative")
	}

	res := &domain.StudentLoanResult{
		Plan:            in.Plan,
		Earnings:        in.Earnings,
		HasPostgraduate: in.HasPostgraduate,
	}

	if in.Plan != domain.NoStudentLoan {
		rate, ok := sc.data.Plans[in.Plan]
		if !ok {
			return nil, inconsistent("no thresholds for student loan %s", in.Plan)
		}
		threshold, deduction, err := loanDeduction(rate, sc.frequency, in.Earnings)
		if err != nil {
			return nil, err
		}
		res.PlanThreshold = threshold
		res.PlanDeduction = deduction
	}

	if in.HasPostgraduate {
		threshold, deduction, err := loanDeduction(sc.data.Postgraduate, sc.frequency, in.Earnings)
		if err != nil {
			return nil, err
		}
		res.PostgraduateThreshold = threshold
		res.PostgraduateDeduction = deduction
	}

	res.TotalDeduction = res.PlanDeduction.Add(res.PostgraduateDeduction)
	if res.TotalDeduction.IsPositive() {
		sc.logger.Debugf("student loan: %s earnings %s plan %s postgraduate %s", in.Plan,
			in.Earnings.StringFixed(2), res.PlanDeduction.StringFixed(2), res.PostgraduateDeduction.StringFixed(2))
	}
	return res, nil
}

func loanDeduction(rate domain.LoanRate, f domain.PayFrequency, earnings decimal.Decimal) (threshold, deduction decimal.Decimal, err error) {
	threshold, err = rate.Threshold.ForFrequency(f)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if !earnings.GreaterThan(threshold) {
		return threshold, decimal.Zero, nil
	}
	return threshold, pd.TruncatePounds(earnings.Sub(threshold).Mul(rate.Rate)), nil
}
