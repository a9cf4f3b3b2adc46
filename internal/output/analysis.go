package output

import (
	"github.com/shopspring/decimal"

	"github.com/ukpaye/payroll-engine/internal/payrun"
)

// Liability is what the employer owes HMRC for a pay run, laid out like an
// employer payment record.
type Liability struct {
	IncomeTax    decimal.Decimal
	EmployeeNi   decimal.Decimal
	EmployerNi   decimal.Decimal
	StudentLoans decimal.Decimal
	// Recovered and Compensation offset the amount due
	Recovered    decimal.Decimal
	Compensation decimal.Decimal
	NetDue       decimal.Decimal
	// EmployerCost is gross pay plus employer NI and employer pension
	EmployerCost decimal.Decimal
}

// AnalyzeRun totals the amounts due to HMRC from the run's payslips.
// Extracted from the console formatters for testability.
func AnalyzeRun(run *payrun.Run) Liability {
	t := run.Totals
	l := Liability{
		IncomeTax:    t.IncomeTax,
		EmployeeNi:   t.EmployeeNi,
		EmployerNi:   t.EmployerNi,
		StudentLoans: t.StudentLoans,
	}
	if run.Reclaim != nil {
		l.Recovered = run.Reclaim.TotalRecovered
		l.Compensation = run.Reclaim.TotalCompensation
	}
	l.NetDue = l.IncomeTax.Add(l.EmployeeNi).Add(l.EmployerNi).Add(l.StudentLoans).
		Sub(l.Recovered).Sub(l.Compensation)
	l.EmployerCost = t.GrossPay.Add(t.EmployerNi).Add(t.EmployerPension)
	return l
}
