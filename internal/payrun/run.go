package payrun

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ukpaye/payroll-engine/internal/domain"
)

// Run is the outcome of one pay run. It is built once by Engine.Run and not
// modified afterwards.
type Run struct {
	ID              uuid.UUID             `json:"id"`
	PayDate         time.Time             `json:"pay_date"`
	TaxYear         string                `json:"tax_year"`
	SmallEmployer   bool                  `json:"small_employer"`
	ReferenceSource string                `json:"reference_source"`
	Payslips        []Payslip             `json:"payslips"`
	Reclaim         *domain.ReclaimResult `json:"reclaim,omitempty"`
	Totals          Totals                `json:"totals"`
}

// Payslip holds every deduction worked out for one employee in the run
type Payslip struct {
	EmployeeID string              `json:"employee_id"`
	Name       string              `json:"name"`
	Country    domain.Country      `json:"country"`
	Frequency  domain.PayFrequency `json:"frequency"`
	Period     int                 `json:"period"`
	GrossPay   decimal.Decimal     `json:"gross_pay"`

	Pension     *domain.PensionResult          `json:"pension,omitempty"`
	Tax         *domain.TaxResult              `json:"tax"`
	Ni          *domain.NiResult               `json:"ni"`
	StudentLoan *domain.StudentLoanResult      `json:"student_loan,omitempty"`
	Attachments []domain.AttachmentOrderResult `json:"attachments,omitempty"`
	Reclaim     *domain.ReclaimResult          `json:"reclaim,omitempty"`

	// AttachableEarnings is gross pay less tax, employee NI and pension deductions
	AttachableEarnings decimal.Decimal `json:"attachable_earnings"`
	TotalDeductions    decimal.Decimal `json:"total_deductions"`
	NetPay             decimal.Decimal `json:"net_pay"`

	// Ytd is the year-to-date position after this period
	Ytd      domain.EmployeeYtd `json:"ytd"`
	Warnings []string           `json:"warnings,omitempty"`
}

// IncomeTax returns the tax deducted this period
func (p Payslip) IncomeTax() decimal.Decimal {
	if p.Tax == nil {
		return decimal.Zero
	}
	return p.Tax.FinalTaxDue
}

// EmployeeNi returns the employee NI deducted this period
func (p Payslip) EmployeeNi() decimal.Decimal {
	if p.Ni == nil {
		return decimal.Zero
	}
	return p.Ni.EmployeeContribution
}

// EmployerNi returns the employer NI due this period
func (p Payslip) EmployerNi() decimal.Decimal {
	if p.Ni == nil {
		return decimal.Zero
	}
	return p.Ni.EmployerContribution
}

// PensionDeduction returns the employee pension contribution taken from pay
func (p Payslip) PensionDeduction() decimal.Decimal {
	if p.Pension == nil {
		return decimal.Zero
	}
	return p.Pension.EmployeeDeduction
}

// EmployerPension returns the employer pension contribution
func (p Payslip) EmployerPension() decimal.Decimal {
	if p.Pension == nil {
		return decimal.Zero
	}
	return p.Pension.EmployerContribution
}

// StudentLoanDeduction returns plan and postgraduate repayments together
func (p Payslip) StudentLoanDeduction() decimal.Decimal {
	if p.StudentLoan == nil {
		return decimal.Zero
	}
	return p.StudentLoan.TotalDeduction
}

// AttachmentDeduction returns the total taken under attachment orders
func (p Payslip) AttachmentDeduction() decimal.Decimal {
	total := decimal.Zero
	for _, a := range p.Attachments {
		total = total.Add(a.Deduction)
	}
	return total
}

// Totals sums the payslips of a run
type Totals struct {
	Employees       int             `json:"employees"`
	GrossPay        decimal.Decimal `json:"gross_pay"`
	IncomeTax       decimal.Decimal `json:"income_tax"`
	EmployeeNi      decimal.Decimal `json:"employee_ni"`
	EmployerNi      decimal.Decimal `json:"employer_ni"`
	StudentLoans    decimal.Decimal `json:"student_loans"`
	EmployeePension decimal.Decimal `json:"employee_pension"`
	EmployerPension decimal.Decimal `json:"employer_pension"`
	Attachments     decimal.Decimal `json:"attachments"`
	NetPay          decimal.Decimal `json:"net_pay"`
}

func (t Totals) add(p Payslip) Totals {
	t.Employees++
	t.GrossPay = t.GrossPay.Add(p.GrossPay)
	t.IncomeTax = t.IncomeTax.Add(p.IncomeTax())
	t.EmployeeNi = t.EmployeeNi.Add(p.EmployeeNi())
	t.EmployerNi = t.EmployerNi.Add(p.EmployerNi())
	t.StudentLoans = t.StudentLoans.Add(p.StudentLoanDeduction())
	t.EmployeePension = t.EmployeePension.Add(p.PensionDeduction())
	t.EmployerPension = t.EmployerPension.Add(p.EmployerPension())
	t.Attachments = t.Attachments.Add(p.AttachmentDeduction())
	t.NetPay = t.NetPay.Add(p.NetPay)
	return t
}

// EmployeeError identifies the employee and period a calculation failed for
type EmployeeError struct {
	EmployeeID string
	PayDate    time.Time
	Period     int
	Err        error
}

func (e *EmployeeError) Error() string {
	if e.Period > 0 {
		return fmt.Sprintf("employee %s, pay date %s, period %d: %v", e.EmployeeID, e.PayDate.Format("2006-01-02"), e.Period, e.Err)
	}
	return fmt.Sprintf("employee %s, pay date %s: %v", e.EmployeeID, e.PayDate.Format("2006-01-02"), e.Err)
}

func (e *EmployeeError) Unwrap() error { return e.Err }
