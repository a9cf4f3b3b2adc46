package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Employee holds the standing details that drive an employee's deductions
type Employee struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	BirthDate    *time.Time   `json:"birth_date,omitempty"`
	Country      Country      `json:"country"`
	PayFrequency PayFrequency `json:"pay_frequency"`
	TaxCode      string       `json:"tax_code"`
	NiCategory   NiCategory   `json:"ni_category"`

	// Directors' NI. DirectorAppointed is set for a director appointed during
	// the tax year; their annual earnings period runs from the appointment week.
	IsDirector        bool              `json:"is_director"`
	DirectorsNiMethod DirectorsNiMethod `json:"directors_ni_method"`
	DirectorAppointed *time.Time        `json:"director_appointed,omitempty"`

	StudentLoanPlan     StudentLoanPlan   `json:"student_loan_plan"`
	HasPostgraduateLoan bool              `json:"has_postgraduate_loan"`
	Pension             *PensionScheme    `json:"pension,omitempty"`
	AttachmentOrders    []AttachmentOrder `json:"attachment_orders,omitempty"`
}

// PeriodPay is what an employee is paid in one period
type PeriodPay struct {
	GrossPay decimal.Decimal `json:"gross_pay"`
	// PensionablePay defaults to GrossPay when nil
	PensionablePay    *decimal.Decimal   `json:"pensionable_pay,omitempty"`
	StatutoryPayments []StatutoryPayment `json:"statutory_payments,omitempty"`
	// IsFinalPeriod marks the last payment of the year or of employment
	IsFinalPeriod bool `json:"is_final_period"`
}

// EmployeePayInput is one employee's line in a pay run
type EmployeePayInput struct {
	Employee Employee    `json:"employee"`
	Pay      PeriodPay   `json:"pay"`
	Ytd      EmployeeYtd `json:"ytd"`
}

// PayrollInput is a pay run request from the payroll driver
type PayrollInput struct {
	PayDate       time.Time          `json:"pay_date"`
	SmallEmployer bool               `json:"small_employer"`
	Employees     []EmployeePayInput `json:"employees"`
}

// Validate rejects inputs a calculation could only guess at
func (e EmployeePayInput) Validate() error {
	emp := e.Employee
	if emp.ID == "" {
		return invalid("employee.id", emp.ID, "is required")
	}
	if !emp.Country.IsSingle() {
		return invalid("employee.country", emp.Country, "must be exactly one country")
	}
	if !emp.PayFrequency.Valid() {
		return invalid("employee.pay_frequency", emp.PayFrequency, "unknown pay frequency")
	}
	if emp.TaxCode == "" {
		return invalid("employee.tax_code", emp.TaxCode, "is required")
	}
	if emp.DirectorAppointed != nil && !emp.IsDirector {
		return invalid("employee.director_appointed", emp.DirectorAppointed.Format("2006-01-02"), "is only used for directors")
	}
	if emp.Pension != nil {
		if err := emp.Pension.Validate(); err != nil {
			return fmt.Errorf("employee %s pension: %w", emp.ID, err)
		}
	}
	if e.Pay.GrossPay.IsNegative() {
		return invalid("pay.gross_pay", e.Pay.GrossPay, "must not be negative")
	}
	if e.Pay.PensionablePay != nil && e.Pay.PensionablePay.IsNegative() {
		return invalid("pay.pensionable_pay", *e.Pay.PensionablePay, "must not be negative")
	}
	seen := make(map[string]bool, len(emp.AttachmentOrders))
	for _, o := range emp.AttachmentOrders {
		if o.ID == "" || seen[o.ID] {
			return invalid("attachment_order.id", o.ID, "must be present and unique")
		}
		seen[o.ID] = true
	}
	return nil
}

// PensionablePayOrGross returns the pensionable pay for the period
func (p PeriodPay) PensionablePayOrGross() decimal.Decimal {
	if p.PensionablePay != nil {
		return *p.PensionablePay
	}
	return p.GrossPay
}
