package domain

import "github.com/shopspring/decimal"

// NiYtdEntry is the year-to-date NI position under one category letter
type NiYtdEntry struct {
	Category              NiCategory          `json:"category"`
	GrossNicablePay       decimal.Decimal     `json:"gross_nicable_pay"`
	Earnings              NiEarningsBreakdown `json:"earnings"`
	EmployeeContributions decimal.Decimal     `json:"employee_contributions"`
	EmployerContributions decimal.Decimal     `json:"employer_contributions"`
}

// NiYtdHistory keeps one entry per NI category used in the tax year, in the
// order the categories were first used. Entries are never removed.
type NiYtdHistory struct {
	Entries []NiYtdEntry `json:"entries"`
}

// ForCategory returns the entry for c, or a zero entry if the category has not been used
func (h NiYtdHistory) ForCategory(c NiCategory) NiYtdEntry {
	for _, e := range h.Entries {
		if e.Category == c {
			return e
		}
	}
	return NiYtdEntry{Category: c}
}

// Record returns a new history with r folded into its category's entry.
// The receiver is not modified.
func (h NiYtdHistory) Record(r *NiResult) NiYtdHistory {
	entries := make([]NiYtdEntry, len(h.Entries), len(h.Entries)+1)
	copy(entries, h.Entries)

	idx := -1
	for i, e := range entries {
		if e.Category == r.Category {
			idx = i
			break
		}
	}
	if idx < 0 {
		entries = append(entries, NiYtdEntry{Category: r.Category})
		idx = len(entries) - 1
	}

	e := entries[idx]
	e.GrossNicablePay = e.GrossNicablePay.Add(r.GrossNicablePay)
	e.Earnings = e.Earnings.Add(r.Earnings)
	e.EmployeeContributions = e.EmployeeContributions.Add(r.EmployeeContribution)
	e.EmployerContributions = e.EmployerContributions.Add(r.EmployerContribution)
	entries[idx] = e
	return NiYtdHistory{Entries: entries}
}

// Totals sums all categories
func (h NiYtdHistory) Totals() (gross, employee, employer decimal.Decimal) {
	for _, e := range h.Entries {
		gross = gross.Add(e.GrossNicablePay)
		employee = employee.Add(e.EmployeeContributions)
		employer = employer.Add(e.EmployerContributions)
	}
	return gross, employee, employer
}

// EmployeeYtd is an employee's year-to-date figures, owned by the payroll
// driver. Calculators read it; only the pay run folds new results into it.
type EmployeeYtd struct {
	TaxYear                       int             `json:"tax_year"`
	LastPeriod                    int             `json:"last_period"`
	GrossPay                      decimal.Decimal `json:"gross_pay"`
	TaxablePay                    decimal.Decimal `json:"taxable_pay"`
	TaxPaid                       decimal.Decimal `json:"tax_paid"`
	TaxUnpaidDueToRegulatoryLimit decimal.Decimal `json:"tax_unpaid_due_to_regulatory_limit"`
	StudentLoan                   decimal.Decimal `json:"student_loan"`
	PostgraduateLoan              decimal.Decimal `json:"postgraduate_loan"`
	EmployeePension               decimal.Decimal `json:"employee_pension"`
	EmployerPension               decimal.Decimal `json:"employer_pension"`
	AttachmentOrders              decimal.Decimal `json:"attachment_orders"`
	Ni                            NiYtdHistory    `json:"ni"`
}
