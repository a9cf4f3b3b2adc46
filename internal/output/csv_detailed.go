package output

import (
	"bytes"
	"encoding/csv"

	"github.com/shopspring/decimal"

	"github.com/ukpaye/payroll-engine/internal/payrun"
)

// CSVDetailedExporter writes one row per deduction line, for import into a
// payroll journal.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(run *payrun.Run) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"EmployeeID", "Period", "Item", "Reference", "Amount", "EmployerPaid"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, p := range run.Payslips {
		period := intToString(p.Period)
		line := func(item, ref string, amount decimal.Decimal, employer bool) error {
			return w.Write([]string{p.EmployeeID, period, item, ref, amount.StringFixed(2), boolToString(employer)})
		}

		rows := []journalRow{
			{"gross_pay", "", p.GrossPay, false},
			{"income_tax", taxRef(p), p.IncomeTax(), false},
			{"employee_ni", niRef(p), p.EmployeeNi(), false},
			{"employer_ni", niRef(p), p.EmployerNi(), true},
		}
		if p.Pension != nil {
			rows = append(rows,
				journalRow{"employee_pension", p.Pension.Scheme, p.PensionDeduction(), false},
				journalRow{"employer_pension", p.Pension.Scheme, p.EmployerPension(), true},
			)
		}
		for _, r := range rows {
			if err := line(r.item, r.ref, r.amount, r.employer); err != nil {
				return nil, err
			}
		}
		if s := p.StudentLoan; s != nil {
			if err := line("student_loan", s.Plan.String(), s.PlanDeduction, false); err != nil {
				return nil, err
			}
			if s.HasPostgraduate {
				if err := line("postgraduate_loan", "", s.PostgraduateDeduction, false); err != nil {
					return nil, err
				}
			}
		}
		for _, a := range p.Attachments {
			if err := line("attachment_order", a.OrderID, a.Deduction, false); err != nil {
				return nil, err
			}
		}
		if err := line("net_pay", "", p.NetPay, false); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

type journalRow struct {
	item, ref string
	amount    decimal.Decimal
	employer  bool
}

func taxRef(p payrun.Payslip) string {
	if p.Tax == nil {
		return ""
	}
	return p.Tax.TaxCode
}

func niRef(p payrun.Payslip) string {
	if p.Ni == nil {
		return ""
	}
	return p.Ni.Category.String()
}
