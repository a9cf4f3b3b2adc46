package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ukpaye/payroll-engine/internal/payrun"
)

// ConsoleVerboseFormatter renders a full payslip per employee, with the
// intermediate values behind every deduction, via the pluggable interface.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(run *payrun.Run) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	fmt.Fprintln(&buf, "PAY RUN PAYSLIPS")
	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	fmt.Fprintf(&buf, "Run:            %s\n", run.ID)
	fmt.Fprintf(&buf, "Pay date:       %s\n", run.PayDate.Format("2 January 2006"))
	fmt.Fprintf(&buf, "Tax year:       %s\n", run.TaxYear)
	fmt.Fprintf(&buf, "Reference data: %s\n", run.ReferenceSource)
	fmt.Fprintln(&buf)

	for _, p := range run.Payslips {
		writePayslip(&buf, p)
	}

	if run.Reclaim != nil {
		fmt.Fprintln(&buf, "STATUTORY PAYMENT RECOVERY")
		fmt.Fprintln(&buf, strings.Repeat("-", 40))
		for _, l := range run.Reclaim.Lines {
			fmt.Fprintf(&buf, "  %-5s paid %s recovered %s compensation %s\n", l.Type,
				FormatCurrency(l.Paid), FormatCurrency(l.Recovered), FormatCurrency(l.Compensation))
		}
		fmt.Fprintln(&buf)
	}

	l := AnalyzeRun(run)
	fmt.Fprintln(&buf, "EMPLOYER PAYMENT RECORD")
	fmt.Fprintln(&buf, strings.Repeat("-", 40))
	fmt.Fprintf(&buf, "  Income tax:          %s\n", FormatCurrency(l.IncomeTax))
	fmt.Fprintf(&buf, "  Employee NI:         %s\n", FormatCurrency(l.EmployeeNi))
	fmt.Fprintf(&buf, "  Employer NI:         %s\n", FormatCurrency(l.EmployerNi))
	fmt.Fprintf(&buf, "  Student loans:       %s\n", FormatCurrency(l.StudentLoans))
	fmt.Fprintf(&buf, "  Less recovered:      %s\n", FormatCurrency(l.Recovered.Neg()))
	fmt.Fprintf(&buf, "  Less compensation:   %s\n", FormatCurrency(l.Compensation.Neg()))
	fmt.Fprintf(&buf, "  Due to HMRC:         %s\n", FormatCurrency(l.NetDue))
	fmt.Fprintf(&buf, "  Total employer cost: %s\n", FormatCurrency(l.EmployerCost))
	return buf.Bytes(), nil
}

func writePayslip(w io.Writer, p payrun.Payslip) {
	name := p.EmployeeID
	if p.Name != "" {
		name = fmt.Sprintf("%s (%s)", p.Name, p.EmployeeID)
	}
	fmt.Fprintf(w, "%s\n", name)
	fmt.Fprintln(w, strings.Repeat("-", 50))
	fmt.Fprintf(w, "  %s, %s period %d\n", p.Country, p.Frequency, p.Period)
	fmt.Fprintf(w, "  Gross pay:           %s\n", FormatCurrency(p.GrossPay))

	if p.Pension != nil {
		fmt.Fprintf(w, "  Pension (%s, %s): employee %s, employer %s on %s\n", p.Pension.Basis, p.Pension.TaxTreatment,
			FormatCurrency(p.Pension.EmployeeDeduction), FormatCurrency(p.Pension.EmployerContribution),
			FormatCurrency(p.Pension.ContributableEarnings))
	}

	if t := p.Tax; t != nil {
		basis := "cumulative"
		if !t.Cumulative {
			basis = "week 1/month 1"
		}
		fmt.Fprintf(w, "  Income tax:          %s  [%s %s, %s]\n", FormatCurrency(t.FinalTaxDue), t.TaxCode, t.Country, basis)
		fmt.Fprintf(w, "    taxable to date %s, tax-free to date %s, tax due to date %s\n",
			FormatCurrency(t.TaxablePayToDate), FormatCurrency(t.TaxFreePayToDate), FormatCurrency(t.TaxDueToDate))
		for _, a := range t.Allocations {
			if a.Income.IsZero() {
				continue
			}
			fmt.Fprintf(w, "    %-12s %s at %s = %s\n", a.Name, FormatCurrency(a.Income), FormatPercentage(a.Rate), FormatCurrency(a.Tax))
		}
		if t.TaxUnpaidDueToRegulatoryLimit.IsPositive() {
			fmt.Fprintf(w, "    limited to %s, %s carried forward\n", FormatCurrency(t.RegulatoryLimit), FormatCurrency(t.TaxUnpaidDueToRegulatoryLimit))
		}
	}

	if n := p.Ni; n != nil {
		director := ""
		if n.IsDirector {
			director = ", director"
		}
		fmt.Fprintf(w, "  NI (category %s%s): employee %s, employer %s\n", n.Category, director,
			FormatCurrency(n.EmployeeContribution), FormatCurrency(n.EmployerContribution))
	}

	if s := p.StudentLoan; s != nil {
		fmt.Fprintf(w, "  Student loan (%s):  %s", s.Plan, FormatCurrency(s.PlanDeduction))
		if s.HasPostgraduate {
			fmt.Fprintf(w, ", postgraduate %s", FormatCurrency(s.PostgraduateDeduction))
		}
		fmt.Fprintln(w)
	}

	for _, a := range p.Attachments {
		fmt.Fprintf(w, "  Order %s (%s): %s from %s available\n", a.OrderID, a.TableID,
			FormatCurrency(a.Deduction), FormatCurrency(a.AvailableEarnings))
	}

	fmt.Fprintf(w, "  Total deductions:    %s\n", FormatCurrency(p.TotalDeductions))
	fmt.Fprintf(w, "  NET PAY:             %s\n", FormatCurrency(p.NetPay))
	fmt.Fprintf(w, "  Year to date: gross %s, tax %s\n", FormatCurrency(p.Ytd.GrossPay), FormatCurrency(p.Ytd.TaxPaid))
	for _, warning := range p.Warnings {
		fmt.Fprintf(w, "  WARNING: %s\n", warning)
	}
	fmt.Fprintln(w)
}
