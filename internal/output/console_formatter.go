package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/ukpaye/payroll-engine/internal/payrun"
)

// ConsoleFormatter provides a concise one-line-per-employee summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(run *payrun.Run) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "PAY RUN SUMMARY")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "Pay date: %s (%s)\n\n", run.PayDate.Format("2 January 2006"), run.TaxYear)

	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Employee\tPeriod\tGross\tTax\tNI\tStudent loan\tPension\tAttachments\tNet\t")
	for _, p := range run.Payslips {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			p.EmployeeID, p.Period,
			FormatCurrency(p.GrossPay),
			FormatCurrency(p.IncomeTax()),
			FormatCurrency(p.EmployeeNi()),
			FormatCurrency(p.StudentLoanDeduction()),
			FormatCurrency(p.PensionDeduction()),
			FormatCurrency(p.AttachmentDeduction()),
			FormatCurrency(p.NetPay),
		)
	}
	t := run.Totals
	fmt.Fprintf(w, "Total\t\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
		FormatCurrency(t.GrossPay), FormatCurrency(t.IncomeTax), FormatCurrency(t.EmployeeNi),
		FormatCurrency(t.StudentLoans), FormatCurrency(t.EmployeePension), FormatCurrency(t.Attachments),
		FormatCurrency(t.NetPay))
	if err := w.Flush(); err != nil {
		return nil, err
	}

	l := AnalyzeRun(run)
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "Due to HMRC: %s (employer cost %s)\n", FormatCurrency(l.NetDue), FormatCurrency(l.EmployerCost))
	return buf.Bytes(), nil
}
