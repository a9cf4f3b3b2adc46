package output

import (
	"bytes"
	"encoding/csv"

	"github.com/ukpaye/payroll-engine/internal/payrun"
)

// CSVSummarizer implements the simple summary CSV output (one row per employee).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(run *payrun.Run) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"EmployeeID", "Name", "Period", "GrossPay", "IncomeTax", "EmployeeNI", "EmployerNI",
		"StudentLoan", "EmployeePension", "EmployerPension", "Attachments", "TotalDeductions", "NetPay"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, p := range run.Payslips {
		row := []string{
			p.EmployeeID,
			p.Name,
			intToString(p.Period),
			p.GrossPay.StringFixed(2),
			p.IncomeTax().StringFixed(2),
			p.EmployeeNi().StringFixed(2),
			p.EmployerNi().StringFixed(2),
			p.StudentLoanDeduction().StringFixed(2),
			p.PensionDeduction().StringFixed(2),
			p.EmployerPension().StringFixed(2),
			p.AttachmentDeduction().StringFixed(2),
			p.TotalDeductions.StringFixed(2),
			p.NetPay.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
