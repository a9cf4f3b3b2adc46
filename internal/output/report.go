package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/ukpaye/payroll-engine/internal/config"
	"github.com/ukpaye/payroll-engine/internal/domain"
	"github.com/ukpaye/payroll-engine/internal/payrun"
)

// GenerateReport writes the run in the named format to dir and returns the
// files written. "all" writes the payslips and the detailed CSV journal.
func GenerateReport(run *payrun.Run, format, dir string) ([]string, error) {
	if strings.EqualFold(strings.TrimSpace(format), "all") {
		var files []string
		for _, f := range []Formatter{ConsoleVerboseFormatter{}, CSVDetailedExporter{}, JSONFormatter{}} {
			name, err := WriteFormatted(f, run, dir, extensionFor(f))
			if err != nil {
				return files, err
			}
			files = append(files, name)
		}
		return files, nil
	}

	f := GetFormatterByName(format)
	if f == nil {
		// enrich error with available formatters and aliases
		return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format,
			strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	name, err := WriteFormatted(f, run, dir, extensionFor(f))
	if err != nil {
		return nil, err
	}
	return []string{name}, nil
}

func extensionFor(f Formatter) string {
	switch n := f.Name(); {
	case strings.Contains(n, "csv"):
		return "csv"
	case n == "json":
		return "json"
	default:
		return "txt"
	}
}

// SaveYtd writes every employee's year-to-date position after the run, in
// the form the next run can load.
func SaveYtd(run *payrun.Run, filename string) error {
	ytd := make(map[string]domain.EmployeeYtd, len(run.Payslips))
	for _, p := range run.Payslips {
		ytd[p.EmployeeID] = p.Ytd
	}
	b, err := config.MarshalYtd(ytd)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}
