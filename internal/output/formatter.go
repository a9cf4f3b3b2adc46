package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ukpaye/payroll-engine/internal/payrun"
)

// ErrUnsupportedFormat is returned for format names no formatter answers to
var ErrUnsupportedFormat = errors.New("unsupported report format")

// Formatter renders a completed pay run. Formatting never changes the run.
type Formatter interface {
	Format(run *payrun.Run) ([]byte, error)
	// Name is the canonical format name accepted by --format
	Name() string
}

// FormatterFunc lets a plain function act as a Formatter.
type FormatterFunc struct {
	ID string
	F  func(*payrun.Run) ([]byte, error)
}

func (ff FormatterFunc) Format(r *payrun.Run) ([]byte, error) { return ff.F(r) }
func (ff FormatterFunc) Name() string                         { return ff.ID }

// WriteFormatted runs a formatter and writes output to a file named after the
// pay date and run ID.
func WriteFormatted(f Formatter, run *payrun.Run, dir, ext string) (string, error) {
	data, err := f.Format(run)
	if err != nil {
		return "", err
	}
	filename := filepath.Join(dir, fmt.Sprintf("payrun_%s_%s.%s", run.PayDate.Format("20060102"), run.ID.String()[:8], ext))
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", err
	}
	return filename, nil
}

var builtInFormatters = []Formatter{
	ConsoleVerboseFormatter{},
	ConsoleFormatter{},
	CSVSummarizer{},
	CSVDetailedExporter{},
	JSONFormatter{},
}

// GetFormatterByName returns the formatter for a name or alias, or nil.
func GetFormatterByName(name string) Formatter {
	n := NormalizeFormatName(name)
	for _, f := range builtInFormatters {
		if f.Name() == n {
			return f
		}
	}
	return nil
}

// aliases accepted by --format
var aliasMap = map[string]string{
	"verbose":      "console",
	"payslips":     "console",
	"summary":      "console-lite",
	"csv-detailed": "detailed-csv",
	"csv-summary":  "csv",
	"json-pretty":  "json",
}

// NormalizeFormatName lower-cases name and maps aliases to canonical names.
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := aliasMap[n]; ok {
		return mapped
	}
	return n
}

// AvailableFormatterNames lists canonical names, sorted.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(builtInFormatters))
	for _, f := range builtInFormatters {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists alias names, sorted.
func AvailableFormatAliases() []string {
	keys := make([]string, 0, len(aliasMap))
	for k := range aliasMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
