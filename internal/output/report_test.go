package output_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	stddec "github.com/shopspring/decimal"

	"github.com/ukpaye/payroll-engine/internal/calculation"
	"github.com/ukpaye/payroll-engine/internal/config"
	"github.com/ukpaye/payroll-engine/internal/output"
	"github.com/ukpaye/payroll-engine/internal/payrun"
)

func runPayroll(t *testing.T) *payrun.Run {
	t.Helper()
	rd, err := config.DefaultReferenceData()
	if err != nil {
		t.Fatalf("reference data: %v", err)
	}
	input, err := config.NewInputParser().LoadFromFile("../config/testdata/payroll.yaml")
	if err != nil {
		t.Fatalf("payroll input: %v", err)
	}
	run, err := payrun.NewEngine(calculation.NewFactory(rd, nil)).Run(context.Background(), *input)
	if err != nil {
		t.Fatalf("pay run: %v", err)
	}
	return run
}

func TestFormatters(t *testing.T) {
	if got := output.FormatCurrency(stddec.NewFromFloat(123.45)); got != "£123.45" {
		t.Fatalf("FormatCurrency = %q", got)
	}
	if got := output.FormatCurrency(stddec.NewFromFloat(-5)); got != "-£5.00" {
		t.Fatalf("FormatCurrency = %q", got)
	}
	if got := output.FormatPercentage(stddec.NewFromFloat(0.1234)); got != "12.34%" {
		t.Fatalf("FormatPercentage = %q", got)
	}
}

func TestSaveYtd(t *testing.T) {
	run := runPayroll(t)
	path := filepath.Join(t.TempDir(), "ytd.yaml")
	if err := output.SaveYtd(run, path); err != nil {
		t.Fatalf("SaveYtd error: %v", err)
	}

	ytd, err := config.NewInputParser().LoadYtdFromFile(path)
	if err != nil {
		t.Fatalf("LoadYtdFromFile error: %v", err)
	}
	if len(ytd) != 3 {
		t.Fatalf("expected 3 employees, got %d", len(ytd))
	}
	alex := ytd["E001"]
	if alex.LastPeriod != 3 || !alex.TaxPaid.Equal(stddec.RequireFromString("1096.60")) {
		t.Fatalf("unexpected E001 ytd: %+v", alex)
	}
}

func TestGenerateReport(t *testing.T) {
	run := runPayroll(t)
	dir := t.TempDir()

	for _, format := range []string{"json", "csv", "summary"} {
		files, err := output.GenerateReport(run, format, dir)
		if err != nil {
			t.Fatalf("GenerateReport %s error: %v", format, err)
		}
		if len(files) != 1 {
			t.Fatalf("GenerateReport %s wrote %d files", format, len(files))
		}
		if _, err := os.Stat(files[0]); err != nil {
			t.Fatalf("report %s missing: %v", files[0], err)
		}
	}

	files, err := output.GenerateReport(run, "all", dir)
	if err != nil {
		t.Fatalf("GenerateReport all error: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 files for all, got %v", files)
	}
	if filepath.Ext(files[1]) != ".csv" {
		t.Fatalf("detailed journal written as %s", files[1])
	}
}
