package output

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ukpaye/payroll-engine/internal/domain"
	"github.com/ukpaye/payroll-engine/internal/payrun"
)

func TestAnalyzeRun_OffsetsRecoveredStatutoryPay(t *testing.T) {
	run := &payrun.Run{
		Totals: payrun.Totals{
			GrossPay:        decimal.NewFromInt(1000),
			IncomeTax:       decimal.NewFromInt(100),
			EmployeeNi:      decimal.NewFromInt(50),
			EmployerNi:      decimal.NewFromInt(80),
			StudentLoans:    decimal.NewFromInt(20),
			EmployerPension: decimal.NewFromInt(30),
		},
		Reclaim: &domain.ReclaimResult{
			TotalRecovered:    decimal.NewFromInt(92),
			TotalCompensation: decimal.NewFromInt(3),
		},
	}

	l := AnalyzeRun(run)
	if !l.NetDue.Equal(decimal.NewFromInt(155)) {
		t.Fatalf("NetDue = %s, want 155", l.NetDue)
	}
	if !l.EmployerCost.Equal(decimal.NewFromInt(1110)) {
		t.Fatalf("EmployerCost = %s, want 1110", l.EmployerCost)
	}
}

func TestAnalyzeRun_NoReclaim(t *testing.T) {
	l := AnalyzeRun(&payrun.Run{Totals: payrun.Totals{IncomeTax: decimal.NewFromInt(10)}})
	if !l.Recovered.IsZero() || !l.NetDue.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("unexpected liability: %+v", l)
	}
}
