// Package payrun runs the statutory calculators for every employee on a
// pay date and folds the results into new year-to-date positions.
package payrun

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ukpaye/payroll-engine/internal/calculation"
	"github.com/ukpaye/payroll-engine/internal/domain"
	"github.com/ukpaye/payroll-engine/pkg/dateutil"
	pd "github.com/ukpaye/payroll-engine/pkg/decimal"
)

// Engine orchestrates a pay run. Calculators are obtained from the factory
// per employee, so an Engine is safe for concurrent use.
type Engine struct {
	factory     *calculation.Factory
	logger      calculation.Logger
	concurrency int
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine's logger. If nil is provided, a no-op logger is used.
func WithLogger(l calculation.Logger) Option {
	return func(e *Engine) {
		if l == nil {
			l = calculation.NopLogger{}
		}
		e.logger = l
	}
}

// WithConcurrency bounds the number of employees calculated at once
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// NewEngine creates a pay run engine over a calculator factory
func NewEngine(factory *calculation.Factory, opts ...Option) *Engine {
	e := &Engine{
		factory:     factory,
		logger:      calculation.NopLogger{},
		concurrency: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run calculates every employee in the input. Employees are independent and
// are calculated concurrently; the first failure cancels the rest and no
// partial run is returned.
func (e *Engine) Run(ctx context.Context, input domain.PayrollInput) (*Run, error) {
	if e.factory == nil || e.factory.ReferenceData() == nil {
		return nil, fmt.Errorf("%w: pay run has no reference data", domain.ErrInconsistentData)
	}
	if input.PayDate.IsZero() {
		return nil, &domain.InvalidInputError{Parameter: "pay_date", Value: input.PayDate, Reason: "is required"}
	}

	taxYear := dateutil.TaxYearEnding(input.PayDate)
	run := &Run{
		ID:              uuid.New(),
		PayDate:         input.PayDate,
		TaxYear:         dateutil.TaxYearLabel(taxYear),
		SmallEmployer:   input.SmallEmployer,
		ReferenceSource: e.factory.ReferenceData().Source,
		Payslips:        make([]Payslip, len(input.Employees)),
	}
	e.logger.Infof("pay run %s: %d employees, pay date %s (%s)", run.ID, len(input.Employees),
		input.PayDate.Format("2006-01-02"), run.TaxYear)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i := range input.Employees {
		// Each goroutine owns one payslip slot
		emp, slot := input.Employees[i], &run.Payslips[i]
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			slip, err := e.calculateEmployee(input.PayDate, taxYear, input.SmallEmployer, emp)
			if err != nil {
				e.logger.Errorf("pay run %s: employee %s failed: %v", run.ID, emp.Employee.ID, err)
				return err
			}
			*slot = *slip
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var reclaims []*domain.ReclaimResult
	for _, p := range run.Payslips {
		run.Totals = run.Totals.add(p)
		if p.Reclaim != nil {
			reclaims = append(reclaims, p.Reclaim)
		}
	}
	if len(reclaims) > 0 {
		run.Reclaim = mergeReclaims(input.SmallEmployer, reclaims)
	}

	e.logger.Infof("pay run %s: gross %s net %s", run.ID, pd.NewMoney(run.Totals.GrossPay).Format(), pd.NewMoney(run.Totals.NetPay).Format())
	return run, nil
}

// mergeReclaims combines per-employee reclaims into one line per payment type
func mergeReclaims(smallEmployer bool, reclaims []*domain.ReclaimResult) *domain.ReclaimResult {
	byType := make(map[domain.StatutoryPaymentType]domain.ReclaimLine)
	for _, r := range reclaims {
		for _, l := range r.Lines {
			acc := byType[l.Type]
			acc.Type = l.Type
			acc.Paid = acc.Paid.Add(l.Paid)
			acc.Recovered = acc.Recovered.Add(l.Recovered)
			acc.Compensation = acc.Compensation.Add(l.Compensation)
			byType[l.Type] = acc
		}
	}

	out := &domain.ReclaimResult{SmallEmployer: smallEmployer}
	for _, l := range byType {
		out.Lines = append(out.Lines, l)
	}
	sort.Slice(out.Lines, func(i, j int) bool { return out.Lines[i].Type < out.Lines[j].Type })
	for _, l := range out.Lines {
		out.TotalRecovered = out.TotalRecovered.Add(l.Recovered)
		out.TotalCompensation = out.TotalCompensation.Add(l.Compensation)
	}
	return out
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
