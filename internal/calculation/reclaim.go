package calculation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ukpaye/payroll-engine/internal/domain"
	pd "github.com/ukpaye/payroll-engine/pkg/decimal"
)

// ReclaimCalculator works out what an employer recovers of statutory payments
type ReclaimCalculator struct {
	data   domain.ReclaimReferenceData
	logger Logger
}

// NewReclaimCalculator creates a reclaim calculator over already resolved reference data
func NewReclaimCalculator(data domain.ReclaimReferenceData, logger Logger) *ReclaimCalculator {
	return &ReclaimCalculator{data: data, logger: loggerOrNop(logger)}
}

// Calculate totals payments by type. Small employers recover the full amount
// plus compensation; others recover the standard rate. All figures are
// rounded with RoundReclaim.
func (rc *ReclaimCalculator) Calculate(payments []domain.StatutoryPayment, smallEmployer bool) (*domain.ReclaimResult, error) {
	paid := make(map[domain.StatutoryPaymentType]decimal.Decimal)
	for _, p := range payments {
		if p.Amount.IsNegative() {
			return nil, invalidInput("statutory_payment.amount", p.Amount, "must not be negative")
		}
		if !p.Type.Valid() {
			return nil, invalidInput("statutory_payment.type", p.Type, "unknown statutory payment")
		}
		paid[p.Type] = paid[p.Type].Add(p.Amount)
	}

	types := make([]domain.StatutoryPaymentType, 0, len(paid))
	for t := range paid {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	rate := rc.data.StandardRate
	if smallEmployer {
		rate = decimal.NewFromInt(1)
	}

	res := &domain.ReclaimResult{SmallEmployer: smallEmployer}
	for _, t := range types {
		line := domain.ReclaimLine{
			Type:      t,
			Paid:      paid[t],
			Recovered: pd.RoundReclaim(paid[t].Mul(rate)),
		}
		if smallEmployer {
			line.Compensation = pd.RoundReclaim(paid[t].Mul(rc.data.SmallEmployerCompensationRate))
		}
		res.Lines = append(res.Lines, line)
		res.TotalRecovered = res.TotalRecovered.Add(line.Recovered)
		res.TotalCompensation = res.TotalCompensation.Add(line.Compensation)
	}
	rc.logger.Debugf("reclaim: %d payment types recovered %s compensation %s", len(res.Lines),
		res.TotalRecovered.StringFixed(2), res.TotalCompensation.StringFixed(2))
	return res, nil
}
