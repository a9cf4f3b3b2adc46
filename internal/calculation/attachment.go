package calculation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ukpaye/payroll-engine/internal/domain"
	pd "github.com/ukpaye/payroll-engine/pkg/decimal"
)

// AttachmentOrderCalculator applies attachment of earnings and arrestment orders
type AttachmentOrderCalculator struct {
	frequency domain.PayFrequency
	data      domain.AttachmentReferenceData
	logger    Logger
}

// NewAttachmentOrderCalculator creates an attachment calculator over already resolved reference data
func NewAttachmentOrderCalculator(f domain.PayFrequency, data domain.AttachmentReferenceData, logger Logger) *AttachmentOrderCalculator {
	return &AttachmentOrderCalculator{frequency: f, data: data, logger: loggerOrNop(logger)}
}

// Calculate works out one order's deduction. previousEntries are the results
// of higher priority orders already applied this period; their deductions
// reduce the earnings this order is assessed on.
func (ac *AttachmentOrderCalculator) Calculate(order domain.AttachmentOrder, attachable decimal.Decimal,
	previousEntries []domain.AttachmentOrderResult) (*domain.AttachmentOrderResult, error) {

	if attachable.IsNegative() {
		return nil, invalidInput("attachable_earnings", attachable, "must not be negative")
	}
	if order.ProtectedEarnings.IsNegative() {
		return nil, invalidInput("protected_earnings", order.ProtectedEarnings, "must not be negative")
	}
	if order.OutstandingBalance != nil && order.OutstandingBalance.IsNegative() {
		return nil, invalidInput("outstanding_balance", *order.OutstandingBalance, "must not be negative")
	}
	table, ok := ac.data.Tables[order.TableID]
	if !ok {
		return nil, inconsistent("attachment order %s refers to unknown table %q", order.ID, order.TableID)
	}

	previous := decimal.Zero
	for _, p := range previousEntries {
		previous = previous.Add(p.Deduction)
	}
	available := attachable.Sub(previous)
	if available.IsNegative() {
		available = decimal.Zero
	}

	band, err := table.Lookup(ac.frequency, available)
	if err != nil {
		return nil, err
	}

	res := &domain.AttachmentOrderResult{
		OrderID:            order.ID,
		TableID:            order.TableID,
		Priority:           order.Priority,
		AttachableEarnings: attachable,
		PreviousDeductions: previous,
		AvailableEarnings:  available,
		BandLower:          band.Lower,
		RateType:           band.RateType,
		Rate:               band.Rate,
		FixedAmount:        band.FixedAmount,
	}

	switch band.RateType {
	case domain.FixedPlusPercentage:
		res.TableDeduction = band.FixedAmount.Add(available.Sub(band.Lower).Mul(band.Rate))
	default:
		res.TableDeduction = available.Mul(band.Rate)
	}
	res.TableDeduction = pd.TruncatePence(res.TableDeduction)

	deduction := res.TableDeduction
	headroom := available.Sub(order.ProtectedEarnings)
	if headroom.IsNegative() {
		headroom = decimal.Zero
	}
	deduction = decimal.Min(deduction, headroom)
	if order.OutstandingBalance != nil {
		deduction = decimal.Min(deduction, *order.OutstandingBalance)
		remaining := order.OutstandingBalance.Sub(deduction)
		res.BalanceRemaining = &remaining
	}
	res.Deduction = deduction

	ac.logger.Debugf("attachment: order %s available %s table %s deducted %s", order.ID,
		available.StringFixed(2), res.TableDeduction.StringFixed(2), deduction.StringFixed(2))
	return res, nil
}

// CalculateAll applies orders in priority order (lowest number first, then
// by ID), feeding each order the results of those before it.
func (ac *AttachmentOrderCalculator) CalculateAll(orders []domain.AttachmentOrder, attachable decimal.Decimal) ([]domain.AttachmentOrderResult, error) {
	sorted := make([]domain.AttachmentOrder, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority < sorted[j].Priority
		}
		return sorted[i].ID < sorted[j].ID
	})

	results := make([]domain.AttachmentOrderResult, 0, len(sorted))
	for _, o := range sorted {
		r, err := ac.Calculate(o, attachable, results)
		if err != nil {
			return nil, err
		}
		results = append(results, *r)
	}
	return results, nil
}
