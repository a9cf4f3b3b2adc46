package calculation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ukpaye/payroll-engine/internal/domain"
	pd "github.com/ukpaye/payroll-engine/pkg/decimal"
)

// NiCalculator calculates Class 1 National Insurance for one pay frequency
// using the exact percentage method.
type NiCalculator struct {
	frequency domain.PayFrequency
	data      domain.NiReferenceData
	logger    Logger
}

// NewNiCalculator creates an NI calculator over already resolved reference data
func NewNiCalculator(f domain.PayFrequency, data domain.NiReferenceData, logger Logger) *NiCalculator {
	return &NiCalculator{frequency: f, data: data, logger: loggerOrNop(logger)}
}

// Calculate computes employee and employer contributions for one period.
// Each band's contribution is rounded with RoundNi before the bands are summed.
func (nc *NiCalculator) Calculate(in domain.NiPeriodInputs) (*domain.NiResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	thresholds, err := periodThresholds(nc.data, nc.frequency)
	if err != nil {
		return nil, err
	}
	res, err := calculateNi(nc.data, in.Category, in.GrossNicablePay, thresholds, false)
	if err != nil {
		return nil, err
	}
	res.Frequency = nc.frequency
	nc.logger.Debugf("ni: category %s pay %s employee %s employer %s", in.Category,
		in.GrossNicablePay.StringFixed(2), res.EmployeeContribution.StringFixed(2), res.EmployerContribution.StringFixed(2))
	return res, nil
}

func periodThresholds(data domain.NiReferenceData, f domain.PayFrequency) (map[domain.NiThresholdType]decimal.Decimal, error) {
	out := make(map[domain.NiThresholdType]decimal.Decimal, len(data.Thresholds))
	for t, entry := range data.Thresholds {
		v, err := entry.ForFrequency(f)
		if err != nil {
			return nil, err
		}
		out[t] = v
	}
	return out, nil
}

// calculateNi is shared by the period and directors' calculators. thresholds
// are already scaled to the earnings period being assessed.
func calculateNi(data domain.NiReferenceData, cat domain.NiCategory, gross decimal.Decimal,
	thresholds map[domain.NiThresholdType]decimal.Decimal, director bool) (*domain.NiResult, error) {

	rates, ok := data.Categories[cat]
	if !ok {
		return nil, inconsistent("NI category %s has no rates", cat)
	}
	lel, ok := thresholds[domain.LEL]
	if !ok {
		return nil, inconsistent("LEL threshold missing")
	}

	employeeRates := rates.Employee
	if _, hasDPT := thresholds[domain.DPT]; director && hasDPT {
		employeeRates = replacePT(employeeRates)
	}

	res := &domain.NiResult{
		Category:            cat,
		GrossNicablePay:     gross,
		Thresholds:          thresholds,
		IsDirector:          director,
		HighestEmployeeBand: -1,
	}

	// Below the LEL there is no Class 1 liability at all.
	if gross.LessThan(lel) {
		res.EmployeeContribution = decimal.Zero
		res.EmployerContribution = decimal.Zero
		return res, nil
	}

	var err error
	res.EmployeeBands, res.EmployeeContribution, err = contributionBands(employeeRates, thresholds, gross)
	if err != nil {
		return nil, err
	}
	res.EmployerBands, res.EmployerContribution, err = contributionBands(rates.Employer, thresholds, gross)
	if err != nil {
		return nil, err
	}
	for i, b := range res.EmployeeBands {
		if b.Earnings.IsPositive() && b.Rate.IsPositive() {
			res.HighestEmployeeBand = i
		}
	}
	res.Earnings = earningsBreakdown(thresholds, gross, director)
	return res, nil
}

// replacePT swaps the primary threshold for the directors' primary threshold
func replacePT(entries []domain.NiRateEntry) []domain.NiRateEntry {
	out := make([]domain.NiRateEntry, len(entries))
	for i, e := range entries {
		if e.From == domain.PT {
			e.From = domain.DPT
		}
		out[i] = e
	}
	return out
}

// contributionBands orders rate entries by threshold value and charges each
// band's earnings at its rate. Nothing is due below the first entry.
func contributionBands(entries []domain.NiRateEntry, thresholds map[domain.NiThresholdType]decimal.Decimal,
	gross decimal.Decimal) ([]domain.NiBandResult, decimal.Decimal, error) {

	type point struct {
		entry domain.NiRateEntry
		value decimal.Decimal
	}
	points := make([]point, 0, len(entries))
	for _, e := range entries {
		v, ok := thresholds[e.From]
		if !ok {
			return nil, decimal.Zero, inconsistent("threshold %s not defined", e.From)
		}
		points = append(points, point{entry: e, value: v})
	}
	sort.SliceStable(points, func(i, j int) bool {
		if points[i].value.Equal(points[j].value) {
			return points[i].entry.From < points[j].entry.From
		}
		return points[i].value.LessThan(points[j].value)
	})

	bands := make([]domain.NiBandResult, 0, len(points))
	total := decimal.Zero
	for i, p := range points {
		band := domain.NiBandResult{From: p.entry.From, Lower: p.value, Rate: p.entry.Rate}
		top := gross
		if i+1 < len(points) {
			upper := points[i+1].value
			band.Upper = &upper
			top = decimal.Min(gross, upper)
		}
		if top.GreaterThan(p.value) {
			band.Earnings = top.Sub(p.value)
		}
		c, err := pd.RoundNi(band.Earnings.Mul(band.Rate))
		if err != nil {
			return nil, decimal.Zero, err
		}
		band.Contribution = c
		total = total.Add(c)
		bands = append(bands, band)
	}
	return bands, total, nil
}

func earningsBreakdown(thresholds map[domain.NiThresholdType]decimal.Decimal, gross decimal.Decimal, director bool) domain.NiEarningsBreakdown {
	lel := thresholds[domain.LEL]
	pt := thresholds[domain.PT]
	if dpt, ok := thresholds[domain.DPT]; director && ok {
		pt = dpt
	}
	uel := thresholds[domain.UEL]

	between := func(lower, upper decimal.Decimal) decimal.Decimal {
		top := decimal.Min(gross, upper)
		if top.LessThanOrEqual(lower) {
			return decimal.Zero
		}
		return top.Sub(lower)
	}
	b := domain.NiEarningsBreakdown{
		AtLEL:   lel,
		LELToPT: between(lel, pt),
		PTToUEL: between(pt, uel),
	}
	if gross.GreaterThan(uel) {
		b.AboveUEL = gross.Sub(uel)
	}
	return b
}
