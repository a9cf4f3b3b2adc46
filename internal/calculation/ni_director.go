package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/ukpaye/payroll-engine/internal/domain"
)

// DirectorsNiCalculator calculates NI for company directors.
//
// Standard method: earnings are assessed cumulatively over an annual
// earnings period against annual thresholds. Directors appointed during the
// year use thresholds pro-rated by the weeks remaining, rounded up to whole
// pounds. Each period pays the cumulative liability less what has already
// been paid under the same category.
//
// Alternative method: contributions are worked period by period like any
// other employee, and recalculated on the annual basis in the final period.
type DirectorsNiCalculator struct {
	frequency domain.PayFrequency
	data      domain.NiReferenceData
	period    *NiCalculator
	logger    Logger
}

// NewDirectorsNiCalculator creates a directors' NI calculator over already resolved reference data
func NewDirectorsNiCalculator(f domain.PayFrequency, data domain.NiReferenceData, logger Logger) *DirectorsNiCalculator {
	logger = loggerOrNop(logger)
	return &DirectorsNiCalculator{
		frequency: f,
		data:      data,
		period:    NewNiCalculator(f, data, logger),
		logger:    logger,
	}
}

// Calculate computes this period's contributions. ytd is the director's
// year-to-date position for the category in the inputs; a category that has
// not been used this year starts from zero.
func (dc *DirectorsNiCalculator) Calculate(in domain.DirectorsNiInputs, ytd domain.NiYtdEntry) (*domain.NiResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.ProRataWeeks < 0 || in.ProRataWeeks > 52 {
		return nil, invalidInput("pro_rata_weeks", in.ProRataWeeks, "must be between 0 and 52")
	}
	if ytd.Category != 0 && ytd.Category != in.Category {
		return nil, invalidInput("ytd.category", ytd.Category, "does not match the category being calculated")
	}

	if in.Method == domain.DirectorsAlternativeMethod && !in.IsFinalPeriod {
		res, err := dc.period.Calculate(in.NiPeriodInputs)
		if err != nil {
			return nil, err
		}
		res.IsDirector = true
		return res, nil
	}

	thresholds := annualThresholds(dc.data, in.ProRataWeeks)
	cumulativeGross := ytd.GrossNicablePay.Add(in.GrossNicablePay)
	cum, err := calculateNi(dc.data, in.Category, cumulativeGross, thresholds, true)
	if err != nil {
		return nil, err
	}

	res := &domain.NiResult{
		Category:             in.Category,
		Frequency:            dc.frequency,
		GrossNicablePay:      in.GrossNicablePay,
		Thresholds:           thresholds,
		EmployeeBands:        cum.EmployeeBands,
		EmployerBands:        cum.EmployerBands,
		Earnings:             cum.Earnings.Sub(ytd.Earnings),
		EmployeeContribution: cum.EmployeeContribution.Sub(ytd.EmployeeContributions),
		EmployerContribution: cum.EmployerContribution.Sub(ytd.EmployerContributions),
		IsDirector:           true,
		HighestEmployeeBand:  cum.HighestEmployeeBand,
	}
	dc.logger.Debugf("ni(director,%s): cumulative pay %s liability %s paid %s due %s", in.Method,
		cumulativeGross.StringFixed(2), cum.EmployeeContribution.StringFixed(2),
		ytd.EmployeeContributions.StringFixed(2), res.EmployeeContribution.StringFixed(2))
	return res, nil
}

// annualThresholds returns the annual thresholds, pro-rated for directors
// appointed part way through the year.
func annualThresholds(data domain.NiReferenceData, proRataWeeks int) map[domain.NiThresholdType]decimal.Decimal {
	out := make(map[domain.NiThresholdType]decimal.Decimal, len(data.Thresholds))
	weeks := decimal.NewFromInt(int64(proRataWeeks))
	fiftyTwo := decimal.NewFromInt(52)
	for t, entry := range data.Thresholds {
		v := entry.PerYear
		if proRataWeeks > 0 && proRataWeeks < 52 {
			v = v.Mul(weeks).Div(fiftyTwo).RoundUp(0)
		}
		out[t] = v
	}
	return out
}
