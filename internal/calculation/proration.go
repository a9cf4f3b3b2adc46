package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ukpaye/payroll-engine/internal/domain"
	pd "github.com/ukpaye/payroll-engine/pkg/decimal"
)

// Prorate scales an annual band set to the given period of a pay frequency.
// Cumulative thresholds and tax are multiplied by period/periodsPerYear and
// rounded with RoundTaxBand. Period-1 values are kept alongside.
//
// Annually paid employees always use period 1. Periods beyond the end of
// the year (week 53 and similar) are not pro-rated; callers use period 1
// values for them.
func Prorate(annual domain.AnnualBandSet, f domain.PayFrequency, period int) (domain.PeriodBandSet, error) {
	if !f.Valid() {
		return domain.PeriodBandSet{}, invalidInput("pay_frequency", f, "unknown pay frequency")
	}
	ppy := f.PeriodsPerYear()
	if f == domain.Annually {
		period = 1
	}
	if period < 1 || period > ppy {
		return domain.PeriodBandSet{}, invalidInput("period", period, fmt.Sprintf("must be between 1 and %d", ppy))
	}
	if len(annual.Bands) == 0 {
		return domain.PeriodBandSet{}, inconsistent("band set is empty")
	}

	periods := decimal.NewFromInt(int64(ppy))
	factor := decimal.NewFromInt(int64(period)).Div(periods)

	out := domain.PeriodBandSet{
		Frequency:      f,
		Period:         period,
		PeriodsPerYear: ppy,
		BasicRateIndex: annual.BasicRateIndex,
		Bands:          make([]domain.PeriodBand, len(annual.Bands)),
	}
	for i, b := range annual.Bands {
		pb := domain.PeriodBand{
			Index:      i,
			Name:       b.Name,
			Rate:       b.Rate,
			Open:       b.IsOpen(),
			BelowIndex: i - 1,
		}
		if !pb.Open {
			pb.PeriodThreshold = pd.RoundTaxBand(b.CumulativeThresholdAnnual.Mul(factor))
			pb.PeriodTax = pd.RoundTaxBand(b.CumulativeTaxAnnual.Mul(factor))
			pb.Period1Threshold = pd.RoundTaxBand(b.CumulativeThresholdAnnual.Div(periods))
			pb.Period1Tax = pd.RoundTaxBand(b.CumulativeTaxAnnual.Div(periods))
		}
		out.Bands[i] = pb
	}
	return out, nil
}
