package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ukpaye/payroll-engine/internal/domain"
	"github.com/ukpaye/payroll-engine/internal/taxcode"
	pd "github.com/ukpaye/payroll-engine/pkg/decimal"
)

// INCOME TAX CALCULATION:
//
// 1. Taxable pay to date = gross to date - tax-free pay to date, truncated to
//    whole pounds. K codes add to pay through negative tax-free pay.
// 2. Tax to date is worked through the pro-rated bands and truncated to the penny.
//    BR and Dn codes charge all taxable pay at a single band's rate.
// 3. Tax due this period = tax to date - tax paid to date (cumulative) or the
//    period's tax plus any brought-forward unpaid tax (non-cumulative).
// 4. The regulatory limit caps tax due at a fraction of this period's gross.
//    The excess is reported as unpaid and recovered in later periods.

// TaxPeriodInputs are the current period's figures for an income tax calculation
type TaxPeriodInputs struct {
	Code   taxcode.TaxCode
	Period int
	// GrossPayThisPeriod is pay subject to tax, after net-pay pension deductions
	GrossPayThisPeriod decimal.Decimal
}

// TaxCalculator calculates PAYE income tax for one jurisdiction and pay frequency
type TaxCalculator struct {
	country   domain.Country
	frequency domain.PayFrequency
	data      domain.TaxReferenceData
	logger    Logger
}

// NewTaxCalculator creates a tax calculator over already resolved reference data
func NewTaxCalculator(country domain.Country, f domain.PayFrequency, data domain.TaxReferenceData, logger Logger) *TaxCalculator {
	return &TaxCalculator{country: country, frequency: f, data: data, logger: loggerOrNop(logger)}
}

// maxPeriod allows one extra pay day for weekly, two-weekly and four-weekly
// payrolls (week 53, 54 or 56).
func maxPeriod(f domain.PayFrequency) int {
	switch f {
	case domain.Weekly, domain.TwoWeekly, domain.FourWeekly:
		return f.PeriodsPerYear() + 1
	default:
		return f.PeriodsPerYear()
	}
}

func (tc *TaxCalculator) validate(in TaxPeriodInputs, ytd domain.TaxYtd) error {
	if in.Code.String() == "" {
		return invalidInput("tax_code", in.Code, "is required")
	}
	if in.Code.Country != 0 && in.Code.Country != tc.country {
		return invalidInput("tax_code", in.Code.String(), fmt.Sprintf("jurisdiction %s does not match %s", in.Code.Country, tc.country))
	}
	if in.Period < 1 || in.Period > maxPeriod(tc.frequency) {
		return invalidInput("period", in.Period, fmt.Sprintf("must be between 1 and %d", maxPeriod(tc.frequency)))
	}
	if in.GrossPayThisPeriod.IsNegative() {
		return invalidInput("gross_pay", in.GrossPayThisPeriod, "must not be negative")
	}
	if ytd.TaxablePayToDate.IsNegative() {
		return invalidInput("taxable_pay_to_date", ytd.TaxablePayToDate, "must not be negative")
	}
	if ytd.TaxUnpaidBroughtForward.IsNegative() {
		return invalidInput("tax_unpaid_brought_forward", ytd.TaxUnpaidBroughtForward, "must not be negative")
	}
	return nil
}

// Calculate computes the tax due for one period. ytd holds the figures to
// the end of the previous period.
func (tc *TaxCalculator) Calculate(in TaxPeriodInputs, ytd domain.TaxYtd) (*domain.TaxResult, error) {
	if err := tc.validate(in, ytd); err != nil {
		return nil, err
	}

	period := in.Period
	if tc.frequency == domain.Annually {
		period = 1
	}
	cumulative := in.Code.IsCumulative() && period <= tc.frequency.PeriodsPerYear()
	bandPeriod := period
	if !cumulative {
		bandPeriod = 1
	}

	bands, err := Prorate(tc.data.Bands, tc.frequency, bandPeriod)
	if err != nil {
		return nil, err
	}

	res := &domain.TaxResult{
		TaxCode:                 in.Code.String(),
		Country:                 tc.country,
		Cumulative:              cumulative,
		Frequency:               tc.frequency,
		Period:                  period,
		GrossPayThisPeriod:      in.GrossPayThisPeriod,
		Bands:                   bands,
		HighestBandIndex:        -1,
		TaxUnpaidBroughtForward: ytd.TaxUnpaidBroughtForward,
	}

	// AccumulateTaxableSalary
	res.TaxablePayToDate = in.GrossPayThisPeriod
	if cumulative {
		res.TaxablePayToDate = res.TaxablePayToDate.Add(ytd.TaxablePayToDate)
		res.TaxPaidToDate = ytd.TaxPaidToDate
	}

	if in.Code.Kind == taxcode.NoTax {
		tc.logger.Debugf("tax: NT code, no tax due for period %d", period)
		res.FinalTaxDue = decimal.Zero
		return res, nil
	}

	// ApplyTaxFreePay
	res.TaxFreePayToDate = in.Code.TaxFreePay(tc.frequency, bandPeriod)
	taxable := pd.TruncatePounds(res.TaxablePayToDate.Sub(res.TaxFreePayToDate))
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	res.TaxableSalaryAfterTaxFreePay = taxable

	// AllocateAcrossBands
	var taxToDate decimal.Decimal
	if in.Code.UsesBands() {
		taxToDate = allocateBanded(res, bands, taxable)
	} else {
		idx, _ := in.Code.FlatBandIndex(bands.BasicRateIndex)
		taxToDate, err = allocateFlat(res, bands, idx, taxable)
	}
	if err != nil {
		return nil, err
	}
	res.TaxDueToDate = pd.TruncatePence(taxToDate)

	// ApplyRegulatoryLimit
	if cumulative {
		res.TaxDueBeforeRegulatoryLimit = res.TaxDueToDate.Sub(res.TaxPaidToDate)
	} else {
		res.TaxDueBeforeRegulatoryLimit = res.TaxDueToDate.Add(ytd.TaxUnpaidBroughtForward)
	}
	res.RegulatoryLimit = pd.TruncatePence(in.GrossPayThisPeriod.Mul(tc.data.RegulatoryLimitRate))
	res.FinalTaxDue = res.TaxDueBeforeRegulatoryLimit
	if res.FinalTaxDue.GreaterThan(res.RegulatoryLimit) {
		res.TaxUnpaidDueToRegulatoryLimit = res.FinalTaxDue.Sub(res.RegulatoryLimit)
		res.FinalTaxDue = res.RegulatoryLimit
		tc.logger.Warnf("tax: regulatory limit %s applied, %s unpaid carried forward",
			res.RegulatoryLimit.StringFixed(2), res.TaxUnpaidDueToRegulatoryLimit.StringFixed(2))
	}

	tc.logger.Debugf("tax: code %s period %d taxable %s tax to date %s due %s",
		in.Code, period, taxable.StringFixed(0), res.TaxDueToDate.StringFixed(2), res.FinalTaxDue.StringFixed(2))
	return res, nil
}

// allocateBanded walks the bands from lowest to highest. The tax for the
// highest band reached is the cumulative tax of the band below plus that
// band's share of taxable pay at its rate.
func allocateBanded(res *domain.TaxResult, bands domain.PeriodBandSet, taxable decimal.Decimal) decimal.Decimal {
	if !taxable.IsPositive() {
		return decimal.Zero
	}

	lower := decimal.Zero
	for i, b := range bands.Bands {
		top := taxable
		if !b.Open && b.PeriodThreshold.LessThan(taxable) {
			top = b.PeriodThreshold
		}
		income := top.Sub(lower)
		if income.IsPositive() {
			res.Allocations = append(res.Allocations, domain.BandAllocation{
				BandIndex: i, Name: b.Name, Rate: b.Rate,
				Income: income, Tax: income.Mul(b.Rate),
			})
			res.HighestBandIndex = i
		}
		if b.Open || !b.PeriodThreshold.LessThan(taxable) {
			break
		}
		lower = b.PeriodThreshold
	}

	highest := bands.Bands[res.HighestBandIndex]
	taxBelow := decimal.Zero
	if below, ok := bands.Below(highest.Index); ok {
		taxBelow = below.PeriodTax
	}
	last := res.Allocations[len(res.Allocations)-1]
	res.IncomeInHighest = last.Income
	res.TaxInHighest = last.Tax
	return taxBelow.Add(last.Tax)
}

func allocateFlat(res *domain.TaxResult, bands domain.PeriodBandSet, idx int, taxable decimal.Decimal) (decimal.Decimal, error) {
	if idx < 0 || idx >= len(bands.Bands) {
		return decimal.Zero, inconsistent("tax code %s needs band %d but only %d bands are defined", res.TaxCode, idx, len(bands.Bands))
	}
	if !taxable.IsPositive() {
		return decimal.Zero, nil
	}
	b := bands.Bands[idx]
	tax := taxable.Mul(b.Rate)
	res.Allocations = []domain.BandAllocation{{BandIndex: idx, Name: b.Name, Rate: b.Rate, Income: taxable, Tax: tax}}
	res.HighestBandIndex = idx
	res.IncomeInHighest = taxable
	res.TaxInHighest = tax
	return tax, nil
}
