package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BandEntry is one band of an annual income tax band set. Thresholds are
// expressed in taxable income, i.e. after tax-free pay.
type BandEntry struct {
	Name       string           `json:"name"`
	LowerBound decimal.Decimal  `json:"lower_bound"`
	UpperBound *decimal.Decimal `json:"upper_bound,omitempty"` // nil for the open top band
	Rate       decimal.Decimal  `json:"rate"`

	// Taxable income and total tax at the top of this band. Zero for the open band.
	CumulativeThresholdAnnual decimal.Decimal `json:"cumulative_threshold_annual"`
	CumulativeTaxAnnual       decimal.Decimal `json:"cumulative_tax_annual"`
}

// IsOpen reports whether this is the unbounded top band
func (b BandEntry) IsOpen() bool { return b.UpperBound == nil }

// AnnualBandSet is an ordered, contiguous set of income tax bands starting at zero
type AnnualBandSet struct {
	Bands []BandEntry `json:"bands"`
	// BasicRateIndex is the band charged by a BR code. D0, D1... are the bands above it.
	BasicRateIndex int `json:"basic_rate_index"`
}

// BandSpec is the minimal description of a band used to build an AnnualBandSet
type BandSpec struct {
	Name  string
	Rate  decimal.Decimal
	Upper *decimal.Decimal
}

// NewAnnualBandSet builds the cumulative annual figures for a list of bands
// given lowest first. Exactly the last band must be open.
func NewAnnualBandSet(specs []BandSpec, basicRateIndex int) (AnnualBandSet, error) {
	if len(specs) == 0 {
		return AnnualBandSet{}, fmt.Errorf("%w: band set is empty", ErrInconsistentData)
	}
	if basicRateIndex < 0 || basicRateIndex >= len(specs) {
		return AnnualBandSet{}, fmt.Errorf("%w: basic rate index %d outside %d bands", ErrInconsistentData, basicRateIndex, len(specs))
	}

	bands := make([]BandEntry, 0, len(specs))
	lower := decimal.Zero
	cumulativeTax := decimal.Zero
	for i, spec := range specs {
		last := i == len(specs)-1
		if spec.Rate.IsNegative() {
			return AnnualBandSet{}, fmt.Errorf("%w: band %d (%s) has negative rate", ErrInconsistentData, i, spec.Name)
		}
		if last != (spec.Upper == nil) {
			return AnnualBandSet{}, fmt.Errorf("%w: only the top band may be open (band %d, %s)", ErrInconsistentData, i, spec.Name)
		}
		entry := BandEntry{Name: spec.Name, LowerBound: lower, Rate: spec.Rate}
		if spec.Upper != nil {
			upper := *spec.Upper
			if !upper.GreaterThan(lower) {
				return AnnualBandSet{}, fmt.Errorf("%w: band %d (%s) upper bound %s not above %s", ErrInconsistentData, i, spec.Name, upper, lower)
			}
			cumulativeTax = cumulativeTax.Add(upper.Sub(lower).Mul(spec.Rate))
			entry.UpperBound = &upper
			entry.CumulativeThresholdAnnual = upper
			entry.CumulativeTaxAnnual = cumulativeTax
			lower = upper
		}
		bands = append(bands, entry)
	}
	return AnnualBandSet{Bands: bands, BasicRateIndex: basicRateIndex}, nil
}

// TaxReferenceData is the income tax payload for one jurisdiction and date range
type TaxReferenceData struct {
	Bands AnnualBandSet `json:"bands"`
	// RegulatoryLimitRate caps the tax deducted in a period as a fraction of that period's pay.
	RegulatoryLimitRate decimal.Decimal `json:"regulatory_limit_rate"`
}

// PeriodBand is a BandEntry pro-rated to a pay period
type PeriodBand struct {
	Index int             `json:"index"`
	Name  string          `json:"name"`
	Rate  decimal.Decimal `json:"rate"`
	Open  bool            `json:"open"`

	// Cumulative to the current period index
	PeriodThreshold decimal.Decimal `json:"period_threshold"`
	PeriodTax       decimal.Decimal `json:"period_tax"`

	// A single period's share, independent of period index
	Period1Threshold decimal.Decimal `json:"period1_threshold"`
	Period1Tax       decimal.Decimal `json:"period1_tax"`

	// BelowIndex is the index of the band immediately below, or -1 for the lowest band
	BelowIndex int `json:"below_index"`
}

// PeriodBandSet is an AnnualBandSet pro-rated for one frequency and period index.
// It is always derived afresh, never patched.
type PeriodBandSet struct {
	Frequency      PayFrequency `json:"frequency"`
	Period         int          `json:"period"`
	PeriodsPerYear int          `json:"periods_per_year"`
	BasicRateIndex int          `json:"basic_rate_index"`
	Bands          []PeriodBand `json:"bands"`
}

// Below returns the band immediately below band i
func (s PeriodBandSet) Below(i int) (PeriodBand, bool) {
	if i < 0 || i >= len(s.Bands) || s.Bands[i].BelowIndex < 0 {
		return PeriodBand{}, false
	}
	return s.Bands[s.Bands[i].BelowIndex], true
}
