package domain

import "github.com/shopspring/decimal"

// TaxYtd is the caller-held year-to-date state an income tax calculation starts from
type TaxYtd struct {
	TaxablePayToDate decimal.Decimal `json:"taxable_pay_to_date"` // excluding this period
	TaxPaidToDate    decimal.Decimal `json:"tax_paid_to_date"`    // excluding this period
	// TaxUnpaidBroughtForward is tax deferred by the regulatory limit in the
	// previous period. It is only added back for non-cumulative codes; the
	// cumulative calculation recovers it through TaxPaidToDate.
	TaxUnpaidBroughtForward decimal.Decimal `json:"tax_unpaid_brought_forward"`
}

// BandAllocation is the slice of taxable pay and tax falling in one band
type BandAllocation struct {
	BandIndex int             `json:"band_index"`
	Name      string          `json:"name"`
	Rate      decimal.Decimal `json:"rate"`
	Income    decimal.Decimal `json:"income"`
	Tax       decimal.Decimal `json:"tax"`
}

// TaxResult is the immutable outcome of one income tax calculation
type TaxResult struct {
	TaxCode    string       `json:"tax_code"`
	Country    Country      `json:"country"`
	Cumulative bool         `json:"cumulative"`
	Frequency  PayFrequency `json:"frequency"`
	Period     int          `json:"period"`

	GrossPayThisPeriod           decimal.Decimal `json:"gross_pay_this_period"`
	TaxablePayToDate             decimal.Decimal `json:"taxable_pay_to_date"`
	TaxFreePayToDate             decimal.Decimal `json:"tax_free_pay_to_date"`
	TaxableSalaryAfterTaxFreePay decimal.Decimal `json:"taxable_salary_after_tax_free_pay"`

	Bands            PeriodBandSet    `json:"bands"`
	Allocations      []BandAllocation `json:"allocations"`
	HighestBandIndex int              `json:"highest_band_index"` // -1 when no taxable pay
	IncomeInHighest  decimal.Decimal  `json:"income_in_highest_band"`
	TaxInHighest     decimal.Decimal  `json:"tax_in_highest_band"`

	TaxDueToDate                  decimal.Decimal `json:"tax_due_to_date"`
	TaxPaidToDate                 decimal.Decimal `json:"tax_paid_to_date"`
	TaxUnpaidBroughtForward       decimal.Decimal `json:"tax_unpaid_brought_forward"`
	TaxDueBeforeRegulatoryLimit   decimal.Decimal `json:"tax_due_before_regulatory_limit"`
	RegulatoryLimit               decimal.Decimal `json:"regulatory_limit"`
	TaxUnpaidDueToRegulatoryLimit decimal.Decimal `json:"tax_unpaid_due_to_regulatory_limit"`
	FinalTaxDue                   decimal.Decimal `json:"final_tax_due"`
}
