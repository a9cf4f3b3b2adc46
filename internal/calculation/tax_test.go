package calculation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukpaye/payroll-engine/internal/domain"
	"github.com/ukpaye/payroll-engine/internal/taxcode"
)

func TestTaxCalculation(t *testing.T) {
	factory := testFactory(t)

	tests := []struct {
		name      string
		country   domain.Country
		freq      domain.PayFrequency
		code      string
		period    int
		gross     string
		ytd       domain.TaxYtd
		wantTax   string
		wantBand  int
		wantCumul bool
	}{
		{
			name: "Monthly basic rate", country: domain.England, freq: domain.Monthly,
			code: "1257L", period: 1, gross: "2500",
			wantTax: "290.20", wantBand: 0, wantCumul: true, // (2500 - 1048.25) truncated to 1451 at 20%
		},
		{
			name: "Monthly into higher rate", country: domain.England, freq: domain.Monthly,
			code: "1257L", period: 1, gross: "6000",
			wantTax: "1352.06", wantBand: 1, wantCumul: true, // 628.3333 + (4951 - 3141.6666) at 40%
		},
		{
			name: "Scottish intermediate rate", country: domain.Scotland, freq: domain.Monthly,
			code: "S1257L", period: 1, gross: "2500",
			wantTax: "289.92", wantBand: 2, wantCumul: true, // 246.3275 + (1451 - 1243.4166) at 21%
		},
		{
			name: "BR charges everything at basic rate", country: domain.Wales, freq: domain.Monthly,
			code: "BR", period: 3, gross: "2000",
			ytd:     domain.TaxYtd{TaxablePayToDate: dec("4000"), TaxPaidToDate: dec("800")},
			wantTax: "400", wantBand: 0, wantCumul: true,
		},
		{
			name: "D0 charges everything at higher rate", country: domain.England, freq: domain.Monthly,
			code: "D0", period: 1, gross: "2000",
			wantTax: "800", wantBand: 1, wantCumul: true,
		},
		{
			name: "D1 charges everything at additional rate", country: domain.England, freq: domain.Monthly,
			code: "D1", period: 1, gross: "2000",
			wantTax: "900", wantBand: 2, wantCumul: true,
		},
		{
			name: "Scottish D2 charges the advanced rate", country: domain.Scotland, freq: domain.Monthly,
			code: "SD2", period: 1, gross: "2000",
			wantTax: "900", wantBand: 4, wantCumul: true,
		},
		{
			name: "Month 1 ignores year to date", country: domain.England, freq: domain.Monthly,
			code: "1257L M1", period: 6, gross: "2500",
			ytd:     domain.TaxYtd{TaxablePayToDate: dec("50000"), TaxPaidToDate: dec("9000")},
			wantTax: "290.20", wantBand: 0, wantCumul: false,
		},
		{
			name: "Week 53 is worked on a week 1 basis", country: domain.England, freq: domain.Weekly,
			code: "1257L", period: 53, gross: "500",
			ytd:     domain.TaxYtd{TaxablePayToDate: dec("26000"), TaxPaidToDate: dec("2683.20")},
			wantTax: "51.60", wantBand: 0, wantCumul: false, // (500 - 241.91) truncated to 258 at 20%
		},
		{
			name: "Below the personal allowance", country: domain.England, freq: domain.Monthly,
			code: "1257L", period: 1, gross: "1000",
			wantTax: "0", wantBand: -1, wantCumul: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc, err := factory.TaxCalculator(payDate2526, tt.country, tt.freq)
			require.NoError(t, err)

			res, err := calc.Calculate(TaxPeriodInputs{
				Code:               taxcode.MustParse(tt.code),
				Period:             tt.period,
				GrossPayThisPeriod: dec(tt.gross),
			}, tt.ytd)
			require.NoError(t, err)

			assert.True(t, res.FinalTaxDue.Equal(dec(tt.wantTax)), "tax due %s, want %s", res.FinalTaxDue, tt.wantTax)
			assert.Equal(t, tt.wantBand, res.HighestBandIndex)
			assert.Equal(t, tt.wantCumul, res.Cumulative)
			assert.True(t, res.TaxUnpaidDueToRegulatoryLimit.IsZero())
		})
	}
}

func TestTaxCalculationIntermediateValues(t *testing.T) {
	calc, err := testFactory(t).TaxCalculator(payDate2526, domain.England, domain.Monthly)
	require.NoError(t, err)

	res, err := calc.Calculate(TaxPeriodInputs{Code: taxcode.MustParse("1257L"), Period: 1, GrossPayThisPeriod: dec("6000")}, domain.TaxYtd{})
	require.NoError(t, err)

	assert.True(t, res.TaxablePayToDate.Equal(dec("6000")))
	assert.True(t, res.TaxFreePayToDate.Equal(dec("1048.25")))
	assert.True(t, res.TaxableSalaryAfterTaxFreePay.Equal(dec("4951")))
	require.Len(t, res.Allocations, 2)
	assert.True(t, res.Allocations[0].Income.Equal(dec("3141.6666")))
	assert.True(t, res.IncomeInHighest.Equal(dec("1809.3334")))
	assert.True(t, res.TaxInHighest.Equal(dec("723.73336")))
	assert.True(t, res.RegulatoryLimit.Equal(dec("3000")))
}

// Operating a cumulative code period by period ends the year on the same
// figure as one annual calculation on the year's pay.
func TestTaxCumulativeMatchesAnnual(t *testing.T) {
	factory := testFactory(t)
	code := taxcode.MustParse("1257L")

	monthly, err := factory.TaxCalculator(payDate2526, domain.England, domain.Monthly)
	require.NoError(t, err)

	var ytd domain.TaxYtd
	total := decimal.Zero
	for period := 1; period <= 12; period++ {
		res, err := monthly.Calculate(TaxPeriodInputs{Code: code, Period: period, GrossPayThisPeriod: dec("2500")}, ytd)
		require.NoError(t, err)
		total = total.Add(res.FinalTaxDue)
		ytd = domain.TaxYtd{
			TaxablePayToDate: res.TaxablePayToDate,
			TaxPaidToDate:    ytd.TaxPaidToDate.Add(res.FinalTaxDue),
		}
	}

	annual, err := factory.TaxCalculator(payDate2526, domain.England, domain.Annually)
	require.NoError(t, err)
	res, err := annual.Calculate(TaxPeriodInputs{Code: code, Period: 1, GrossPayThisPeriod: dec("30000")}, domain.TaxYtd{})
	require.NoError(t, err)

	assert.True(t, total.Equal(dec("3484.20")), "sum of periods %s", total)
	assert.True(t, res.FinalTaxDue.Equal(total), "annual %s, periods %s", res.FinalTaxDue, total)
}

func TestTaxRegulatoryLimit(t *testing.T) {
	logger := &recordingLogger{}
	factory := testFactory(t)
	factory.SetLogger(logger)

	calc, err := factory.TaxCalculator(payDate2526, domain.England, domain.Monthly)
	require.NoError(t, err)

	res, err := calc.Calculate(TaxPeriodInputs{Code: taxcode.MustParse("K5000"), Period: 1, GrossPayThisPeriod: dec("1000")}, domain.TaxYtd{})
	require.NoError(t, err)

	assert.True(t, res.TaxFreePayToDate.Equal(dec("-4167.42")))
	assert.True(t, res.TaxableSalaryAfterTaxFreePay.Equal(dec("5167")))
	assert.True(t, res.TaxDueBeforeRegulatoryLimit.Equal(dec("1438.46")))
	assert.True(t, res.RegulatoryLimit.Equal(dec("500")))
	assert.True(t, res.FinalTaxDue.Equal(dec("500")))
	assert.True(t, res.TaxUnpaidDueToRegulatoryLimit.Equal(dec("938.46")))
	assert.Equal(t, 1, logger.count("WARN"))
}

func TestTaxUnpaidBroughtForwardNonCumulative(t *testing.T) {
	calc, err := testFactory(t).TaxCalculator(payDate2526, domain.England, domain.Monthly)
	require.NoError(t, err)

	res, err := calc.Calculate(TaxPeriodInputs{Code: taxcode.MustParse("1257L M1"), Period: 2, GrossPayThisPeriod: dec("2500")},
		domain.TaxYtd{TaxUnpaidBroughtForward: dec("50")})
	require.NoError(t, err)
	assert.True(t, res.FinalTaxDue.Equal(dec("340.20")))

	// Cumulative codes recover it through tax paid to date instead.
	res, err = calc.Calculate(TaxPeriodInputs{Code: taxcode.MustParse("1257L"), Period: 1, GrossPayThisPeriod: dec("2500")},
		domain.TaxYtd{TaxUnpaidBroughtForward: dec("50")})
	require.NoError(t, err)
	assert.True(t, res.FinalTaxDue.Equal(dec("290.20")))
}

func TestTaxRefundIsNotCapped(t *testing.T) {
	calc, err := testFactory(t).TaxCalculator(payDate2526, domain.England, domain.Monthly)
	require.NoError(t, err)

	res, err := calc.Calculate(TaxPeriodInputs{Code: taxcode.MustParse("1257L"), Period: 2, GrossPayThisPeriod: decimal.Zero},
		domain.TaxYtd{TaxablePayToDate: dec("2500"), TaxPaidToDate: dec("290.20")})
	require.NoError(t, err)

	assert.True(t, res.TaxDueToDate.Equal(dec("80.60")))
	assert.True(t, res.FinalTaxDue.Equal(dec("-209.60")), "refund %s", res.FinalTaxDue)
	assert.True(t, res.TaxUnpaidDueToRegulatoryLimit.IsZero())
}

func TestTaxNoTaxCode(t *testing.T) {
	calc, err := testFactory(t).TaxCalculator(payDate2526, domain.England, domain.Monthly)
	require.NoError(t, err)

	res, err := calc.Calculate(TaxPeriodInputs{Code: taxcode.MustParse("NT"), Period: 1, GrossPayThisPeriod: dec("100000")}, domain.TaxYtd{})
	require.NoError(t, err)
	assert.True(t, res.FinalTaxDue.IsZero())
	assert.Empty(t, res.Allocations)
}

func TestTaxRejectsBadInput(t *testing.T) {
	factory := testFactory(t)
	england, err := factory.TaxCalculator(payDate2526, domain.England, domain.Monthly)
	require.NoError(t, err)
	weekly, err := factory.TaxCalculator(payDate2526, domain.England, domain.Weekly)
	require.NoError(t, err)

	tests := []struct {
		name string
		calc *TaxCalculator
		in   TaxPeriodInputs
		ytd  domain.TaxYtd
		want error
	}{
		{"Missing code", england, TaxPeriodInputs{Period: 1, GrossPayThisPeriod: dec("1")}, domain.TaxYtd{}, domain.ErrInvalidInput},
		{"Scottish code in England", england, TaxPeriodInputs{Code: taxcode.MustParse("S1257L"), Period: 1}, domain.TaxYtd{}, domain.ErrInvalidInput},
		{"Month 13", england, TaxPeriodInputs{Code: taxcode.MustParse("1257L"), Period: 13}, domain.TaxYtd{}, domain.ErrInvalidInput},
		{"Week 54", weekly, TaxPeriodInputs{Code: taxcode.MustParse("1257L"), Period: 54}, domain.TaxYtd{}, domain.ErrInvalidInput},
		{"Negative gross", england, TaxPeriodInputs{Code: taxcode.MustParse("1257L"), Period: 1, GrossPayThisPeriod: dec("-1")}, domain.TaxYtd{}, domain.ErrInvalidInput},
		{"Negative taxable to date", england, TaxPeriodInputs{Code: taxcode.MustParse("1257L"), Period: 2}, domain.TaxYtd{TaxablePayToDate: dec("-1")}, domain.ErrInvalidInput},
		{"D2 beyond rUK bands", england, TaxPeriodInputs{Code: taxcode.MustParse("D2"), Period: 1, GrossPayThisPeriod: dec("100")}, domain.TaxYtd{}, domain.ErrInconsistentData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.calc.Calculate(tt.in, tt.ytd)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}
