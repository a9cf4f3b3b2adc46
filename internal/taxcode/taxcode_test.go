package taxcode

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukpaye/payroll-engine/internal/domain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		code          string
		kind          Kind
		number        int
		country       domain.Country
		nonCumulative bool
		dBand         int
	}{
		{"1257L", Allowance, 1257, 0, false, 0},
		{" 1257l ", Allowance, 1257, 0, false, 0},
		{"S1257L", Allowance, 1257, domain.Scotland, false, 0},
		{"C1257L", Allowance, 1257, domain.Wales, false, 0},
		{"1257L W1", Allowance, 1257, 0, true, 0},
		{"1257L/M1", Allowance, 1257, 0, true, 0},
		{"1257LX", Allowance, 1257, 0, true, 0},
		{"1257M", Allowance, 1257, 0, false, 0},
		{"K475", KCode, 475, 0, false, 0},
		{"SK100 M1", KCode, 100, domain.Scotland, true, 0},
		{"BR", BasicRate, 0, 0, false, 0},
		{"CBR", BasicRate, 0, domain.Wales, false, 0},
		{"D0", HigherBand, 0, 0, false, 0},
		{"SD2", HigherBand, 0, domain.Scotland, false, 2},
		{"0T", ZeroAllowance, 0, 0, false, 0},
		{"0T W1", ZeroAllowance, 0, 0, true, 0},
		{"NT", NoTax, 0, 0, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			tc, err := Parse(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, tc.Kind)
			assert.Equal(t, tt.number, tc.Number)
			assert.Equal(t, tt.country, tc.Country)
			assert.Equal(t, tt.nonCumulative, tc.NonCumulative)
			assert.Equal(t, tt.dBand, tc.DBand)
			assert.Equal(t, tt.code, tc.String())
		})
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, code := range []string{"", "L", "1257", "1257Q", "K0", "D4", "X1257L", "12345678L", "BRX1"} {
		t.Run(code, func(t *testing.T) {
			_, err := Parse(code)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTaxCode))
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))

			var iie *domain.InvalidInputError
			require.True(t, errors.As(err, &iie))
			assert.Equal(t, "tax_code", iie.Parameter)
		})
	}
}

func TestTaxFreePay(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		freq   domain.PayFrequency
		period int
		want   string
	}{
		{"1257L monthly period 1", "1257L", domain.Monthly, 1, "1048.25"},
		{"1257L monthly period 2", "1257L", domain.Monthly, 2, "2096.50"},
		{"1257L monthly full year", "1257L", domain.Monthly, 12, "12579"},
		{"1257L weekly rounds up", "1257L", domain.Weekly, 1, "241.91"},
		{"1257L weekly period 52", "1257L", domain.Weekly, 52, "12579.32"},
		{"1257L annual", "1257L", domain.Annually, 1, "12579"},
		{"K475 monthly rounds away from zero", "K475", domain.Monthly, 1, "-396.59"},
		{"K5000 monthly", "K5000", domain.Monthly, 1, "-4167.42"},
		{"BR has none", "BR", domain.Monthly, 1, "0"},
		{"0T has none", "0T", domain.Monthly, 6, "0"},
		{"NT has none", "NT", domain.Weekly, 3, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MustParse(tt.code).TaxFreePay(tt.freq, tt.period)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestFlatBandIndex(t *testing.T) {
	idx, ok := MustParse("BR").FlatBandIndex(0)
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	idx, ok = MustParse("D1").FlatBandIndex(0)
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	// Scottish bands: starter, basic, intermediate...
	idx, ok = MustParse("SD0").FlatBandIndex(1)
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	_, ok = MustParse("1257L").FlatBandIndex(0)
	assert.False(t, ok)
}

func TestUsesBands(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"1257L", true},
		{"K100", true},
		{"0T", true},
		{"S1257L W1", true},
		{"BR", false},
		{"D0", false},
		{"NT", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParse(tt.code).UsesBands())
		})
	}
}
