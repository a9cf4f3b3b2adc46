package decimal

import (
	"errors"
	"testing"

	stddec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) stddec.Decimal { return stddec.RequireFromString(s) }

func TestRoundTaxBand(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		expected    string
		description string
	}{
		{"Exact", "3141.5", "3141.5", "already within four places"},
		{"Truncates fifth place", "3141.66666666666", "3141.6666", "one twelfth of 37700"},
		{"Float noise resolves up", "1.99999999996", "2", "ten-place pre-round removes noise"},
		{"Toward zero", "0.12349", "0.1234", "never rounds up at four places"},
		{"Negative toward zero", "-0.12349", "-0.1234", "toward zero for negatives"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundTaxBand(d(tt.in))
			assert.True(t, got.Equal(d(tt.expected)), "%s: expected %s, got %s", tt.description, tt.expected, got)
		})
	}
}

func TestRoundNi(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"Whole pence", "28.64", "28.64"},
		{"Third decimal 5 rounds down", "28.645", "28.64"},
		{"Third decimal 5 with tail rounds down", "28.6459", "28.64"},
		{"Third decimal 6 rounds up", "28.646", "28.65"},
		{"Third decimal 9 rounds up", "0.009", "0.01"},
		{"Sub-penny", "0.0008", "0"},
		{"Zero", "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RoundNi(d(tt.in))
			require.NoError(t, err)
			assert.True(t, got.Equal(d(tt.expected)), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestRoundNiIsIdempotent(t *testing.T) {
	for _, in := range []string{"0", "0.005", "0.006", "12.3456", "75.599", "1000.0051"} {
		once, err := RoundNi(d(in))
		require.NoError(t, err)
		twice, err := RoundNi(once)
		require.NoError(t, err)
		assert.True(t, once.Equal(twice), "RoundNi(%s) not idempotent: %s then %s", in, once, twice)
	}
}

func TestRoundNiRejectsNegative(t *testing.T) {
	_, err := RoundNi(d("-1"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNegativeNiValue))
}

func TestRoundReclaim(t *testing.T) {
	assert.True(t, RoundReclaim(d("170.2001")).Equal(d("170.21")))
	assert.True(t, RoundReclaim(d("170.20")).Equal(d("170.20")))
	assert.True(t, RoundReclaim(d("-1.234")).Equal(d("-1.23")))
}

func TestMoneyHelpers(t *testing.T) {
	assert.True(t, TruncatePence(d("1438.46666")).Equal(d("1438.46")))
	assert.True(t, TruncatePounds(d("1451.75")).Equal(d("1451")))
	assert.True(t, TruncatePounds(d("-12.5")).Equal(d("-12")))
	assert.True(t, RoundPence(d("10.005")).Equal(d("10.01")))
	assert.True(t, RoundUpPence(d("241.9038")).Equal(d("241.91")))
	assert.True(t, RoundUpPence(d("-84.0833")).Equal(d("-84.09")))
}
