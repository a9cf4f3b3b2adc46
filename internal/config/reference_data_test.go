package config

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukpaye/payroll-engine/internal/domain"
	"github.com/ukpaye/payroll-engine/internal/refdata"
)

// minimalReference is a complete document with one open-ended window per collection
const minimalReference = `
source: "test data"
definitions:
  flat_100: &flat_100 {weekly: 100, two_weekly: 200, four_weekly: 400, monthly: 433, quarterly: 1300, bi_annually: 2600, annually: 5200}
  flat_200: &flat_200 {weekly: 200, two_weekly: 400, four_weekly: 800, monthly: 866, quarterly: 2600, bi_annually: 5200, annually: 10400}
  flat_900: &flat_900 {weekly: 900, two_weekly: 1800, four_weekly: 3600, monthly: 3900, quarterly: 11700, bi_annually: 23400, annually: 46800}
tax_bands:
  - valid_from: "2025-04-06"
    jurisdictions: [england, scotland, wales, northern_ireland]
    basic_rate_index: 0
    regulatory_limit_rate: 0.5
    bands:
      - {name: basic, rate: 0.20, upper: 37700}
      - {name: higher, rate: 0.40}
national_insurance:
  - valid_from: "2025-04-06"
    jurisdictions: [uk]
    thresholds: {LEL: *flat_100, PT: *flat_200, ST: *flat_100, UEL: *flat_900}
    categories:
      A: {employee: [{from: PT, rate: 0.08}, {from: UEL, rate: 0.02}], employer: [{from: ST, rate: 0.15}]}
`

func TestDefaultReferenceData(t *testing.T) {
	rd, err := DefaultReferenceData()
	require.NoError(t, err)
	require.NotNil(t, rd)

	assert.Contains(t, rd.Source, "embedded:uk_reference_data.yaml")
	assert.Len(t, rd.TaxBands, 6)
	assert.Len(t, rd.Ni, 4)
	assert.NotEmpty(t, rd.StudentLoans)
	assert.NotEmpty(t, rd.Pensions)
	assert.NotEmpty(t, rd.Attachments)
	assert.NotEmpty(t, rd.Reclaim)

	again, err := DefaultReferenceData()
	require.NoError(t, err)
	assert.Same(t, rd, again)
}

func TestDefaultReferenceDataContents(t *testing.T) {
	rd, err := DefaultReferenceData()
	require.NoError(t, err)
	payDate := time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)

	scotland, err := refdata.Resolve(domain.CollectionTaxBands, rd.TaxBands, payDate, domain.Scotland)
	require.NoError(t, err)
	assert.Len(t, scotland.Bands.Bands, 6)
	assert.Equal(t, 1, scotland.Bands.BasicRateIndex)
	assert.Equal(t, "starter", scotland.Bands.Bands[0].Name)

	// Anchored band lists are shared across the rUK windows
	ruk, err := refdata.Resolve(domain.CollectionTaxBands, rd.TaxBands, payDate, domain.Wales)
	require.NoError(t, err)
	require.Len(t, ruk.Bands.Bands, 3)
	assert.True(t, ruk.Bands.Bands[1].CumulativeTaxAnnual.Equal(decimal.NewFromInt(42516)))

	ni, err := refdata.Resolve(domain.CollectionNi, rd.Ni, payDate, domain.NorthernIreland)
	require.NoError(t, err)
	assert.True(t, ni.Thresholds[domain.ST].PerWeek.Equal(decimal.NewFromInt(96)))
	assert.True(t, ni.Thresholds[domain.LEL].PerWeek.Equal(decimal.NewFromInt(125)))
	require.Contains(t, ni.Categories, domain.NiCategory('A'))
	assert.True(t, ni.Categories['A'].Employer[0].Rate.Equal(decimal.RequireFromString("0.15")))

	attach, err := refdata.Resolve(domain.CollectionAttachments, rd.Attachments, payDate, domain.England)
	require.NoError(t, err)
	table := attach.Tables["council_tax_england"]
	weekly := table.Bands[domain.Weekly]
	require.NotEmpty(t, weekly)
	top := weekly[len(weekly)-1]
	assert.Equal(t, domain.FixedPlusPercentage, top.RateType)
	assert.True(t, top.FixedAmount.Equal(decimal.RequireFromString("85.85")))
	assert.Nil(t, top.Upper)
}

func TestLoadMinimalReference(t *testing.T) {
	rd, err := NewReferenceDataLoader().Load([]byte(minimalReference), "inline")
	require.NoError(t, err)

	assert.Equal(t, "test data (inline)", rd.Source)
	require.Len(t, rd.TaxBands, 1)
	assert.True(t, rd.TaxBands[0].IsOpenEnded())
	assert.Equal(t, domain.AllCountries, rd.TaxBands[0].Jurisdictions)
	assert.Empty(t, rd.StudentLoans)
	assert.True(t, rd.Ni[0].Payload.Thresholds[domain.UEL].PerMonth.Equal(decimal.NewFromInt(3900)))

	// No supported_to: the data ends with the tax year of its latest window
	assert.Equal(t, time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC), rd.SupportedTo)

	explicit, err := NewReferenceDataLoader().Load([]byte(strings.Replace(minimalReference,
		`source: "test data"`, "source: \"test data\"\nsupported_to: \"2027-04-05\"", 1)), "inline")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2027, 4, 5, 0, 0, 0, 0, time.UTC), explicit.SupportedTo)
}

func TestLoadFromFile(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "reference_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	_, err = tmpfile.Write([]byte(minimalReference))
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	rd, err := NewReferenceDataLoader().LoadFromFile(tmpfile.Name())
	require.NoError(t, err)
	assert.Contains(t, rd.Source, tmpfile.Name())

	_, err = NewReferenceDataLoader().LoadFromFile("nonexistent.yaml")
	assert.Error(t, err)
}

func TestLoadRejectsInvalidReference(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr error
	}{
		{
			name: "Latest window closed",
			mutate: func(s string) string {
				return strings.Replace(s, `jurisdictions: [uk]`, `valid_to: "2026-04-05"
    jurisdictions: [uk]`, 1)
			},
			wantErr: domain.ErrInconsistentData,
		},
		{
			name: "Overlapping windows",
			mutate: func(s string) string {
				return s + `  - valid_from: "2025-10-01"
    jurisdictions: [wales]
    thresholds: {LEL: *flat_100, PT: *flat_200, ST: *flat_100, UEL: *flat_900}
    categories:
      A: {employee: [], employer: []}
`
			},
			wantErr: domain.ErrAmbiguousReferenceData,
		},
		{
			name:    "Unknown jurisdiction",
			mutate:  func(s string) string { return strings.Replace(s, "[uk]", "[atlantis]", 1) },
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "Missing required NI threshold",
			mutate:  func(s string) string { return strings.Replace(s, "PT: *flat_200, ", "", 1) },
			wantErr: domain.ErrInconsistentData,
		},
		{
			name: "Threshold missing a frequency",
			mutate: func(s string) string {
				return strings.Replace(s, "flat_900: &flat_900 {weekly: 900, ", "flat_900: &flat_900 {", 1)
			},
			wantErr: domain.ErrInconsistentData,
		},
		{
			name: "Open band below the top",
			mutate: func(s string) string {
				return strings.Replace(s, "rate: 0.20, upper: 37700", "rate: 0.20", 1)
			},
			wantErr: domain.ErrInconsistentData,
		},
		{
			name: "Regulatory limit out of range",
			mutate: func(s string) string {
				return strings.Replace(s, "regulatory_limit_rate: 0.5", "regulatory_limit_rate: 1.5", 1)
			},
			wantErr: domain.ErrInconsistentData,
		},
		{
			name: "Supported to before the latest window",
			mutate: func(s string) string {
				return strings.Replace(s, `source: "test data"`, `source: "test data"
supported_to: "2025-04-05"`, 1)
			},
			wantErr: domain.ErrInconsistentData,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReferenceDataLoader().Load([]byte(tt.mutate(minimalReference)), "inline")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestLoadRejectsMalformedDocuments(t *testing.T) {
	loader := NewReferenceDataLoader()

	_, err := loader.Load([]byte("tax_bands: [unterminated"), "inline")
	assert.Error(t, err)

	_, err = loader.Load([]byte(strings.Replace(minimalReference, `"2025-04-06"`, `"6 April 2025"`, 1)), "inline")
	assert.Error(t, err)

	_, err = loader.Load([]byte(strings.Replace(minimalReference, `source: "test data"`, "supported_to: soon", 1)), "inline")
	assert.Error(t, err)

	_, err = loader.Load([]byte(""), "inline")
	assert.True(t, errors.Is(err, domain.ErrInconsistentData))
}
