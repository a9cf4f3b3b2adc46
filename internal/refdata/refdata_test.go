package refdata

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukpaye/payroll-engine/internal/domain"
)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func window(from, to time.Time, j domain.CountrySet, payload string) domain.ApplicabilityWindow[string] {
	return domain.ApplicabilityWindow[string]{ValidFrom: from, ValidTo: to, Jurisdictions: j, Payload: payload}
}

func sampleWindows() []domain.ApplicabilityWindow[string] {
	return []domain.ApplicabilityWindow[string]{
		window(day(2024, 4, 6), day(2025, 4, 5), domain.AllCountries, "2024-25"),
		window(day(2025, 4, 6), domain.MaxDate, domain.RestOfUK, "2025-26 rUK"),
		window(day(2025, 4, 6), domain.MaxDate, domain.Scotland, "2025-26 Scotland"),
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		date    time.Time
		country domain.Country
		want    string
	}{
		{"First day of window", day(2024, 4, 6), domain.Wales, "2024-25"},
		{"Last day of window is inclusive", day(2025, 4, 5), domain.Scotland, "2024-25"},
		{"Jurisdiction split rUK", day(2025, 4, 6), domain.England, "2025-26 rUK"},
		{"Jurisdiction split Scotland", day(2025, 9, 30), domain.Scotland, "2025-26 Scotland"},
		{"Open ended", day(2040, 1, 1), domain.NorthernIreland, "2025-26 rUK"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve("test", sampleWindows(), tt.date, tt.country)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveNoMatch(t *testing.T) {
	_, err := Resolve("test", sampleWindows(), day(2024, 4, 5), domain.England)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoApplicableReferenceData))

	var rde *domain.ReferenceDataError
	require.True(t, errors.As(err, &rde))
	assert.Equal(t, "test", rde.Collection)
	assert.Equal(t, 0, rde.Matches)
}

func TestResolveAmbiguous(t *testing.T) {
	windows := append(sampleWindows(), window(day(2025, 1, 1), day(2025, 12, 31), domain.England, "overlap"))
	_, err := Resolve("test", windows, day(2025, 6, 1), domain.England)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAmbiguousReferenceData))

	var rde *domain.ReferenceDataError
	require.True(t, errors.As(err, &rde))
	assert.Equal(t, 2, rde.Matches)

	// Unaffected jurisdictions still resolve.
	got, err := Resolve("test", windows, day(2025, 6, 1), domain.Wales)
	require.NoError(t, err)
	assert.Equal(t, "2025-26 rUK", got)
}

func TestWindowReturnsRange(t *testing.T) {
	w, err := Window("test", sampleWindows(), day(2024, 12, 25), domain.England)
	require.NoError(t, err)
	assert.Equal(t, day(2024, 4, 6), w.ValidFrom)
	assert.Equal(t, "2024-25", w.Payload)
}

func TestValidateWindows(t *testing.T) {
	tests := []struct {
		name    string
		windows []domain.ApplicabilityWindow[string]
		wantErr error
	}{
		{"Valid", sampleWindows(), nil},
		{"Empty", nil, domain.ErrInconsistentData},
		{
			name:    "Reversed dates",
			windows: []domain.ApplicabilityWindow[string]{window(day(2025, 4, 6), day(2025, 4, 5), domain.AllCountries, "x")},
			wantErr: domain.ErrInconsistentData,
		},
		{
			name:    "No jurisdictions",
			windows: []domain.ApplicabilityWindow[string]{window(day(2025, 4, 6), domain.MaxDate, 0, "x")},
			wantErr: domain.ErrInconsistentData,
		},
		{
			name: "Overlap for one country",
			windows: []domain.ApplicabilityWindow[string]{
				window(day(2024, 4, 6), day(2025, 4, 6), domain.AllCountries, "a"),
				window(day(2025, 4, 6), domain.MaxDate, domain.AllCountries, "b"),
			},
			wantErr: domain.ErrAmbiguousReferenceData,
		},
		{
			name: "Latest window closed",
			windows: []domain.ApplicabilityWindow[string]{
				window(day(2024, 4, 6), day(2025, 4, 5), domain.AllCountries, "a"),
				window(day(2025, 4, 6), day(2026, 4, 5), domain.Scotland, "b"),
				window(day(2025, 4, 6), domain.MaxDate, domain.RestOfUK, "c"),
			},
			wantErr: domain.ErrInconsistentData,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWindows("test", tt.windows)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), err.Error())
		})
	}
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func flatThreshold(v string) domain.ThresholdEntry {
	x := d(v)
	return domain.ThresholdEntry{PerWeek: x, PerTwoWeeks: x, PerFourWeeks: x, PerMonth: x, PerQuarter: x, PerHalfYear: x, PerYear: x}
}

func minimalReferenceData(t *testing.T) *domain.ReferenceData {
	t.Helper()
	upper := d("37700")
	bands, err := domain.NewAnnualBandSet([]domain.BandSpec{
		{Name: "basic", Rate: d("0.2"), Upper: &upper},
		{Name: "higher", Rate: d("0.4")},
	}, 0)
	require.NoError(t, err)

	return &domain.ReferenceData{
		TaxBands: []domain.ApplicabilityWindow[domain.TaxReferenceData]{{
			ValidFrom: day(2025, 4, 6), ValidTo: domain.MaxDate, Jurisdictions: domain.AllCountries,
			Payload: domain.TaxReferenceData{Bands: bands, RegulatoryLimitRate: d("0.5")},
		}},
		Ni: []domain.ApplicabilityWindow[domain.NiReferenceData]{{
			ValidFrom: day(2025, 4, 6), ValidTo: domain.MaxDate, Jurisdictions: domain.AllCountries,
			Payload: domain.NiReferenceData{
				Thresholds: map[domain.NiThresholdType]domain.ThresholdEntry{
					domain.LEL: flatThreshold("125"), domain.PT: flatThreshold("242"),
					domain.ST: flatThreshold("96"), domain.UEL: flatThreshold("967"),
				},
				Categories: map[domain.NiCategory]domain.NiCategoryRates{
					'A': {
						Employee: []domain.NiRateEntry{{From: domain.LEL}, {From: domain.PT, Rate: d("0.08")}, {From: domain.UEL, Rate: d("0.02")}},
						Employer: []domain.NiRateEntry{{From: domain.LEL}, {From: domain.ST, Rate: d("0.15")}},
					},
				},
			},
		}},
	}
}

func TestValidateReferenceData(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, ValidateReferenceData(minimalReferenceData(t)))
	})

	t.Run("Category refers to undefined threshold", func(t *testing.T) {
		rd := minimalReferenceData(t)
		rd.Ni[0].Payload.Categories['H'] = domain.NiCategoryRates{
			Employer: []domain.NiRateEntry{{From: domain.AUST, Rate: d("0.15")}},
		}
		err := ValidateReferenceData(rd)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInconsistentData))
		assert.Contains(t, err.Error(), "AUST")
	})

	t.Run("Bands not contiguous", func(t *testing.T) {
		rd := minimalReferenceData(t)
		rd.TaxBands[0].Payload.Bands.Bands[1].LowerBound = d("40000")
		err := ValidateReferenceData(rd)
		assert.True(t, errors.Is(err, domain.ErrInconsistentData))
	})

	t.Run("Missing regulatory limit", func(t *testing.T) {
		rd := minimalReferenceData(t)
		rd.TaxBands[0].Payload.RegulatoryLimitRate = decimal.Zero
		assert.Error(t, ValidateReferenceData(rd))
	})

	t.Run("Pension upper below lower", func(t *testing.T) {
		rd := minimalReferenceData(t)
		rd.Pensions = []domain.ApplicabilityWindow[domain.PensionReferenceData]{{
			ValidFrom: day(2025, 4, 6), ValidTo: domain.MaxDate, Jurisdictions: domain.AllCountries,
			Payload: domain.PensionReferenceData{
				LowerQualifyingEarnings: flatThreshold("500"),
				UpperQualifyingEarnings: flatThreshold("400"),
			},
		}}
		assert.True(t, errors.Is(ValidateReferenceData(rd), domain.ErrInconsistentData))
	})

	t.Run("Nil", func(t *testing.T) {
		assert.Error(t, ValidateReferenceData(nil))
	})
}
