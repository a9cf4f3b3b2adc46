package calculation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukpaye/payroll-engine/internal/domain"
)

func TestFactoryResolvesByPayDate(t *testing.T) {
	factory := testFactory(t)

	// 5 January 2024 is the last day of the 12% main rate
	before, err := factory.NiCalculator(date(2024, 1, 5), domain.England, domain.Weekly)
	require.NoError(t, err)
	after, err := factory.NiCalculator(date(2024, 1, 6), domain.England, domain.Weekly)
	require.NoError(t, err)

	in := domain.NiPeriodInputs{Category: 'A', GrossNicablePay: dec("600")}
	r1, err := before.Calculate(in)
	require.NoError(t, err)
	r2, err := after.Calculate(in)
	require.NoError(t, err)
	assert.True(t, r1.EmployeeContribution.Equal(dec("42.96")))
	assert.True(t, r2.EmployeeContribution.Equal(dec("35.80")))
}

func TestFactoryErrors(t *testing.T) {
	factory := testFactory(t)

	_, err := factory.TaxCalculator(date(2020, 5, 1), domain.England, domain.Monthly)
	assert.True(t, errors.Is(err, domain.ErrNoApplicableReferenceData))

	var rde *domain.ReferenceDataError
	require.True(t, errors.As(err, &rde))
	assert.Equal(t, domain.CollectionTaxBands, rde.Collection)

	_, err = factory.NiCalculator(payDate2526, domain.AllCountries, domain.Monthly)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = factory.PensionCalculator(payDate2526, domain.England, domain.PayFrequency(99))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = NewFactory(nil, nil).ReclaimCalculator(payDate2526, domain.England)
	assert.True(t, errors.Is(err, domain.ErrInconsistentData))
}

func TestFactoryRejectsUnsupportedTaxYear(t *testing.T) {
	factory := testFactory(t)
	assert.Equal(t, date(2026, 4, 5), factory.ReferenceData().SupportedTo)

	_, err := factory.TaxCalculator(date(2026, 4, 5), domain.England, domain.Monthly)
	assert.NoError(t, err)

	// The 2025/26 windows are open-ended but must not be applied to later years
	_, err = factory.TaxCalculator(date(2030, 5, 1), domain.England, domain.Monthly)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInconsistentData))
	assert.False(t, errors.Is(err, domain.ErrNoApplicableReferenceData))
	assert.Contains(t, err.Error(), "2030/31")

	_, err = factory.NiCalculator(date(2026, 4, 6), domain.Scotland, domain.Weekly)
	assert.True(t, errors.Is(err, domain.ErrInconsistentData))
	_, err = factory.ReclaimCalculator(date(2026, 4, 6), domain.Wales)
	assert.True(t, errors.Is(err, domain.ErrInconsistentData))
}

func TestFactoryEveryCalculator(t *testing.T) {
	factory := testFactory(t)
	require.NotNil(t, factory.ReferenceData())

	_, err := factory.TaxCalculator(payDate2526, domain.Scotland, domain.FourWeekly)
	assert.NoError(t, err)
	_, err = factory.DirectorsNiCalculator(payDate2526, domain.Wales, domain.Monthly)
	assert.NoError(t, err)
	_, err = factory.StudentLoanCalculator(payDate2526, domain.NorthernIreland, domain.TwoWeekly)
	assert.NoError(t, err)
	_, err = factory.PensionCalculator(payDate2526, domain.Scotland, domain.Annually)
	assert.NoError(t, err)
	_, err = factory.AttachmentOrderCalculator(payDate2526, domain.England, domain.Weekly)
	assert.NoError(t, err)
	_, err = factory.ReclaimCalculator(payDate2526, domain.Scotland)
	assert.NoError(t, err)
}
