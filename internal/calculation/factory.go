package calculation

import (
	"fmt"
	"time"

	"github.com/ukpaye/payroll-engine/internal/domain"
	"github.com/ukpaye/payroll-engine/internal/refdata"
	"github.com/ukpaye/payroll-engine/pkg/dateutil"
)

// Factory hands out calculators bound to the reference data in force on a
// pay date. The reference data is shared read-only, so a Factory and the
// calculators it returns are safe for concurrent use.
type Factory struct {
	refData *domain.ReferenceData
	Logger  Logger
}

// NewFactory creates a calculator factory. A nil logger is replaced with NopLogger.
func NewFactory(rd *domain.ReferenceData, logger Logger) *Factory {
	return &Factory{refData: rd, Logger: loggerOrNop(logger)}
}

// SetLogger sets the logger passed to new calculators. If nil is provided, a no-op logger is used.
func (f *Factory) SetLogger(l Logger) {
	f.Logger = loggerOrNop(l)
}

// ReferenceData returns the data the factory resolves against
func (f *Factory) ReferenceData() *domain.ReferenceData { return f.refData }

func checkFrequency(freq domain.PayFrequency) error {
	if !freq.Valid() {
		return invalidInput("pay_frequency", freq, "unknown pay frequency")
	}
	return nil
}

func (f *Factory) check(payDate time.Time, country domain.Country) error {
	if f.refData == nil {
		return fmt.Errorf("%w: no reference data loaded", domain.ErrInconsistentData)
	}
	if !f.refData.Supports(payDate) {
		return fmt.Errorf("%w: pay date %s is in tax year %s, reference data %s ends %s", domain.ErrInconsistentData,
			payDate.Format("2006-01-02"), dateutil.TaxYearLabel(dateutil.TaxYearEnding(payDate)),
			f.refData.Source, f.refData.SupportedTo.Format("2006-01-02"))
	}
	if !country.IsSingle() {
		return invalidInput("country", country, "must be exactly one country")
	}
	return nil
}

// TaxCalculator returns an income tax calculator for the pay date
func (f *Factory) TaxCalculator(payDate time.Time, country domain.Country, freq domain.PayFrequency) (*TaxCalculator, error) {
	if err := f.check(payDate, country); err != nil {
		return nil, err
	}
	if err := checkFrequency(freq); err != nil {
		return nil, err
	}
	data, err := refdata.Resolve(domain.CollectionTaxBands, f.refData.TaxBands, payDate, country)
	if err != nil {
		return nil, err
	}
	return NewTaxCalculator(country, freq, data, f.Logger), nil
}

// NiCalculator returns an NI calculator for the pay date
func (f *Factory) NiCalculator(payDate time.Time, country domain.Country, freq domain.PayFrequency) (*NiCalculator, error) {
	if err := f.check(payDate, country); err != nil {
		return nil, err
	}
	if err := checkFrequency(freq); err != nil {
		return nil, err
	}
	data, err := refdata.Resolve(domain.CollectionNi, f.refData.Ni, payDate, country)
	if err != nil {
		return nil, err
	}
	return NewNiCalculator(freq, data, f.Logger), nil
}

// DirectorsNiCalculator returns a directors' NI calculator for the pay date
func (f *Factory) DirectorsNiCalculator(payDate time.Time, country domain.Country, freq domain.PayFrequency) (*DirectorsNiCalculator, error) {
	if err := f.check(payDate, country); err != nil {
		return nil, err
	}
	if err := checkFrequency(freq); err != nil {
		return nil, err
	}
	data, err := refdata.Resolve(domain.CollectionNi, f.refData.Ni, payDate, country)
	if err != nil {
		return nil, err
	}
	return NewDirectorsNiCalculator(freq, data, f.Logger), nil
}

// StudentLoanCalculator returns a student and postgraduate loan calculator for the pay date
func (f *Factory) StudentLoanCalculator(payDate time.Time, country domain.Country, freq domain.PayFrequency) (*StudentLoanCalculator, error) {
	if err := f.check(payDate, country); err != nil {
		return nil, err
	}
	if err := checkFrequency(freq); err != nil {
		return nil, err
	}
	data, err := refdata.Resolve(domain.CollectionStudentLoans, f.refData.StudentLoans, payDate, country)
	if err != nil {
		return nil, err
	}
	return NewStudentLoanCalculator(freq, data, f.Logger), nil
}

// PensionCalculator returns a workplace pension calculator for the pay date
func (f *Factory) PensionCalculator(payDate time.Time, country domain.Country, freq domain.PayFrequency) (*PensionCalculator, error) {
	if err := f.check(payDate, country); err != nil {
		return nil, err
	}
	if err := checkFrequency(freq); err != nil {
		return nil, err
	}
	data, err := refdata.Resolve(domain.CollectionPensions, f.refData.Pensions, payDate, country)
	if err != nil {
		return nil, err
	}
	return NewPensionCalculator(freq, data, f.Logger), nil
}

// AttachmentOrderCalculator returns an attachment order calculator for the pay date
func (f *Factory) AttachmentOrderCalculator(payDate time.Time, country domain.Country, freq domain.PayFrequency) (*AttachmentOrderCalculator, error) {
	if err := f.check(payDate, country); err != nil {
		return nil, err
	}
	if err := checkFrequency(freq); err != nil {
		return nil, err
	}
	data, err := refdata.Resolve(domain.CollectionAttachments, f.refData.Attachments, payDate, country)
	if err != nil {
		return nil, err
	}
	return NewAttachmentOrderCalculator(freq, data, f.Logger), nil
}

// ReclaimCalculator returns a statutory payment reclaim calculator for the pay date
func (f *Factory) ReclaimCalculator(payDate time.Time, country domain.Country) (*ReclaimCalculator, error) {
	if err := f.check(payDate, country); err != nil {
		return nil, err
	}
	data, err := refdata.Resolve(domain.CollectionReclaim, f.refData.Reclaim, payDate, country)
	if err != nil {
		return nil, err
	}
	return NewReclaimCalculator(data, f.Logger), nil
}
