package config

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/ukpaye/payroll-engine/internal/domain"
	"github.com/ukpaye/payroll-engine/internal/refdata"
	"github.com/ukpaye/payroll-engine/pkg/dateutil"
)

//go:embed data/uk_reference_data.yaml
var defaultReferenceYAML []byte

const dateLayout = "2006-01-02"

// ReferenceDataLoader loads and validates legislative reference data
type ReferenceDataLoader struct{}

// NewReferenceDataLoader creates a new reference data loader
func NewReferenceDataLoader() *ReferenceDataLoader {
	return &ReferenceDataLoader{}
}

var (
	defaultOnce sync.Once
	defaultData *domain.ReferenceData
	defaultErr  error
)

// DefaultReferenceData returns the embedded UK data set. It is parsed once
// and shared; callers must not modify it.
func DefaultReferenceData() (*domain.ReferenceData, error) {
	defaultOnce.Do(func() {
		defaultData, defaultErr = NewReferenceDataLoader().Load(defaultReferenceYAML, "embedded:uk_reference_data.yaml")
	})
	return defaultData, defaultErr
}

// LoadFromFile loads reference data from a YAML file
func (l *ReferenceDataLoader) LoadFromFile(filename string) (*domain.ReferenceData, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return l.Load(data, filename)
}

// Load parses and validates a YAML reference data document
func (l *ReferenceDataLoader) Load(data []byte, source string) (*domain.ReferenceData, error) {
	var file referenceDataFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	rd, err := file.toDomain()
	if err != nil {
		return nil, fmt.Errorf("reference data %s: %w", source, err)
	}
	rd.Source = source
	if file.Source != "" {
		rd.Source = file.Source + " (" + source + ")"
	}

	// Without an explicit end the data covers the tax year of its latest window
	if file.SupportedTo != "" {
		rd.SupportedTo, err = time.Parse(dateLayout, file.SupportedTo)
		if err != nil {
			return nil, fmt.Errorf("reference data %s: supported_to %q: %w", source, file.SupportedTo, err)
		}
	} else if latest := rd.LatestValidFrom(); !latest.IsZero() {
		rd.SupportedTo = dateutil.TaxYearEnd(dateutil.TaxYearEnding(latest))
	}

	if err := refdata.ValidateReferenceData(rd); err != nil {
		return nil, fmt.Errorf("reference data validation failed: %w", err)
	}
	return rd, nil
}

// YAML document shapes. Enumerations and dates are kept as strings here and
// parsed when converting so errors can name the offending value.

type referenceDataFile struct {
	Source            string                `yaml:"source"`
	SupportedTo       string                `yaml:"supported_to"`
	TaxBands          []taxWindowDTO        `yaml:"tax_bands"`
	NationalInsurance []niWindowDTO         `yaml:"national_insurance"`
	StudentLoans      []loanWindowDTO       `yaml:"student_loans"`
	Pensions          []pensionWindowDTO    `yaml:"pensions"`
	AttachmentOrders  []attachmentWindowDTO `yaml:"attachment_orders"`
	StatutoryReclaim  []reclaimWindowDTO    `yaml:"statutory_reclaim"`
}

type windowDTO struct {
	ValidFrom     string   `yaml:"valid_from"`
	ValidTo       string   `yaml:"valid_to"`
	Jurisdictions []string `yaml:"jurisdictions"`
}

type taxWindowDTO struct {
	windowDTO           `yaml:",inline"`
	BasicRateIndex      int             `yaml:"basic_rate_index"`
	RegulatoryLimitRate decimal.Decimal `yaml:"regulatory_limit_rate"`
	Bands               []bandDTO       `yaml:"bands"`
}

type bandDTO struct {
	Name  string           `yaml:"name"`
	Rate  decimal.Decimal  `yaml:"rate"`
	Upper *decimal.Decimal `yaml:"upper"`
}

type niWindowDTO struct {
	windowDTO  `yaml:",inline"`
	Thresholds map[string]domain.ThresholdEntry `yaml:"thresholds"`
	Categories map[string]niCategoryDTO         `yaml:"categories"`
}

type niCategoryDTO struct {
	Employee []niRateDTO `yaml:"employee"`
	Employer []niRateDTO `yaml:"employer"`
}

type niRateDTO struct {
	From string          `yaml:"from"`
	Rate decimal.Decimal `yaml:"rate"`
}

type loanRateDTO struct {
	Rate      decimal.Decimal       `yaml:"rate"`
	Threshold domain.ThresholdEntry `yaml:"threshold"`
}

type loanWindowDTO struct {
	windowDTO    `yaml:",inline"`
	Plans        map[string]loanRateDTO `yaml:"plans"`
	Postgraduate loanRateDTO            `yaml:"postgraduate"`
}

type pensionWindowDTO struct {
	windowDTO               `yaml:",inline"`
	BasicRateRelief         decimal.Decimal       `yaml:"basic_rate_relief"`
	LowerQualifyingEarnings domain.ThresholdEntry `yaml:"lower_qualifying_earnings"`
	UpperQualifyingEarnings domain.ThresholdEntry `yaml:"upper_qualifying_earnings"`
}

type attachmentWindowDTO struct {
	windowDTO `yaml:",inline"`
	Tables    map[string]attachmentTableDTO `yaml:"tables"`
}

type attachmentTableDTO struct {
	Description string                         `yaml:"description"`
	Bands       map[string][]attachmentBandDTO `yaml:"bands"`
}

type attachmentBandDTO struct {
	Lower       decimal.Decimal  `yaml:"lower"`
	Upper       *decimal.Decimal `yaml:"upper"`
	RateType    string           `yaml:"rate_type"`
	Rate        decimal.Decimal  `yaml:"rate"`
	FixedAmount decimal.Decimal  `yaml:"fixed_amount"`
}

type reclaimWindowDTO struct {
	windowDTO                     `yaml:",inline"`
	StandardRate                  decimal.Decimal `yaml:"standard_rate"`
	SmallEmployerCompensationRate decimal.Decimal `yaml:"small_employer_compensation_rate"`
	SmallEmployerThreshold        decimal.Decimal `yaml:"small_employer_threshold"`
}

func toWindow[T any](w windowDTO, payload T) (domain.ApplicabilityWindow[T], error) {
	var out domain.ApplicabilityWindow[T]
	from, err := time.Parse(dateLayout, strings.TrimSpace(w.ValidFrom))
	if err != nil {
		return out, fmt.Errorf("valid_from %q: %w", w.ValidFrom, err)
	}
	to := domain.MaxDate
	if s := strings.TrimSpace(w.ValidTo); s != "" {
		if to, err = time.Parse(dateLayout, s); err != nil {
			return out, fmt.Errorf("valid_to %q: %w", w.ValidTo, err)
		}
	}
	set, err := domain.ParseCountrySet(w.Jurisdictions)
	if err != nil {
		return out, err
	}
	return domain.ApplicabilityWindow[T]{ValidFrom: from, ValidTo: to, Jurisdictions: set, Payload: payload}, nil
}

// thresholdComplete requires a published figure for every pay frequency
func thresholdComplete(name string, t domain.ThresholdEntry) error {
	for _, f := range domain.AllPayFrequencies() {
		v, _ := t.ForFrequency(f)
		if !v.IsPositive() {
			return fmt.Errorf("%w: %s has no %s value", domain.ErrInconsistentData, name, f)
		}
	}
	return nil
}

func (f referenceDataFile) toDomain() (*domain.ReferenceData, error) {
	rd := &domain.ReferenceData{}

	for i, w := range f.TaxBands {
		specs := make([]domain.BandSpec, len(w.Bands))
		for j, b := range w.Bands {
			specs[j] = domain.BandSpec{Name: b.Name, Rate: b.Rate, Upper: b.Upper}
		}
		set, err := domain.NewAnnualBandSet(specs, w.BasicRateIndex)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", domain.CollectionTaxBands, i, err)
		}
		win, err := toWindow(w.windowDTO, domain.TaxReferenceData{Bands: set, RegulatoryLimitRate: w.RegulatoryLimitRate})
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", domain.CollectionTaxBands, i, err)
		}
		rd.TaxBands = append(rd.TaxBands, win)
	}

	for i, w := range f.NationalInsurance {
		payload, err := w.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", domain.CollectionNi, i, err)
		}
		win, err := toWindow(w.windowDTO, payload)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", domain.CollectionNi, i, err)
		}
		rd.Ni = append(rd.Ni, win)
	}

	for i, w := range f.StudentLoans {
		payload := domain.StudentLoanReferenceData{
			Plans:        make(map[domain.StudentLoanPlan]domain.LoanRate, len(w.Plans)),
			Postgraduate: domain.LoanRate{Rate: w.Postgraduate.Rate, Threshold: w.Postgraduate.Threshold},
		}
		if err := thresholdComplete("postgraduate threshold", w.Postgraduate.Threshold); err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", domain.CollectionStudentLoans, i, err)
		}
		for name, r := range w.Plans {
			plan, err := domain.ParseStudentLoanPlan(name)
			if err != nil || plan == domain.NoStudentLoan {
				return nil, fmt.Errorf("%s[%d]: unknown plan %q", domain.CollectionStudentLoans, i, name)
			}
			if err := thresholdComplete(name+" threshold", r.Threshold); err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", domain.CollectionStudentLoans, i, err)
			}
			payload.Plans[plan] = domain.LoanRate{Rate: r.Rate, Threshold: r.Threshold}
		}
		win, err := toWindow(w.windowDTO, payload)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", domain.CollectionStudentLoans, i, err)
		}
		rd.StudentLoans = append(rd.StudentLoans, win)
	}

	for i, w := range f.Pensions {
		for name, t := range map[string]domain.ThresholdEntry{
			"lower_qualifying_earnings": w.LowerQualifyingEarnings,
			"upper_qualifying_earnings": w.UpperQualifyingEarnings,
		} {
			if err := thresholdComplete(name, t); err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", domain.CollectionPensions, i, err)
			}
		}
		win, err := toWindow(w.windowDTO, domain.PensionReferenceData{
			LowerQualifyingEarnings: w.LowerQualifyingEarnings,
			UpperQualifyingEarnings: w.UpperQualifyingEarnings,
			BasicRateRelief:         w.BasicRateRelief,
		})
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", domain.CollectionPensions, i, err)
		}
		rd.Pensions = append(rd.Pensions, win)
	}

	for i, w := range f.AttachmentOrders {
		payload, err := w.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", domain.CollectionAttachments, i, err)
		}
		win, err := toWindow(w.windowDTO, payload)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", domain.CollectionAttachments, i, err)
		}
		rd.Attachments = append(rd.Attachments, win)
	}

	for i, w := range f.StatutoryReclaim {
		win, err := toWindow(w.windowDTO, domain.ReclaimReferenceData{
			StandardRate:                  w.StandardRate,
			SmallEmployerCompensationRate: w.SmallEmployerCompensationRate,
			SmallEmployerThreshold:        w.SmallEmployerThreshold,
		})
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", domain.CollectionReclaim, i, err)
		}
		rd.Reclaim = append(rd.Reclaim, win)
	}

	return rd, nil
}

func (w niWindowDTO) toDomain() (domain.NiReferenceData, error) {
	out := domain.NiReferenceData{
		Thresholds: make(map[domain.NiThresholdType]domain.ThresholdEntry, len(w.Thresholds)),
		Categories: make(map[domain.NiCategory]domain.NiCategoryRates, len(w.Categories)),
	}
	for name, t := range w.Thresholds {
		tt, err := domain.ParseNiThresholdType(name)
		if err != nil {
			return out, err
		}
		if err := thresholdComplete(name, t); err != nil {
			return out, err
		}
		out.Thresholds[tt] = t
	}

	convert := func(rates []niRateDTO) ([]domain.NiRateEntry, error) {
		entries := make([]domain.NiRateEntry, 0, len(rates))
		for _, r := range rates {
			tt, err := domain.ParseNiThresholdType(r.From)
			if err != nil {
				return nil, err
			}
			entries = append(entries, domain.NiRateEntry{From: tt, Rate: r.Rate})
		}
		return entries, nil
	}

	// Sorted so that errors are reported deterministically.
	names := make([]string, 0, len(w.Categories))
	for name := range w.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cat, err := domain.ParseNiCategory(name)
		if err != nil {
			return out, err
		}
		c := w.Categories[name]
		employee, err := convert(c.Employee)
		if err != nil {
			return out, fmt.Errorf("category %s employee: %w", name, err)
		}
		employer, err := convert(c.Employer)
		if err != nil {
			return out, fmt.Errorf("category %s employer: %w", name, err)
		}
		out.Categories[cat] = domain.NiCategoryRates{Employee: employee, Employer: employer}
	}
	return out, nil
}

func (w attachmentWindowDTO) toDomain() (domain.AttachmentReferenceData, error) {
	out := domain.AttachmentReferenceData{Tables: make(map[string]domain.AttachmentRateTable, len(w.Tables))}
	for id, t := range w.Tables {
		table := domain.AttachmentRateTable{
			ID:          id,
			Description: t.Description,
			Bands:       make(map[domain.PayFrequency][]domain.AttachmentRateBand, len(t.Bands)),
		}
		for freqName, bands := range t.Bands {
			f, err := domain.ParsePayFrequency(freqName)
			if err != nil {
				return out, fmt.Errorf("table %s: %w", id, err)
			}
			for _, b := range bands {
				rt := domain.FlatPercentage
				if b.RateType != "" {
					if rt, err = domain.ParseAttachmentRateType(b.RateType); err != nil {
						return out, fmt.Errorf("table %s: %w", id, err)
					}
				}
				table.Bands[f] = append(table.Bands[f], domain.AttachmentRateBand{
					Lower: b.Lower, Upper: b.Upper, RateType: rt, Rate: b.Rate, FixedAmount: b.FixedAmount,
				})
			}
		}
		out.Tables[id] = table
	}
	return out, nil
}
