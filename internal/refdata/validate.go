package refdata

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ukpaye/payroll-engine/internal/domain"
)

// ValidateWindows checks the structural rules every collection must satisfy
// before any lookup is made against it:
//   - each window has a non-empty jurisdiction set and ValidFrom <= ValidTo
//   - windows never overlap for any single country
//   - the latest window for each country that appears is open-ended
func ValidateWindows[T any](collection string, windows []domain.ApplicabilityWindow[T]) error {
	if len(windows) == 0 {
		return fmt.Errorf("%s: %w: no windows defined", collection, domain.ErrInconsistentData)
	}
	for i, w := range windows {
		if w.Jurisdictions == 0 {
			return fmt.Errorf("%s: %w: window %d has no jurisdictions", collection, domain.ErrInconsistentData, i)
		}
		if w.ValidTo.Before(w.ValidFrom) {
			return fmt.Errorf("%s: %w: window %d ends %s before it starts %s", collection, domain.ErrInconsistentData,
				i, w.ValidTo.Format("2006-01-02"), w.ValidFrom.Format("2006-01-02"))
		}
	}

	for _, c := range domain.AllCountries.Countries() {
		var idx []int
		for i, w := range windows {
			if w.Jurisdictions.Contains(c) {
				idx = append(idx, i)
			}
		}
		if len(idx) == 0 {
			continue
		}
		sort.Slice(idx, func(a, b int) bool {
			return windows[idx[a]].ValidFrom.Before(windows[idx[b]].ValidFrom)
		})
		for k := 1; k < len(idx); k++ {
			prev, cur := windows[idx[k-1]], windows[idx[k]]
			if !cur.ValidFrom.After(prev.ValidTo) {
				return fmt.Errorf("%s: %w: windows %d and %d overlap for %s from %s", collection, domain.ErrAmbiguousReferenceData,
					idx[k-1], idx[k], c, cur.ValidFrom.Format("2006-01-02"))
			}
		}
		if last := windows[idx[len(idx)-1]]; !last.IsOpenEnded() {
			return fmt.Errorf("%s: %w: latest window for %s ends %s; it must be open-ended", collection, domain.ErrInconsistentData,
				c, last.ValidTo.Format("2006-01-02"))
		}
	}
	return nil
}

// ValidateReferenceData validates every collection and the payload of every window.
// Collections that are empty are skipped except tax bands and NI, which every pay run needs.
func ValidateReferenceData(rd *domain.ReferenceData) error {
	if rd == nil {
		return fmt.Errorf("%w: reference data is nil", domain.ErrInconsistentData)
	}
	if latest := rd.LatestValidFrom(); !rd.SupportedTo.IsZero() && rd.SupportedTo.Before(latest) {
		return fmt.Errorf("%w: supported_to %s is before the window starting %s", domain.ErrInconsistentData,
			rd.SupportedTo.Format("2006-01-02"), latest.Format("2006-01-02"))
	}

	if err := ValidateWindows(domain.CollectionTaxBands, rd.TaxBands); err != nil {
		return err
	}
	for i, w := range rd.TaxBands {
		if err := validateTaxBands(w.Payload); err != nil {
			return fmt.Errorf("%s window %d: %w", domain.CollectionTaxBands, i, err)
		}
	}

	if err := ValidateWindows(domain.CollectionNi, rd.Ni); err != nil {
		return err
	}
	for i, w := range rd.Ni {
		if err := validateNi(w.Payload); err != nil {
			return fmt.Errorf("%s window %d: %w", domain.CollectionNi, i, err)
		}
	}

	if len(rd.StudentLoans) > 0 {
		if err := ValidateWindows(domain.CollectionStudentLoans, rd.StudentLoans); err != nil {
			return err
		}
		for i, w := range rd.StudentLoans {
			if err := validateStudentLoans(w.Payload); err != nil {
				return fmt.Errorf("%s window %d: %w", domain.CollectionStudentLoans, i, err)
			}
		}
	}

	if len(rd.Pensions) > 0 {
		if err := ValidateWindows(domain.CollectionPensions, rd.Pensions); err != nil {
			return err
		}
		for i, w := range rd.Pensions {
			if err := validatePensions(w.Payload); err != nil {
				return fmt.Errorf("%s window %d: %w", domain.CollectionPensions, i, err)
			}
		}
	}

	if len(rd.Attachments) > 0 {
		if err := ValidateWindows(domain.CollectionAttachments, rd.Attachments); err != nil {
			return err
		}
		for i, w := range rd.Attachments {
			if err := validateAttachments(w.Payload); err != nil {
				return fmt.Errorf("%s window %d: %w", domain.CollectionAttachments, i, err)
			}
		}
	}

	if len(rd.Reclaim) > 0 {
		if err := ValidateWindows(domain.CollectionReclaim, rd.Reclaim); err != nil {
			return err
		}
		for i, w := range rd.Reclaim {
			if err := validateReclaim(w.Payload); err != nil {
				return fmt.Errorf("%s window %d: %w", domain.CollectionReclaim, i, err)
			}
		}
	}
	return nil
}

func validateTaxBands(t domain.TaxReferenceData) error {
	bands := t.Bands.Bands
	if len(bands) == 0 {
		return fmt.Errorf("%w: no bands", domain.ErrInconsistentData)
	}
	if !bands[0].LowerBound.IsZero() {
		return fmt.Errorf("%w: lowest band starts at %s, not zero", domain.ErrInconsistentData, bands[0].LowerBound)
	}
	for i, b := range bands {
		last := i == len(bands)-1
		if b.IsOpen() != last {
			return fmt.Errorf("%w: band %d (%s): only the top band may be open", domain.ErrInconsistentData, i, b.Name)
		}
		if i > 0 && (bands[i-1].UpperBound == nil || !bands[i-1].UpperBound.Equal(b.LowerBound)) {
			return fmt.Errorf("%w: band %d (%s) is not contiguous with the band below", domain.ErrInconsistentData, i, b.Name)
		}
	}
	if t.Bands.BasicRateIndex < 0 || t.Bands.BasicRateIndex >= len(bands) {
		return fmt.Errorf("%w: basic rate index %d out of range", domain.ErrInconsistentData, t.Bands.BasicRateIndex)
	}
	if t.RegulatoryLimitRate.LessThanOrEqual(decimal.Zero) || t.RegulatoryLimitRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: regulatory limit rate %s outside (0, 1]", domain.ErrInconsistentData, t.RegulatoryLimitRate)
	}
	return nil
}

func validateNi(ni domain.NiReferenceData) error {
	for _, tt := range []domain.NiThresholdType{domain.LEL, domain.PT, domain.ST, domain.UEL} {
		if _, ok := ni.Thresholds[tt]; !ok {
			return fmt.Errorf("%w: required threshold %s missing", domain.ErrInconsistentData, tt)
		}
	}
	for tt, entry := range ni.Thresholds {
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("threshold %s: %w", tt, err)
		}
	}
	if len(ni.Categories) == 0 {
		return fmt.Errorf("%w: no NI categories", domain.ErrInconsistentData)
	}
	for cat, rates := range ni.Categories {
		for side, entries := range map[string][]domain.NiRateEntry{"employee": rates.Employee, "employer": rates.Employer} {
			for _, e := range entries {
				if _, ok := ni.Thresholds[e.From]; !ok {
					return fmt.Errorf("%w: category %s %s rate refers to undefined threshold %s", domain.ErrInconsistentData, cat, side, e.From)
				}
				if e.Rate.IsNegative() {
					return fmt.Errorf("%w: category %s %s rate from %s is negative", domain.ErrInconsistentData, cat, side, e.From)
				}
			}
		}
	}
	return nil
}

func validateStudentLoans(sl domain.StudentLoanReferenceData) error {
	for plan, r := range sl.Plans {
		if err := validateLoanRate(r); err != nil {
			return fmt.Errorf("%s: %w", plan, err)
		}
	}
	if err := validateLoanRate(sl.Postgraduate); err != nil {
		return fmt.Errorf("postgraduate: %w", err)
	}
	return nil
}

func validateLoanRate(r domain.LoanRate) error {
	if r.Rate.IsNegative() || r.Rate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: rate %s outside [0, 1]", domain.ErrInconsistentData, r.Rate)
	}
	return r.Threshold.Validate()
}

func validatePensions(p domain.PensionReferenceData) error {
	if err := p.LowerQualifyingEarnings.Validate(); err != nil {
		return fmt.Errorf("lower qualifying earnings: %w", err)
	}
	if err := p.UpperQualifyingEarnings.Validate(); err != nil {
		return fmt.Errorf("upper qualifying earnings: %w", err)
	}
	for _, f := range domain.AllPayFrequencies() {
		lower, _ := p.LowerQualifyingEarnings.ForFrequency(f)
		upper, _ := p.UpperQualifyingEarnings.ForFrequency(f)
		if upper.LessThan(lower) {
			return fmt.Errorf("%w: %s upper qualifying earnings %s below lower %s", domain.ErrInconsistentData, f, upper, lower)
		}
	}
	return nil
}

func validateAttachments(a domain.AttachmentReferenceData) error {
	for id, table := range a.Tables {
		for f, bands := range table.Bands {
			if len(bands) == 0 {
				return fmt.Errorf("%w: table %s has an empty %s band list", domain.ErrInconsistentData, id, f)
			}
			for i, b := range bands {
				if b.Rate.IsNegative() || b.FixedAmount.IsNegative() {
					return fmt.Errorf("%w: table %s %s band %d has a negative rate or amount", domain.ErrInconsistentData, id, f, i)
				}
				if b.Upper != nil && b.Upper.LessThan(b.Lower) {
					return fmt.Errorf("%w: table %s %s band %d upper below lower", domain.ErrInconsistentData, id, f, i)
				}
				if i == 0 && !b.Lower.IsZero() {
					return fmt.Errorf("%w: table %s %s bands must start at zero", domain.ErrInconsistentData, id, f)
				}
				if i > 0 && (bands[i-1].Upper == nil || !b.Lower.Equal(*bands[i-1].Upper)) {
					return fmt.Errorf("%w: table %s %s band %d does not start where the band below ends", domain.ErrInconsistentData, id, f, i)
				}
			}
			if bands[len(bands)-1].Upper != nil {
				return fmt.Errorf("%w: table %s %s top band must be open", domain.ErrInconsistentData, id, f)
			}
		}
	}
	return nil
}

func validateReclaim(r domain.ReclaimReferenceData) error {
	if r.StandardRate.IsNegative() || r.StandardRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: standard reclaim rate %s outside [0, 1]", domain.ErrInconsistentData, r.StandardRate)
	}
	if r.SmallEmployerCompensationRate.IsNegative() {
		return fmt.Errorf("%w: negative small employer compensation rate", domain.ErrInconsistentData)
	}
	return nil
}
