package domain

import "time"

// ReferenceData is the complete, loaded-once set of legislative parameters.
// Every collection is an ordered list of non-overlapping windows per
// jurisdiction. It is read-only after loading and safe for concurrent use.
type ReferenceData struct {
	Source       string                                          `json:"source"`
	TaxBands     []ApplicabilityWindow[TaxReferenceData]         `json:"tax_bands"`
	Ni           []ApplicabilityWindow[NiReferenceData]          `json:"national_insurance"`
	StudentLoans []ApplicabilityWindow[StudentLoanReferenceData] `json:"student_loans"`
	Pensions     []ApplicabilityWindow[PensionReferenceData]     `json:"pensions"`
	Attachments  []ApplicabilityWindow[AttachmentReferenceData]  `json:"attachment_orders"`
	Reclaim      []ApplicabilityWindow[ReclaimReferenceData]     `json:"statutory_reclaim"`

	// SupportedTo is the last pay date the data is published for. The latest
	// windows are open-ended, so later dates would otherwise resolve to stale
	// rates. Zero means unbounded.
	SupportedTo time.Time `json:"supported_to"`
}

// Collection names used in errors and logs
const (
	CollectionTaxBands     = "tax_bands"
	CollectionNi           = "national_insurance"
	CollectionStudentLoans = "student_loans"
	CollectionPensions     = "pensions"
	CollectionAttachments  = "attachment_orders"
	CollectionReclaim      = "statutory_reclaim"
)

// LatestValidFrom returns the start of the most recent window in any collection
func (rd *ReferenceData) LatestValidFrom() time.Time {
	var latest time.Time
	latest = latestValidFrom(rd.TaxBands, latest)
	latest = latestValidFrom(rd.Ni, latest)
	latest = latestValidFrom(rd.StudentLoans, latest)
	latest = latestValidFrom(rd.Pensions, latest)
	latest = latestValidFrom(rd.Attachments, latest)
	return latestValidFrom(rd.Reclaim, latest)
}

// Supports reports whether payDate is on or before SupportedTo
func (rd *ReferenceData) Supports(payDate time.Time) bool {
	if rd.SupportedTo.IsZero() {
		return true
	}
	day := time.Date(payDate.Year(), payDate.Month(), payDate.Day(), 0, 0, 0, 0, time.UTC)
	return !day.After(rd.SupportedTo)
}

func latestValidFrom[T any](windows []ApplicabilityWindow[T], latest time.Time) time.Time {
	for _, w := range windows {
		if w.ValidFrom.After(latest) {
			latest = w.ValidFrom
		}
	}
	return latest
}
