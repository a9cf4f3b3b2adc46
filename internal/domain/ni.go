package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// NiThresholdType names an NI earnings threshold
type NiThresholdType int

// Threshold types in their fixed order
const (
	LEL   NiThresholdType = iota + 1 // Lower Earnings Limit
	PT                               // Primary Threshold
	ST                               // Secondary Threshold
	FUST                             // Freeport Upper Secondary Threshold
	UST                              // Upper Secondary Threshold (under 21)
	AUST                             // Apprentice Upper Secondary Threshold (under 25)
	VUST                             // Veterans Upper Secondary Threshold
	IZUST                            // Investment Zone Upper Secondary Threshold
	UEL                              // Upper Earnings Limit
	DPT                              // Directors' Primary Threshold
)

var niThresholdNames = map[NiThresholdType]string{
	LEL: "LEL", PT: "PT", ST: "ST", FUST: "FUST", UST: "UST", AUST: "AUST",
	VUST: "VUST", IZUST: "IZUST", UEL: "UEL", DPT: "DPT",
}

// AllNiThresholdTypes returns the threshold types in their fixed order
func AllNiThresholdTypes() []NiThresholdType {
	return []NiThresholdType{LEL, PT, ST, FUST, UST, AUST, VUST, IZUST, UEL, DPT}
}

func (t NiThresholdType) String() string {
	if n, ok := niThresholdNames[t]; ok {
		return n
	}
	return fmt.Sprintf("NiThresholdType(%d)", int(t))
}

// ParseNiThresholdType parses "PT", "uel" etc.
func ParseNiThresholdType(s string) (NiThresholdType, error) {
	n := strings.ToUpper(strings.TrimSpace(s))
	for t, name := range niThresholdNames {
		if name == n {
			return t, nil
		}
	}
	return 0, invalid("ni_threshold", s, "unknown threshold type")
}

// MarshalText implements encoding.TextMarshaler
func (t NiThresholdType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// NiCategory is an NI category letter
type NiCategory byte

const niCategoryLetters = "ABCDEFHIJKLMNSVXZ"

// ParseNiCategory parses a single category letter
func ParseNiCategory(s string) (NiCategory, error) {
	n := strings.ToUpper(strings.TrimSpace(s))
	if len(n) != 1 || !strings.Contains(niCategoryLetters, n) {
		return 0, invalid("ni_category", s, "unknown NI category letter")
	}
	return NiCategory(n[0]), nil
}

func (c NiCategory) String() string { return string(rune(c)) }

// MarshalText implements encoding.TextMarshaler
func (c NiCategory) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (c *NiCategory) UnmarshalText(text []byte) error {
	parsed, err := ParseNiCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// NiRateEntry applies Rate to earnings from threshold From up to the next
// threshold in the same rate list.
type NiRateEntry struct {
	From NiThresholdType `json:"from"`
	Rate decimal.Decimal `json:"rate"`
}

// NiCategoryRates holds the employee and employer rate lists for a category.
// An empty list means no contributions of that kind.
type NiCategoryRates struct {
	Employee []NiRateEntry `json:"employee"`
	Employer []NiRateEntry `json:"employer"`
}

// NiReferenceData is the NI payload for one date range
type NiReferenceData struct {
	Thresholds map[NiThresholdType]ThresholdEntry `json:"thresholds"`
	Categories map[NiCategory]NiCategoryRates     `json:"categories"`
}

// NiPeriodInputs are the per-period inputs to an NI calculation
type NiPeriodInputs struct {
	Category        NiCategory      `json:"category"`
	GrossNicablePay decimal.Decimal `json:"gross_nicable_pay"`
}

// Validate rejects negative pay and unknown categories
func (in NiPeriodInputs) Validate() error {
	if !strings.Contains(niCategoryLetters, in.Category.String()) {
		return invalid("ni_category", in.Category, "unknown NI category letter")
	}
	if in.GrossNicablePay.IsNegative() {
		return invalid("gross_nicable_pay", in.GrossNicablePay, "must not be negative")
	}
	return nil
}

// DirectorsNiMethod selects how a director's NI is calculated
type DirectorsNiMethod int

const (
	// DirectorsStandardMethod calculates cumulatively on an annual earnings period
	DirectorsStandardMethod DirectorsNiMethod = iota
	// DirectorsAlternativeMethod calculates period by period and reconciles annually in the final period
	DirectorsAlternativeMethod
)

func (m DirectorsNiMethod) String() string {
	if m == DirectorsAlternativeMethod {
		return "alternative"
	}
	return "standard"
}

// DirectorsNiInputs extend the period inputs with a director's status
type DirectorsNiInputs struct {
	NiPeriodInputs
	Method DirectorsNiMethod `json:"method"`
	// ProRataWeeks is the number of weeks of directorship in the tax year;
	// 0 or 52 means a full annual earnings period.
	ProRataWeeks int `json:"pro_rata_weeks"`
	// IsFinalPeriod triggers annual reconciliation under the alternative method
	IsFinalPeriod bool `json:"is_final_period"`
}

// NiBandResult is the earnings and contribution attributed to one NI band
type NiBandResult struct {
	From         NiThresholdType  `json:"from"`
	Lower        decimal.Decimal  `json:"lower"`
	Upper        *decimal.Decimal `json:"upper,omitempty"`
	Rate         decimal.Decimal  `json:"rate"`
	Earnings     decimal.Decimal  `json:"earnings"`
	Contribution decimal.Decimal  `json:"contribution"`
}

// NiEarningsBreakdown reports earnings between the statutory thresholds
type NiEarningsBreakdown struct {
	AtLEL    decimal.Decimal `json:"at_lel"`
	LELToPT  decimal.Decimal `json:"lel_to_pt"`
	PTToUEL  decimal.Decimal `json:"pt_to_uel"`
	AboveUEL decimal.Decimal `json:"above_uel"`
}

// Add sums two breakdowns
func (b NiEarningsBreakdown) Add(o NiEarningsBreakdown) NiEarningsBreakdown {
	return NiEarningsBreakdown{
		AtLEL:    b.AtLEL.Add(o.AtLEL),
		LELToPT:  b.LELToPT.Add(o.LELToPT),
		PTToUEL:  b.PTToUEL.Add(o.PTToUEL),
		AboveUEL: b.AboveUEL.Add(o.AboveUEL),
	}
}

// Sub subtracts o from b
func (b NiEarningsBreakdown) Sub(o NiEarningsBreakdown) NiEarningsBreakdown {
	return NiEarningsBreakdown{
		AtLEL:    b.AtLEL.Sub(o.AtLEL),
		LELToPT:  b.LELToPT.Sub(o.LELToPT),
		PTToUEL:  b.PTToUEL.Sub(o.PTToUEL),
		AboveUEL: b.AboveUEL.Sub(o.AboveUEL),
	}
}

// NiResult is the immutable outcome of one NI calculation
type NiResult struct {
	Category        NiCategory                          `json:"category"`
	Frequency       PayFrequency                        `json:"frequency"`
	GrossNicablePay decimal.Decimal                     `json:"gross_nicable_pay"`
	Thresholds      map[NiThresholdType]decimal.Decimal `json:"thresholds"`

	EmployeeBands []NiBandResult      `json:"employee_bands"`
	EmployerBands []NiBandResult      `json:"employer_bands"`
	Earnings      NiEarningsBreakdown `json:"earnings"`

	// For directors these are this period's amounts after deducting contributions already paid
	EmployeeContribution decimal.Decimal `json:"employee_contribution"`
	EmployerContribution decimal.Decimal `json:"employer_contribution"`

	IsDirector bool `json:"is_director"`
	// HighestEmployeeBand is the index into EmployeeBands of the highest band with earnings, or -1
	HighestEmployeeBand int `json:"highest_employee_band"`
}
