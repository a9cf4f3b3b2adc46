// Package taxcode parses PAYE tax codes and derives tax-free pay from them.
package taxcode

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ukpaye/payroll-engine/internal/domain"
	pd "github.com/ukpaye/payroll-engine/pkg/decimal"
)

// ErrInvalidTaxCode is returned for codes that cannot be parsed
var ErrInvalidTaxCode = errors.New("invalid tax code")

// Kind classifies how a code is applied
type Kind int

const (
	// Allowance codes: a number followed by L, M, N or T
	Allowance Kind = iota
	// KCode: negative allowance, adds notional pay
	KCode
	// BasicRate (BR): all taxable pay at the basic rate band
	BasicRate
	// HigherBand (D0..D3): all taxable pay at the n-th band above basic rate
	HigherBand
	// ZeroAllowance (0T): no tax-free pay, bands apply as normal
	ZeroAllowance
	// NoTax (NT): no tax deducted
	NoTax
)

func (k Kind) String() string {
	switch k {
	case Allowance:
		return "allowance"
	case KCode:
		return "k_code"
	case BasicRate:
		return "basic_rate"
	case HigherBand:
		return "higher_band"
	case ZeroAllowance:
		return "zero_allowance"
	case NoTax:
		return "no_tax"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// TaxCode is a parsed tax code. The zero value is not a valid code.
type TaxCode struct {
	raw string

	Kind   Kind
	Number int  // code number for allowance and K codes
	Suffix byte // L, M, N or T for allowance codes
	DBand  int  // n of Dn codes

	// Country is Scotland for S codes, Wales for C codes, zero otherwise
	Country domain.Country
	// NonCumulative is set by a W1, M1 or X suffix
	NonCumulative bool
}

var (
	nonCumulativeSuffix = regexp.MustCompile(`[\s/]*(W1|M1|X)$`)
	allowancePattern    = regexp.MustCompile(`^(\d{1,6})([LMNT])$`)
	kPattern            = regexp.MustCompile(`^K(\d{1,6})$`)
	dPattern            = regexp.MustCompile(`^D([0-3])$`)
)

// Parse parses codes such as "1257L", "S1257L", "C1257L M1", "K475", "BR", "D1", "NT", "0T W1"
func Parse(s string) (TaxCode, error) {
	raw := s
	code := strings.ToUpper(strings.TrimSpace(s))
	if code == "" {
		return TaxCode{}, invalidCode(raw, "empty")
	}

	tc := TaxCode{raw: raw}
	if m := nonCumulativeSuffix.FindStringSubmatchIndex(code); m != nil {
		tc.NonCumulative = true
		code = strings.TrimSpace(code[:m[0]])
	}

	// NT has no jurisdiction prefix; anything else starting with S or C is prefixed.
	if code != "NT" {
		switch {
		case strings.HasPrefix(code, "S"):
			tc.Country = domain.Scotland
			code = code[1:]
		case strings.HasPrefix(code, "C"):
			tc.Country = domain.Wales
			code = code[1:]
		}
	}

	switch {
	case code == "NT":
		tc.Kind = NoTax
	case code == "BR":
		tc.Kind = BasicRate
	case code == "0T":
		tc.Kind = ZeroAllowance
	case dPattern.MatchString(code):
		tc.Kind = HigherBand
		tc.DBand = int(code[1] - '0')
	case kPattern.MatchString(code):
		n, _ := strconv.Atoi(kPattern.FindStringSubmatch(code)[1])
		if n == 0 {
			return TaxCode{}, invalidCode(raw, "K code number must be positive")
		}
		tc.Kind = KCode
		tc.Number = n
	case allowancePattern.MatchString(code):
		m := allowancePattern.FindStringSubmatch(code)
		n, _ := strconv.Atoi(m[1])
		tc.Kind = Allowance
		tc.Number = n
		tc.Suffix = m[2][0]
		if n == 0 && tc.Suffix == 'T' {
			tc.Kind = ZeroAllowance
		}
	default:
		return TaxCode{}, invalidCode(raw, "unrecognised format")
	}
	return tc, nil
}

// MustParse is like Parse but panics on error. For tests and fixed data.
func MustParse(s string) TaxCode {
	tc, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return tc
}

func invalidCode(raw, reason string) error {
	return fmt.Errorf("%w: %w", ErrInvalidTaxCode, &domain.InvalidInputError{Parameter: "tax_code", Value: raw, Reason: reason})
}

// String returns the code as it was given
func (tc TaxCode) String() string { return tc.raw }

// IsCumulative reports whether the code is operated on a cumulative basis
func (tc TaxCode) IsCumulative() bool { return !tc.NonCumulative }

// UsesBands reports whether tax is worked through the progressive bands
func (tc TaxCode) UsesBands() bool {
	return tc.Kind == Allowance || tc.Kind == KCode || tc.Kind == ZeroAllowance
}

// FlatBandIndex returns the band that BR and Dn codes charge all taxable pay at
func (tc TaxCode) FlatBandIndex(basicRateIndex int) (int, bool) {
	switch tc.Kind {
	case BasicRate:
		return basicRateIndex, true
	case HigherBand:
		return basicRateIndex + 1 + tc.DBand, true
	default:
		return 0, false
	}
}

// AnnualAllowance is the code's annual tax-free pay: number × 10 + 9, negative for K codes
func (tc TaxCode) AnnualAllowance() decimal.Decimal {
	switch tc.Kind {
	case Allowance:
		return decimal.NewFromInt(int64(tc.Number)*10 + 9)
	case KCode:
		return decimal.NewFromInt(int64(tc.Number)*10 + 9).Neg()
	default:
		return decimal.Zero
	}
}

// TaxFreePay returns the tax-free pay to date at the given period. The
// per-period figure is rounded up to the penny (away from zero for K codes)
// before it is multiplied by the period.
func (tc TaxCode) TaxFreePay(f domain.PayFrequency, period int) decimal.Decimal {
	annual := tc.AnnualAllowance()
	if annual.IsZero() || !f.Valid() {
		return decimal.Zero
	}
	perPeriod := pd.RoundUpPence(annual.Div(decimal.NewFromInt(int64(f.PeriodsPerYear()))))
	return perPeriod.Mul(decimal.NewFromInt(int64(period)))
}

// MarshalText implements encoding.TextMarshaler
func (tc TaxCode) MarshalText() ([]byte, error) { return []byte(tc.raw), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (tc *TaxCode) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*tc = parsed
	return nil
}
