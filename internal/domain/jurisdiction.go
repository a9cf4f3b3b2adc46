package domain

import (
	"fmt"
	"strings"
)

// Country is a single UK tax jurisdiction flag
type Country uint8

// CountrySet is a set of Country flags. Reference data windows carry a set;
// an employee belongs to exactly one Country.
type CountrySet = Country

const (
	England Country = 1 << iota
	NorthernIreland
	Scotland
	Wales

	// AllCountries covers the whole UK, as used by NI and student loan data.
	AllCountries = England | NorthernIreland | Scotland | Wales
	// RestOfUK covers the jurisdictions sharing the rUK income tax bands
	RestOfUK = England | NorthernIreland | Wales
)

var countryNames = []struct {
	c    Country
	name string
}{
	{England, "england"},
	{NorthernIreland, "northern_ireland"},
	{Scotland, "scotland"},
	{Wales, "wales"},
}

// Contains reports whether every flag in other is present in c
func (c Country) Contains(other Country) bool {
	return other != 0 && c&other == other
}

// Overlaps reports whether c and other share any flag
func (c Country) Overlaps(other Country) bool {
	return c&other != 0
}

// IsSingle reports whether exactly one flag is set
func (c Country) IsSingle() bool {
	return c != 0 && c&(c-1) == 0
}

// Countries expands the set into its individual flags
func (c Country) Countries() []Country {
	var out []Country
	for _, cn := range countryNames {
		if c&cn.c != 0 {
			out = append(out, cn.c)
		}
	}
	return out
}

func (c Country) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	for _, cn := range countryNames {
		if c&cn.c != 0 {
			parts = append(parts, cn.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseCountry parses a single country name such as "scotland"
func ParseCountry(s string) (Country, error) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
	for _, cn := range countryNames {
		if cn.name == n {
			return cn.c, nil
		}
	}
	switch n {
	case "uk", "all":
		return AllCountries, nil
	case "ruk", "rest_of_uk":
		return RestOfUK, nil
	}
	return 0, &InvalidInputError{Parameter: "jurisdiction", Value: s, Reason: "unknown country"}
}

// ParseCountrySet parses and unions a list of country names
func ParseCountrySet(names []string) (CountrySet, error) {
	var set CountrySet
	for _, n := range names {
		c, err := ParseCountry(n)
		if err != nil {
			return 0, err
		}
		set |= c
	}
	if set == 0 {
		return 0, fmt.Errorf("%w: empty jurisdiction set", ErrInconsistentData)
	}
	return set, nil
}
