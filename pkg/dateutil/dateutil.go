package dateutil

import (
	"fmt"
	"time"
)

// UK tax years run from 6 April to 5 April and are identified by the calendar
// year in which they end.
const (
	taxYearStartMonth = time.April
	taxYearStartDay   = 6
	weeksInTaxYear    = 52
)

// normalize strips the time of day and location so date arithmetic is by calendar day
func normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TaxYearEnding returns the tax year (by ending calendar year) containing date
func TaxYearEnding(date time.Time) int {
	date = normalize(date)
	if date.Before(TaxYearStart(date.Year() + 1)) {
		return date.Year()
	}
	return date.Year() + 1
}

// TaxYearStart returns 6 April of the tax year ending in endingYear
func TaxYearStart(endingYear int) time.Time {
	return time.Date(endingYear-1, taxYearStartMonth, taxYearStartDay, 0, 0, 0, 0, time.UTC)
}

// TaxYearEnd returns 5 April of endingYear
func TaxYearEnd(endingYear int) time.Time {
	return time.Date(endingYear, taxYearStartMonth, taxYearStartDay-1, 0, 0, 0, 0, time.UTC)
}

// TaxYearLabel formats a tax year as e.g. "2025/26" for the year ending 2026
func TaxYearLabel(endingYear int) string {
	return fmt.Sprintf("%d/%02d", endingYear-1, endingYear%100)
}

// DaysIntoTaxYear returns the zero-based day offset of date from 6 April
func DaysIntoTaxYear(date time.Time) int {
	date = normalize(date)
	start := TaxYearStart(TaxYearEnding(date))
	return int(date.Sub(start).Hours() / 24)
}

// TaxMonth returns the tax month (1-12) containing date. Tax month 1 runs from
// 6 April to 5 May.
func TaxMonth(date time.Time) int {
	date = normalize(date)
	month := int(date.Month()) - int(taxYearStartMonth) + 1
	if date.Day() < taxYearStartDay {
		month--
	}
	if month <= 0 {
		month += 12
	}
	return month
}

// TaxWeek returns the tax week (1-53) containing date
func TaxWeek(date time.Time) int {
	return DaysIntoTaxYear(date)/7 + 1
}

// TaxPeriod returns the period index of date for a pay frequency with the given
// number of periods per year. Week-based frequencies can return one period more
// than periodsPerYear (week 53, two-week 27, four-week 14).
func TaxPeriod(date time.Time, periodsPerYear int) (int, error) {
	switch periodsPerYear {
	case 52:
		return DaysIntoTaxYear(date)/7 + 1, nil
	case 26:
		return DaysIntoTaxYear(date)/14 + 1, nil
	case 13:
		return DaysIntoTaxYear(date)/28 + 1, nil
	case 12:
		return TaxMonth(date), nil
	case 4:
		return (TaxMonth(date)-1)/3 + 1, nil
	case 2:
		return (TaxMonth(date)-1)/6 + 1, nil
	case 1:
		return 1, nil
	default:
		return 0, fmt.Errorf("unsupported periods per year: %d", periodsPerYear)
	}
}

// WeeksRemainingInTaxYear counts tax weeks from the week containing date to
// the end of the tax year, inclusive, capped at 52.
func WeeksRemainingInTaxYear(date time.Time) int {
	remaining := weeksInTaxYear - TaxWeek(date) + 1
	if remaining < 1 {
		return 1
	}
	return remaining
}

// Age calculates the age at a given date
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}
