// Package zodiac defines the Amaréth calendar data model: the twelve
// zodiac signs that double as calendar months, the zodiac date type,
// and the Amaréth era labeling helpers.
package zodiac

import "fmt"

// Sign describes one of the twelve zodiac signs. Each sign is also a
// month of the Amaréth calendar: sign index i is month i+1.
type Sign struct {
	Index          int    // 0-11, fixed ordinal
	Name           string // Amaréth month name
	Symbol         string // astrological glyph
	Latin          string // traditional Latin sign name
	LongitudeStart int    // ecliptic longitude where the sign begins, degrees
}

// Signs is the static sign table. Sign i covers ecliptic longitudes
// [30*i, 30*(i+1)), so the twelve signs tile the full circle.
var Signs = [12]Sign{
	{0, "Arieneum", "♈", "Aries", 0},
	{1, "Taureneum", "♉", "Taurus", 30},
	{2, "Geminion", "♊", "Gemini", 60},
	{3, "Cancerion", "♋", "Cancer", 90},
	{4, "Leon", "♌", "Leo", 120},
	{5, "Virgeon", "♍", "Virgo", 150},
	{6, "Libreon", "♎", "Libra", 180},
	{7, "Scorpion", "♏", "Scorpio", 210},
	{8, "Sagittarion", "♐", "Sagittarius", 240},
	{9, "Caprineum", "♑", "Capricorn", 270},
	{10, "Aquarion", "♒", "Aquarius", 300},
	{11, "Piscion", "♓", "Pisces", 330},
}

// MonthName returns the Amaréth name of month m (1-12), or "" if m is
// out of range.
func MonthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return Signs[m-1].Name
}

// =============================================================================
// Amaréth Era
// =============================================================================

// Epoch is the zodiac year labeled as Amaréth era year 0.
// Era year 1 begins at the Aries ingress of Gregorian 2026.
const Epoch = 2025

// ToEra converts an internal zodiac year to an Amaréth era year.
func ToEra(zodiacYear int) int {
	return zodiacYear - Epoch
}

// FromEra converts an Amaréth era year to an internal zodiac year.
func FromEra(eraYear int) int {
	return eraYear + Epoch
}

// FormatEraYear renders a zodiac year as an Amaréth era label.
// Years after the epoch are "A.A." (Anno Amaréth), years before are
// "B.A.", and the epoch year itself is plain "Year 0".
func FormatEraYear(zodiacYear int) string {
	e := ToEra(zodiacYear)
	switch {
	case e > 0:
		return fmt.Sprintf("Year %d A.A.", e)
	case e == 0:
		return "Year 0"
	default:
		return fmt.Sprintf("Year %d B.A.", -e)
	}
}

// =============================================================================
// Zodiac Date
// =============================================================================

// Date is a calendar date in the Amaréth zodiac calendar.
//
// Year is the internal zodiac year: the Gregorian year in which that
// year's Aries ingress falls. Month is 1-12 (1 = Arieneum, 12 = Piscion)
// and maps 1:1 onto sign index Month-1. Day is 1-based within the month;
// the month's actual length is derived from ingress instants, not stored
// here.
type Date struct {
	Year  int
	Month int
	Day   int
}

// Sign returns the zodiac sign backing this date's month.
// Month must be in 1-12.
func (d Date) Sign() Sign {
	return Signs[d.Month-1]
}

// MonthName returns the Amaréth name of the date's month.
func (d Date) MonthName() string {
	return d.Sign().Name
}

// EraYear returns the date's year in the Amaréth era.
func (d Date) EraYear() int {
	return ToEra(d.Year)
}

// String renders the date in the common display form,
// e.g. "15 Arieneum ♈, Year 1 A.A.".
func (d Date) String() string {
	s := d.Sign()
	return fmt.Sprintf("%d %s %s, %s", d.Day, s.Name, s.Symbol, FormatEraYear(d.Year))
}

// FormatShort renders the date as DD.MM.era, e.g. "05.01.1".
func (d Date) FormatShort() string {
	return fmt.Sprintf("%02d.%02d.%d", d.Day, d.Month, d.EraYear())
}

// FormatFull renders the date with the sign glyph and Latin name,
// e.g. "15 Arieneum (♈ Aries), Year 1 A.A.".
func (d Date) FormatFull() string {
	s := d.Sign()
	return fmt.Sprintf("%d %s (%s %s), %s", d.Day, s.Name, s.Symbol, s.Latin, FormatEraYear(d.Year))
}
