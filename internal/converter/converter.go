// Package converter maps Gregorian calendar dates to Amaréth zodiac
// dates and back. It is pure date arithmetic over ingress tables
// supplied by a TableSource; all astronomy lives behind that interface.
//
// Days are demarcated by ingress *date*, not instant: whichever UTC
// civil day an ingress instant falls in becomes day 1 of the new month,
// and the time of day is discarded. The final hours of the old month's
// last day before the crossing are truncated at civil-date granularity.
package converter

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/usterk/amareth-calendar/internal/ephemeris"
	"github.com/usterk/amareth-calendar/internal/zodiac"
)

var (
	// ErrInvalidDate is returned for arguments that can never form a
	// zodiac date: month outside 1-12 or day below 1.
	ErrInvalidDate = errors.New("invalid zodiac date")

	// ErrOutOfRange is returned when a structurally valid date does
	// not exist, such as a day past the end of its zodiac month.
	ErrOutOfRange = errors.New("date out of range")
)

// TableSource supplies the 12-entry ingress table of a zodiac year.
// Satisfied by *cache.Cache.
type TableSource interface {
	Get(ctx context.Context, year int) (ephemeris.YearTable, error)
}

// Converter converts between Gregorian and zodiac dates.
type Converter struct {
	tables TableSource
	now    func() time.Time
}

// New creates a Converter over the given table source.
func New(tables TableSource) *Converter {
	return &Converter{tables: tables, now: time.Now}
}

// civilDate truncates an instant to its UTC civil date, midnight UTC.
func civilDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns b - a in whole days. Both must be midnight UTC,
// so the difference is an exact multiple of 24h.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}

// ingressDates extracts the 12 UTC civil start dates of a year table.
func ingressDates(table ephemeris.YearTable) []time.Time {
	dates := make([]time.Time, len(table))
	for i, in := range table {
		dates[i] = in.CivilDate()
	}
	return dates
}

// zodiacYearFor determines which zodiac year governs a Gregorian civil
// date. Zodiac year N starts at the Aries ingress of Gregorian year N
// (around March 20); earlier dates in the same Gregorian year still
// belong to zodiac year N-1, in its final month Piscion.
func (c *Converter) zodiacYearFor(ctx context.Context, g time.Time) (int, error) {
	table, err := c.tables.Get(ctx, g.Year())
	if err != nil {
		return 0, err
	}
	if g.Before(table[0].CivilDate()) {
		return g.Year() - 1, nil
	}
	return g.Year(), nil
}

// GregorianToZodiac converts a Gregorian date to a zodiac date. The
// time-of-day portion of g is ignored; only the UTC civil date matters.
func (c *Converter) GregorianToZodiac(ctx context.Context, g time.Time) (zodiac.Date, error) {
	day := civilDate(g)

	year, err := c.zodiacYearFor(ctx, day)
	if err != nil {
		return zodiac.Date{}, err
	}

	table, err := c.tables.Get(ctx, year)
	if err != nil {
		return zodiac.Date{}, err
	}
	dates := ingressDates(table)

	// Rightmost ingress date <= day owns the month.
	idx := sort.Search(len(dates), func(i int) bool { return dates[i].After(day) }) - 1
	if idx < 0 {
		// zodiacYearFor guarantees day >= the Aries ingress date, so
		// this is an internal invariant violation, not a user error.
		return zodiac.Date{}, fmt.Errorf("%w: %s precedes zodiac year %d",
			ErrOutOfRange, day.Format("2006-01-02"), year)
	}

	return zodiac.Date{
		Year:  year,
		Month: table[idx].SignIndex + 1,
		Day:   daysBetween(dates[idx], day) + 1,
	}, nil
}

// ZodiacToGregorian converts a zodiac date to its Gregorian civil date
// (midnight UTC). The day must exist: for months 1-11 it is bounded by
// the next ingress date, and for Piscion (month 12) by the following
// zodiac year's Aries ingress date.
func (c *Converter) ZodiacToGregorian(ctx context.Context, d zodiac.Date) (time.Time, error) {
	if d.Month < 1 || d.Month > 12 {
		return time.Time{}, fmt.Errorf("%w: month %d", ErrInvalidDate, d.Month)
	}
	if d.Day < 1 {
		return time.Time{}, fmt.Errorf("%w: day %d", ErrInvalidDate, d.Day)
	}

	start, end, err := c.monthBounds(ctx, d.Year, d.Month)
	if err != nil {
		return time.Time{}, err
	}

	result := start.AddDate(0, 0, d.Day-1)
	if !result.Before(end) {
		return time.Time{}, fmt.Errorf("%w: day %d beyond length of %s in zodiac year %d",
			ErrOutOfRange, d.Day, zodiac.MonthName(d.Month), d.Year)
	}
	return result, nil
}

// monthBounds returns the civil start date of a zodiac month and the
// civil start date of the following month. Month must be 1-12.
func (c *Converter) monthBounds(ctx context.Context, year, month int) (start, end time.Time, err error) {
	table, err := c.tables.Get(ctx, year)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	start = table[month-1].CivilDate()

	if month < 12 {
		end = table[month].CivilDate()
		return start, end, nil
	}

	// Piscion ends at the next zodiac year's Aries ingress.
	next, err := c.tables.Get(ctx, year+1)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, next[0].CivilDate(), nil
}

// MonthLength returns the number of whole days in a zodiac month.
func (c *Converter) MonthLength(ctx context.Context, year, month int) (int, error) {
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("%w: month %d", ErrInvalidDate, month)
	}

	start, end, err := c.monthBounds(ctx, year, month)
	if err != nil {
		return 0, err
	}
	return daysBetween(start, end), nil
}

// YearLength returns the number of whole days in a zodiac year: the sum
// of its 12 month lengths, which equals the span from its Aries ingress
// date to the next year's.
func (c *Converter) YearLength(ctx context.Context, year int) (int, error) {
	total := 0
	for month := 1; month <= 12; month++ {
		days, err := c.MonthLength(ctx, year, month)
		if err != nil {
			return 0, err
		}
		total += days
	}
	return total, nil
}

// Today returns the current UTC date in the zodiac calendar.
func (c *Converter) Today(ctx context.Context) (zodiac.Date, error) {
	return c.GregorianToZodiac(ctx, c.now().UTC())
}
