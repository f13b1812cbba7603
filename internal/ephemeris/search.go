package ephemeris

import (
	"fmt"
	"log/slog"
	"time"
)

// Ingress is the moment the Sun's apparent ecliptic longitude crosses
// SignIndex*30°, entering a new zodiac sign. Immutable once computed.
type Ingress struct {
	SignIndex int       // 0-11
	Longitude int       // SignIndex * 30, kept for convenience
	At        time.Time // UTC instant of the crossing
}

// CivilDate returns the UTC civil date containing the ingress instant,
// at midnight UTC. The calendar demarcates days by ingress date, not
// instant: the whole civil day of an ingress is day 1 of the new month.
func (in Ingress) CivilDate() time.Time {
	y, m, d := in.At.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// YearTable holds the 12 ingresses of one zodiac year, from the Aries
// crossing through the Pisces crossing, ascending by instant.
type YearTable []Ingress

// Validate checks the structural invariants of a year table: exactly 12
// entries, sign indexes running 0 through 11 in order, instants
// strictly ascending, longitudes consistent with sign indexes.
func (yt YearTable) Validate() error {
	if len(yt) != 12 {
		return fmt.Errorf("year table has %d entries, want 12", len(yt))
	}
	for i, in := range yt {
		if in.SignIndex != i {
			return fmt.Errorf("entry %d has sign index %d, want %d", i, in.SignIndex, i)
		}
		if in.Longitude != i*30 {
			return fmt.Errorf("entry %d has longitude %d, want %d", i, in.Longitude, i*30)
		}
		if i > 0 && !yt[i-1].At.Before(in.At) {
			return fmt.Errorf("entry %d instant %s is not after entry %d", i, in.At, i-1)
		}
	}
	return nil
}

// sampleStep is the coarse scan interval of the ingress search.
//
// The search relies on at most one sign transition per sampling
// interval. The Sun's fastest apparent motion (near perihelion, early
// January) is about 1.02°/day, so the shortest possible sign is about
// 29.4 days. 25 days stays safely under that while keeping the scan
// cheap; do not raise it.
const sampleStep = 25 * 24 * time.Hour

// bisectTolerance is how tightly each crossing is bracketed before the
// search stops. Sub-second is far beyond what the civil-date calendar
// needs, but it is cheap.
const bisectTolerance = time.Second

// ComputeYear searches for the 12 ingresses of the given zodiac year.
//
// The Aries ingress of a year is not known a priori (it drifts around
// March 20 ±1 day), so the search window runs from February 1 of the
// year to April 1 of the next year: wide enough to always bracket the
// Aries crossing and the 11 crossings after it. Transitions before the
// first Aries crossing are discarded; exactly the next 12 are
// collected, ending at Pisces. The following year's Aries ingress is
// not included.
func (o *Oracle) ComputeYear(year int) (YearTable, error) {
	t0 := time.Date(year, time.February, 1, 0, 0, 0, 0, time.UTC)
	t1 := time.Date(year+1, time.April, 1, 0, 0, 0, 0, time.UTC)

	var table YearTable
	seenAries := false

	prev := t0
	prevSign := o.SignIndex(prev)
	for prev.Before(t1) && len(table) < 12 {
		next := prev.Add(sampleStep)
		if next.After(t1) {
			next = t1
		}

		sign := o.SignIndex(next)
		if sign != prevSign {
			at := o.bisect(prev, next, prevSign)

			if sign == 0 {
				seenAries = true
			}
			if seenAries {
				table = append(table, Ingress{
					SignIndex: sign,
					Longitude: sign * 30,
					At:        at,
				})
			}
		}

		prev, prevSign = next, sign
	}

	if len(table) != 12 {
		// Should be unreachable given the window size and sampleStep.
		return nil, fmt.Errorf("found %d sign transitions for zodiac year %d, want 12", len(table), year)
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("ingress search for zodiac year %d: %w", year, err)
	}

	o.logger.Debug("computed year ingresses",
		slog.Int("year", year),
		slog.Time("aries", table[0].At),
	)
	return table, nil
}

// bisect narrows a bracketed sign transition down to bisectTolerance.
// The Sun occupies loSign at lo and a different sign at hi, with
// exactly one crossing between them; the returned instant is the first
// bracketed moment inside the new sign.
func (o *Oracle) bisect(lo, hi time.Time, loSign int) time.Time {
	for hi.Sub(lo) > bisectTolerance {
		mid := lo.Add(hi.Sub(lo) / 2)
		if o.SignIndex(mid) == loSign {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi.Round(time.Second).UTC()
}

// ComputeRange computes ingress tables for every zodiac year in the
// inclusive range. Years are independent; the result is keyed by year.
// Used for bulk cache pre-population.
func (o *Oracle) ComputeRange(startYear, endYear int) (map[int]YearTable, error) {
	if startYear > endYear {
		return nil, fmt.Errorf("invalid year range %d-%d", startYear, endYear)
	}

	result := make(map[int]YearTable, endYear-startYear+1)
	for year := startYear; year <= endYear; year++ {
		table, err := o.ComputeYear(year)
		if err != nil {
			return nil, err
		}
		result[year] = table
	}
	return result, nil
}
