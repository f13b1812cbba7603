// Package ephemeris computes the Sun's apparent ecliptic longitude and
// searches for solar ingresses: the instants the Sun crosses a 30°
// zodiac sign boundary. These instants define the month and year
// boundaries of the Amaréth calendar.
package ephemeris

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	pp "github.com/soniakeys/meeus/v3/planetposition"
	"github.com/soniakeys/meeus/v3/solar"
)

// ErrUnavailable is returned when the ephemeris model backing data
// cannot be loaded. The calendar cannot function without it, so callers
// treat this as fatal.
var ErrUnavailable = errors.New("ephemeris unavailable")

// IsUnavailable checks if an error means ephemeris data could not be
// loaded.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// Oracle answers solar position queries against an ephemeris model.
//
// Construct one Oracle at process start and pass it to the cache and
// converter explicitly; it holds the only ephemeris state in the
// program and is never torn down.
type Oracle struct {
	// earth holds the VSOP87 Earth series when full-precision data is
	// configured. When nil, the truncated solar theory from Meeus is
	// used instead (accurate to ~0.01°, well under a civil day of
	// solar motion).
	earth  *pp.V87Planet
	logger *slog.Logger
}

// New creates an Oracle. If vsop87Dir is non-empty it must contain the
// VSOP87 B series data files; a load failure is ErrUnavailable and
// fatal. An empty vsop87Dir selects the built-in truncated solar
// theory, which needs no data files.
func New(vsop87Dir string, logger *slog.Logger) (*Oracle, error) {
	if logger == nil {
		logger = slog.Default()
	}

	o := &Oracle{logger: logger}

	if vsop87Dir != "" {
		earth, err := pp.LoadPlanetPath(pp.Earth, vsop87Dir)
		if err != nil {
			return nil, fmt.Errorf("%w: load VSOP87 earth series from %s: %v",
				ErrUnavailable, vsop87Dir, err)
		}
		o.earth = earth
		logger.Info("ephemeris model loaded",
			slog.String("model", "vsop87"),
			slog.String("dir", vsop87Dir),
		)
	} else {
		logger.Debug("ephemeris model ready", slog.String("model", "truncated solar theory"))
	}

	return o, nil
}

// SunLongitude returns the Sun's apparent geocentric ecliptic longitude
// at the given instant, in degrees normalized into [0, 360).
func (o *Oracle) SunLongitude(t time.Time) float64 {
	// Meeus formulas take a Julian ephemeris day. We feed them the UTC
	// instant directly: ΔT is about a minute, far below the civil-day
	// granularity the calendar resolves to.
	jd := julian.TimeToJD(t.UTC())

	var lon float64
	if o.earth != nil {
		lambda, _, _ := solar.ApparentVSOP87(o.earth, jd)
		lon = lambda.Deg()
	} else {
		lon = solar.ApparentLongitude(base.J2000Century(jd)).Deg()
	}

	lon = math.Mod(lon, 360)
	if lon < 0 {
		lon += 360
	}
	return lon
}

// SignIndex returns the zodiac sign index (0-11) the Sun occupies at
// the given instant: floor(longitude/30) mod 12.
func (o *Oracle) SignIndex(t time.Time) int {
	return int(o.SunLongitude(t)/30) % 12
}
