// Package cache persists computed ingress tables so the expensive
// ephemeris search runs at most once per zodiac year.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/usterk/amareth-calendar/internal/ephemeris"
)

// ErrCorrupt is returned by a Store when previously persisted content
// cannot be decoded. The cache treats it as a miss: the year is logged
// and recomputed fresh rather than crashing the run.
var ErrCorrupt = errors.New("corrupt ingress cache")

// IsCorrupt checks if an error means persisted cache content could not
// be decoded.
func IsCorrupt(err error) bool {
	return errors.Is(err, ErrCorrupt)
}

// Store is the persistence backend for ingress tables. Implementations
// are year-keyed and must leave other years untouched on a put.
type Store interface {
	// GetYear returns the stored table for a year. The boolean reports
	// whether the year was present; a missing backing file or row is
	// not an error.
	GetYear(ctx context.Context, year int) (ephemeris.YearTable, bool, error)

	// PutYear stores a year's table, replacing any previous entry for
	// that year.
	PutYear(ctx context.Context, year int, table ephemeris.YearTable) error

	// Close releases backend resources.
	Close() error
}

// Computer produces ingress tables when the store has none. Satisfied
// by *ephemeris.Oracle.
type Computer interface {
	ComputeYear(year int) (ephemeris.YearTable, error)
	ComputeRange(startYear, endYear int) (map[int]ephemeris.YearTable, error)
}

// Cache provides get-or-compute access to ingress tables.
//
// It is not an eviction cache: entries accumulate one per requested
// year and are never invalidated. A table computed under one ephemeris
// model stays cached even if the model's data is later upgraded; there
// is no consistency check against a recomputation (known gap).
type Cache struct {
	store  Store
	oracle Computer
	logger *slog.Logger
}

// New creates a Cache over the given store and oracle.
func New(store Store, oracle Computer, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{store: store, oracle: oracle, logger: logger}
}

// Get returns the ingress table for a zodiac year, computing and
// persisting it on first request. Corrupt stored content is discarded
// and recomputed.
func (c *Cache) Get(ctx context.Context, year int) (ephemeris.YearTable, error) {
	table, ok, err := c.store.GetYear(ctx, year)
	switch {
	case err == nil && ok:
		return table, nil
	case err != nil && errors.Is(err, ErrCorrupt):
		c.logger.Warn("discarding corrupt cached ingresses, recomputing",
			slog.Int("year", year),
			slog.Any("error", err),
		)
	case err != nil:
		return nil, fmt.Errorf("read ingress cache for year %d: %w", year, err)
	}

	table, err = c.oracle.ComputeYear(year)
	if err != nil {
		return nil, err
	}

	if err := c.store.PutYear(ctx, year, table); err != nil {
		return nil, fmt.Errorf("persist ingresses for year %d: %w", year, err)
	}

	c.logger.Debug("cached year ingresses", slog.Int("year", year))
	return table, nil
}

// Populate computes and persists ingress tables for every zodiac year
// in the inclusive range, overwriting any existing entries. Returns the
// number of years written.
func (c *Cache) Populate(ctx context.Context, startYear, endYear int) (int, error) {
	tables, err := c.oracle.ComputeRange(startYear, endYear)
	if err != nil {
		return 0, err
	}

	written := 0
	for year := startYear; year <= endYear; year++ {
		if err := c.store.PutYear(ctx, year, tables[year]); err != nil {
			return written, fmt.Errorf("persist ingresses for year %d: %w", year, err)
		}
		written++
	}

	c.logger.Info("populated ingress cache",
		slog.Int("start_year", startYear),
		slog.Int("end_year", endYear),
		slog.Int("years", written),
	)
	return written, nil
}
