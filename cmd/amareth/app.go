package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/usterk/amareth-calendar/internal/cache"
	"github.com/usterk/amareth-calendar/internal/config"
	"github.com/usterk/amareth-calendar/internal/converter"
	"github.com/usterk/amareth-calendar/internal/ephemeris"
	"github.com/usterk/amareth-calendar/internal/logger"
)

// app wires the configured oracle, cache, and converter together for
// one CLI invocation. The oracle is constructed once here and passed
// down explicitly; nothing reaches for it globally.
type app struct {
	cfg   *config.Config
	log   *slog.Logger
	cache *cache.Cache
	conv  *converter.Converter
	store cache.Store
}

// newApp loads configuration and builds the component stack.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.Setup(cfg)

	oracle, err := ephemeris.New(cfg.VSOP87Dir, log)
	if err != nil {
		return nil, err
	}

	var store cache.Store
	switch cfg.CacheBackend {
	case config.BackendSQLite:
		store, err = cache.OpenSQLite(cfg.CachePath, log)
		if err != nil {
			return nil, err
		}
	default:
		store = cache.NewFileStore(cfg.CachePath, log)
	}

	ingressCache := cache.New(store, oracle, log)

	return &app{
		cfg:   cfg,
		log:   log,
		cache: ingressCache,
		conv:  converter.New(ingressCache),
		store: store,
	}, nil
}

// close releases the cache backend.
func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("closing cache store", slog.Any("error", err))
	}
}

// parseMonth validates a 1-12 month argument.
func parseMonth(arg string) (int, error) {
	m, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid month %q: want an integer 1-12", arg)
	}
	if m < 1 || m > 12 {
		return 0, fmt.Errorf("invalid month %d: want 1-12", m)
	}
	return m, nil
}
