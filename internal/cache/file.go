package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/usterk/amareth-calendar/internal/ephemeris"
)

// storedIngress is the wire form of one ingress entry in the JSON cache
// file. The format is stable and has no version field; keys are decimal
// zodiac-year strings mapping to arrays of 12 of these.
type storedIngress struct {
	SignIndex int    `json:"sign_index"`
	Longitude int    `json:"longitude"`
	UTCISO    string `json:"utc_iso"`
}

// FileStore persists ingress tables in a single JSON file.
//
// Every put reads the whole file, merges the year in memory, and
// rewrites the whole file. That is fine for a human-relevant range of
// years; the load-modify-save cycle is not atomic across processes, so
// concurrent invocations race with last-writer-wins (accepted
// limitation of the interactive tool).
type FileStore struct {
	path   string
	logger *slog.Logger
}

// NewFileStore creates a FileStore at the given path. A missing file is
// treated as an empty cache; the file and its directory are created on
// first put.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{path: path, logger: logger}
}

// GetYear implements Store.
func (fs *FileStore) GetYear(_ context.Context, year int) (ephemeris.YearTable, bool, error) {
	all, err := fs.loadAll()
	if err != nil {
		return nil, false, err
	}

	entries, ok := all[strconv.Itoa(year)]
	if !ok {
		return nil, false, nil
	}

	table, err := decodeTable(entries)
	if err != nil {
		return nil, false, fmt.Errorf("%w: year %d in %s: %v", ErrCorrupt, year, fs.path, err)
	}
	return table, true, nil
}

// PutYear implements Store. A corrupt existing file is discarded and
// replaced rather than aborting the write.
func (fs *FileStore) PutYear(_ context.Context, year int, table ephemeris.YearTable) error {
	all, err := fs.loadAll()
	if err != nil {
		fs.logger.Warn("replacing unreadable ingress cache file",
			slog.String("path", fs.path),
			slog.Any("error", err),
		)
		all = map[string][]storedIngress{}
	}

	entries := make([]storedIngress, len(table))
	for i, in := range table {
		entries[i] = storedIngress{
			SignIndex: in.SignIndex,
			Longitude: in.Longitude,
			UTCISO:    in.At.UTC().Format(time.RFC3339),
		}
	}
	all[strconv.Itoa(year)] = entries

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ingress cache: %w", err)
	}

	dir := filepath.Dir(fs.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create cache directory: %w", err)
		}
	}
	if err := os.WriteFile(fs.path, data, 0644); err != nil {
		return fmt.Errorf("write ingress cache: %w", err)
	}
	return nil
}

// Close implements Store. A FileStore holds no open resources.
func (fs *FileStore) Close() error { return nil }

// loadAll reads the full cache file. A missing file yields an empty
// map; malformed JSON yields ErrCorrupt.
func (fs *FileStore) loadAll() (map[string][]storedIngress, error) {
	data, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return map[string][]storedIngress{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ingress cache %s: %w", fs.path, err)
	}

	var all map[string][]storedIngress
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, fs.path, err)
	}
	if all == nil {
		all = map[string][]storedIngress{}
	}
	return all, nil
}

// decodeTable converts stored entries back to a validated YearTable.
func decodeTable(entries []storedIngress) (ephemeris.YearTable, error) {
	table := make(ephemeris.YearTable, len(entries))
	for i, e := range entries {
		at, err := time.Parse(time.RFC3339, e.UTCISO)
		if err != nil {
			return nil, fmt.Errorf("entry %d: parse %q: %v", i, e.UTCISO, err)
		}
		table[i] = ephemeris.Ingress{
			SignIndex: e.SignIndex,
			Longitude: e.Longitude,
			At:        at.UTC(),
		}
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}
