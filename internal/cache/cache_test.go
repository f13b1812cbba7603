package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/usterk/amareth-calendar/internal/ephemeris"
)

// testLogger returns a quiet logger for tests.
func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// testTable builds a synthetic but structurally valid year table:
// twelve ingresses roughly a month apart starting at the year's March
// 20. Good enough for exercising storage, which never inspects the
// astronomy.
func testTable(year int) ephemeris.YearTable {
	start := time.Date(year, 3, 20, 14, 45, 50, 0, time.UTC)
	table := make(ephemeris.YearTable, 12)
	for i := range table {
		table[i] = ephemeris.Ingress{
			SignIndex: i,
			Longitude: i * 30,
			At:        start.AddDate(0, 0, 30*i).Add(time.Duration(i) * time.Hour),
		}
	}
	return table
}

// fakeOracle counts how often the cache falls through to computation.
type fakeOracle struct {
	computed int
}

func (f *fakeOracle) ComputeYear(year int) (ephemeris.YearTable, error) {
	f.computed++
	return testTable(year), nil
}

func (f *fakeOracle) ComputeRange(startYear, endYear int) (map[int]ephemeris.YearTable, error) {
	result := make(map[int]ephemeris.YearTable)
	for y := startYear; y <= endYear; y++ {
		table, err := f.ComputeYear(y)
		if err != nil {
			return nil, err
		}
		result[y] = table
	}
	return result, nil
}

func tablesEqual(a, b ephemeris.YearTable) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].SignIndex != b[i].SignIndex ||
			a[i].Longitude != b[i].Longitude ||
			!a[i].At.Equal(b[i].At) {
			return false
		}
	}
	return true
}

// =============================================================================
// Cache (get-or-compute)
// =============================================================================

func TestCacheComputesOnce(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "ingress_cache.json"), testLogger(t))
	oracle := &fakeOracle{}
	c := New(store, oracle, testLogger(t))

	first, err := c.Get(ctx, 2026)
	if err != nil {
		t.Fatalf("first Get: %v", err)
	}
	if oracle.computed != 1 {
		t.Fatalf("computed = %d after first Get, want 1", oracle.computed)
	}

	second, err := c.Get(ctx, 2026)
	if err != nil {
		t.Fatalf("second Get: %v", err)
	}
	if oracle.computed != 1 {
		t.Errorf("computed = %d after second Get, want 1 (cache miss)", oracle.computed)
	}
	if !tablesEqual(first, second) {
		t.Errorf("cached table differs from computed table")
	}
}

func TestCacheRecomputesCorruptYear(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ingress_cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	store := NewFileStore(path, testLogger(t))
	oracle := &fakeOracle{}
	c := New(store, oracle, testLogger(t))

	table, err := c.Get(ctx, 2026)
	if err != nil {
		t.Fatalf("Get over corrupt file: %v", err)
	}
	if oracle.computed != 1 {
		t.Errorf("computed = %d, want 1", oracle.computed)
	}
	if err := table.Validate(); err != nil {
		t.Errorf("recomputed table: %v", err)
	}

	// The rewrite healed the file.
	if _, ok, err := store.GetYear(ctx, 2026); err != nil || !ok {
		t.Errorf("GetYear after heal: ok=%v err=%v, want present", ok, err)
	}
}

func TestCachePopulate(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "ingress_cache.json"), testLogger(t))
	oracle := &fakeOracle{}
	c := New(store, oracle, testLogger(t))

	written, err := c.Populate(ctx, 2024, 2026)
	if err != nil {
		t.Fatalf("Populate: %v", err)
	}
	if written != 3 {
		t.Errorf("written = %d, want 3", written)
	}

	for year := 2024; year <= 2026; year++ {
		table, ok, err := store.GetYear(ctx, year)
		if err != nil || !ok {
			t.Fatalf("year %d: ok=%v err=%v", year, ok, err)
		}
		if !tablesEqual(table, testTable(year)) {
			t.Errorf("year %d table does not round-trip", year)
		}
	}

	// Populated years are cache hits afterwards.
	before := oracle.computed
	if _, err := c.Get(ctx, 2025); err != nil {
		t.Fatalf("Get after Populate: %v", err)
	}
	if oracle.computed != before {
		t.Errorf("Get after Populate recomputed (computed %d -> %d)", before, oracle.computed)
	}
}

// =============================================================================
// FileStore
// =============================================================================

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nope.json"), testLogger(t))

	table, ok, err := store.GetYear(context.Background(), 2026)
	if err != nil {
		t.Fatalf("GetYear: %v", err)
	}
	if ok || table != nil {
		t.Errorf("GetYear on missing file: ok=%v table=%v, want empty", ok, table)
	}
}

func TestFileStoreFormat(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "ingress_cache.json")
	store := NewFileStore(path, testLogger(t))

	if err := store.PutYear(ctx, 2026, testTable(2026)); err != nil {
		t.Fatalf("PutYear: %v", err)
	}

	// The on-disk shape is a plain year-keyed JSON object; other tools
	// read it, so pin it down.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read cache file: %v", err)
	}

	var decoded map[string][]map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("cache file is not a JSON object of arrays: %v", err)
	}

	entries, ok := decoded["2026"]
	if !ok {
		t.Fatalf("no %q key in cache file, got keys %v", "2026", keys(decoded))
	}
	if len(entries) != 12 {
		t.Fatalf("len(entries) = %d, want 12", len(entries))
	}

	first := entries[0]
	if got := first["sign_index"].(float64); got != 0 {
		t.Errorf("sign_index = %v, want 0", got)
	}
	if got := first["longitude"].(float64); got != 0 {
		t.Errorf("longitude = %v, want 0", got)
	}
	iso, _ := first["utc_iso"].(string)
	if _, err := time.Parse(time.RFC3339, iso); err != nil {
		t.Errorf("utc_iso %q is not RFC 3339: %v", iso, err)
	}
}

func TestFileStoreMergePreservesOtherYears(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "ingress_cache.json"), testLogger(t))

	if err := store.PutYear(ctx, 2025, testTable(2025)); err != nil {
		t.Fatalf("PutYear 2025: %v", err)
	}
	if err := store.PutYear(ctx, 2026, testTable(2026)); err != nil {
		t.Fatalf("PutYear 2026: %v", err)
	}

	// Overwrite 2026 with shifted instants; 2025 must be untouched.
	shifted := testTable(2026)
	for i := range shifted {
		shifted[i].At = shifted[i].At.Add(time.Minute)
	}
	if err := store.PutYear(ctx, 2026, shifted); err != nil {
		t.Fatalf("overwrite 2026: %v", err)
	}

	got2025, ok, err := store.GetYear(ctx, 2025)
	if err != nil || !ok {
		t.Fatalf("GetYear 2025: ok=%v err=%v", ok, err)
	}
	if !tablesEqual(got2025, testTable(2025)) {
		t.Error("2025 table changed by unrelated put")
	}

	got2026, ok, err := store.GetYear(ctx, 2026)
	if err != nil || !ok {
		t.Fatalf("GetYear 2026: ok=%v err=%v", ok, err)
	}
	if !tablesEqual(got2026, shifted) {
		t.Error("2026 table was not overwritten")
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ingress_cache.json")
	if err := os.WriteFile(path, []byte(`{"2026": "oops"}`), 0644); err != nil {
		t.Fatal(err)
	}

	store := NewFileStore(path, testLogger(t))
	_, _, err := store.GetYear(ctx, 2026)
	if err == nil {
		t.Fatal("GetYear on corrupt file succeeded, want error")
	}
	if !IsCorrupt(err) {
		t.Errorf("error %v is not ErrCorrupt", err)
	}
}

func keys(m map[string][]map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// =============================================================================
// SQLiteStore
// =============================================================================

func testSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := OpenSQLite(filepath.Join(t.TempDir(), "ingress_cache.db"), testLogger(t))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := testSQLiteStore(t)

	if _, ok, err := store.GetYear(ctx, 2026); err != nil || ok {
		t.Fatalf("GetYear on empty store: ok=%v err=%v, want empty", ok, err)
	}

	want := testTable(2026)
	if err := store.PutYear(ctx, 2026, want); err != nil {
		t.Fatalf("PutYear: %v", err)
	}

	got, ok, err := store.GetYear(ctx, 2026)
	if err != nil || !ok {
		t.Fatalf("GetYear: ok=%v err=%v", ok, err)
	}
	if !tablesEqual(got, want) {
		t.Error("table does not round-trip through sqlite")
	}
}

func TestSQLiteStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	store := testSQLiteStore(t)

	if err := store.PutYear(ctx, 2026, testTable(2026)); err != nil {
		t.Fatalf("PutYear: %v", err)
	}

	shifted := testTable(2026)
	for i := range shifted {
		shifted[i].At = shifted[i].At.Add(time.Hour)
	}
	if err := store.PutYear(ctx, 2026, shifted); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, ok, err := store.GetYear(ctx, 2026)
	if err != nil || !ok {
		t.Fatalf("GetYear: ok=%v err=%v", ok, err)
	}
	if !tablesEqual(got, shifted) {
		t.Error("overwrite did not replace the year's rows")
	}
}

func TestCacheWithSQLiteStore(t *testing.T) {
	ctx := context.Background()
	store := testSQLiteStore(t)
	oracle := &fakeOracle{}
	c := New(store, oracle, testLogger(t))

	if _, err := c.Get(ctx, 2026); err != nil {
		t.Fatalf("first Get: %v", err)
	}
	if _, err := c.Get(ctx, 2026); err != nil {
		t.Fatalf("second Get: %v", err)
	}
	if oracle.computed != 1 {
		t.Errorf("computed = %d, want 1", oracle.computed)
	}
}
