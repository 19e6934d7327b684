package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cwhuang/valuescan/internal/models"
)

func f64(v float64) *float64 { return &v }
func str(s string) *string   { return &s }

func testMetrics(symbol string) *models.TickerMetrics {
	return &models.TickerMetrics{
		Symbol:      symbol,
		TrailingPE:  f64(12.5),
		TrailingEPS: f64(3.0),
	}
}

// TestCachePutGet verifies a stored entry is returned until it expires and
// lookups are case-insensitive on the symbol.
func TestCachePutGet(t *testing.T) {
	c := NewMetricsCache(t.TempDir())

	if got := c.Get("AAPL"); got != nil {
		t.Fatal("expected miss on empty cache")
	}

	c.Put(testMetrics("aapl"))
	got := c.Get("AAPL")
	if got == nil {
		t.Fatal("expected hit after Put")
	}
	if got.TrailingPE == nil || *got.TrailingPE != 12.5 {
		t.Errorf("unexpected cached metrics: %+v", got)
	}
	if c.Size() != 1 {
		t.Errorf("expected size 1, got %d", c.Size())
	}
}

// TestCacheTTLExpiry verifies successful entries expire after the success
// TTL and error entries after the shorter error TTL.
func TestCacheTTLExpiry(t *testing.T) {
	c := NewMetricsCache(t.TempDir())

	c.Put(testMetrics("OLD"))
	failed := &models.TickerMetrics{Symbol: "ERR", FetchError: str("timeout")}
	c.Put(failed)

	// Age both entries by two hours: inside the success TTL, past the error TTL
	c.mu.Lock()
	for key, entry := range c.data {
		entry.FetchedAt = time.Now().UTC().Add(-2 * time.Hour)
		c.data[key] = entry
	}
	c.mu.Unlock()

	if got := c.Get("OLD"); got == nil {
		t.Error("successful entry should survive 2 hours")
	}
	if got := c.Get("ERR"); got != nil {
		t.Error("error entry should expire after 1 hour")
	}
}

// TestCacheSaveLoadRoundTrip verifies persistence across instances.
func TestCacheSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	c := NewMetricsCache(dir)
	c.Put(testMetrics("MSFT"))
	if err := c.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	reloaded := NewMetricsCache(dir)
	reloaded.Load()
	if reloaded.Size() != 1 {
		t.Fatalf("expected 1 entry after reload, got %d", reloaded.Size())
	}
	got := reloaded.Get("MSFT")
	if got == nil || got.TrailingEPS == nil || *got.TrailingEPS != 3.0 {
		t.Errorf("unexpected reloaded metrics: %+v", got)
	}
}

// TestCacheSaveSkipsWhenClean verifies Save is a no-op without changes.
func TestCacheSaveSkipsWhenClean(t *testing.T) {
	dir := t.TempDir()

	c := NewMetricsCache(dir)
	if err := c.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, cacheFilename)); !os.IsNotExist(err) {
		t.Error("expected no cache file written for a clean cache")
	}
}

// TestCacheCorruptFile verifies a corrupt cache file is discarded rather
// than failing the load.
func TestCacheCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, cacheFilename), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewMetricsCache(dir)
	c.Load()
	if c.Size() != 0 {
		t.Errorf("expected empty cache after corrupt load, got %d entries", c.Size())
	}
}

// TestCacheClear verifies Clear empties the cache and marks it dirty.
func TestCacheClear(t *testing.T) {
	dir := t.TempDir()

	c := NewMetricsCache(dir)
	c.Put(testMetrics("IBM"))
	c.Clear()
	if c.Size() != 0 {
		t.Errorf("expected size 0 after clear, got %d", c.Size())
	}
	if err := c.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, cacheFilename)); err != nil {
		t.Error("expected cache file written after clear")
	}
}
