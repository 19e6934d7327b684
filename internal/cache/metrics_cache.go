// Package cache provides the local TTL cache for fetched ticker metrics.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/cwhuang/valuescan/internal/models"
)

const cacheFilename = "metrics_cache.json"

// Default TTLs: successful fetches are reusable for a day, failed fetches
// retry after an hour.
const (
	DefaultSuccessTTL = 24 * time.Hour
	DefaultErrorTTL   = 1 * time.Hour
)

type cacheEntry struct {
	FetchedAt time.Time            `json:"fetched_at"`
	Metrics   models.TickerMetrics `json:"metrics"`
}

// MetricsCache is a file-backed TTL cache of TickerMetrics keyed by symbol.
// Construct one and pass it by handle; there is no package-level instance.
type MetricsCache struct {
	path       string
	successTTL time.Duration
	errorTTL   time.Duration

	mu    sync.RWMutex
	data  map[string]cacheEntry
	dirty bool
}

// NewMetricsCache creates a cache persisted under dir with the default TTLs.
func NewMetricsCache(dir string) *MetricsCache {
	return &MetricsCache{
		path:       filepath.Join(dir, cacheFilename),
		successTTL: DefaultSuccessTTL,
		errorTTL:   DefaultErrorTTL,
		data:       make(map[string]cacheEntry),
	}
}

// Load reads the cache file from disk. A missing or corrupt file yields an
// empty cache rather than an error.
func (c *MetricsCache) Load() {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		c.data = make(map[string]cacheEntry)
		return
	}
	if err != nil {
		log.Warnf("metrics cache unreadable, starting empty: %v", err)
		c.data = make(map[string]cacheEntry)
		return
	}

	var data map[string]cacheEntry
	if err := json.Unmarshal(raw, &data); err != nil {
		log.Warnf("metrics cache corrupt, starting empty: %v", err)
		c.data = make(map[string]cacheEntry)
		return
	}
	c.data = data
	log.Debugf("metrics cache loaded: %d entries", len(c.data))
}

// Save writes the cache back to disk if it changed since the last save.
// The write is atomic (temp file + rename) to survive concurrent runs.
func (c *MetricsCache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	raw, err := json.MarshalIndent(c.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write cache temp file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		return fmt.Errorf("failed to replace cache file: %w", err)
	}

	c.dirty = false
	log.Infof("metrics cache saved: %d entries -> %s", len(c.data), c.path)
	return nil
}

// Get returns the cached metrics for a symbol if present and unexpired.
// Entries recording a fetch error use the shorter error TTL.
func (c *MetricsCache) Get(symbol string) *models.TickerMetrics {
	c.mu.RLock()
	defer c.mu.RUnlock()

	key := strings.ToUpper(symbol)
	entry, exists := c.data[key]
	if !exists {
		return nil
	}

	ttl := c.successTTL
	if entry.Metrics.FetchError != nil {
		ttl = c.errorTTL
	}

	age := time.Since(entry.FetchedAt)
	if age > ttl {
		log.Debugf("cache expired: %s (fetched %.0fs ago, ttl %s)", key, age.Seconds(), ttl)
		return nil
	}

	m := entry.Metrics
	return &m
}

// Put stores metrics in memory, stamped with the current time. Call Save to
// persist.
func (c *MetricsCache) Put(m *models.TickerMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[strings.ToUpper(m.Symbol)] = cacheEntry{
		FetchedAt: time.Now().UTC(),
		Metrics:   *m,
	}
	c.dirty = true
}

// Clear removes all cached entries.
func (c *MetricsCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = make(map[string]cacheEntry)
	c.dirty = true
}

// Size returns the number of cached entries.
func (c *MetricsCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.data)
}
