// Package httpcache caches Reddit API responses so repeated persona runs for
// the same account don't burn through the request budget.
package httpcache

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/maypok86/otter/v2"
)

// Entry is one cached response body with its expiry.
type Entry struct {
	ExpiresAt time.Time `json:"expires_at"`
	Data      []byte    `json:"data"`
}

// Cache is an otter-backed response cache. With a directory configured it
// persists to disk on Close and reloads on startup; otherwise it is
// memory-only (the server mode).
type Cache struct {
	cache  *otter.Cache[string, Entry]
	logger *slog.Logger
	dir    string
	ttl    time.Duration
	mu     sync.Mutex
}

// New creates a disk-backed cache rooted at dir.
func New(dir string, ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	c := newCache(dir, ttl, logger)
	if err := c.loadFromDisk(); err != nil {
		logger.Warn("failed to load cache from disk", "error", err)
	}
	logger.Info("cache initialized", "dir", dir, "entries", c.cache.EstimatedSize())
	return c, nil
}

// NewMemoryOnly creates a cache that never touches disk.
func NewMemoryOnly(ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	return newCache("", ttl, logger), nil
}

func newCache(dir string, ttl time.Duration, logger *slog.Logger) *Cache {
	cache := otter.Must(&otter.Options[string, Entry]{
		MaximumSize:      10_000,
		InitialCapacity:  1_000,
		ExpiryCalculator: otter.ExpiryWriting[string, Entry](ttl),
	})
	return &Cache{cache: cache, logger: logger, dir: dir, ttl: ttl}
}

// Get returns the cached body for url, if present and fresh.
func (c *Cache) Get(url string) ([]byte, bool) {
	entry, found := c.cache.GetIfPresent(cacheKey(url))
	if !found {
		return nil, false
	}
	if time.Now().After(entry.ExpiresAt) {
		c.cache.Invalidate(cacheKey(url))
		return nil, false
	}
	return entry.Data, true
}

// Set stores a response body for url.
func (c *Cache) Set(url string, data []byte) {
	c.cache.Set(cacheKey(url), Entry{Data: data, ExpiresAt: time.Now().Add(c.ttl)})
	c.logger.Debug("cache set", "url", url, "size", len(data))
}

// Close persists the cache when disk-backed.
func (c *Cache) Close() error {
	if c.dir == "" {
		return nil
	}
	if err := c.saveToDisk(); err != nil {
		c.logger.Error("cache save failed", "error", err)
		return err
	}
	return nil
}

func cacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

func (c *Cache) cachePath() string {
	return filepath.Join(c.dir, "responses.gob")
}

func (c *Cache) loadFromDisk() error {
	file, err := os.Open(c.cachePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening cache file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			c.logger.Debug("failed to close cache file", "error", closeErr)
		}
	}()

	var entries map[string]Entry
	if err := gob.NewDecoder(file).Decode(&entries); err != nil {
		return fmt.Errorf("decoding cache file: %w", err)
	}

	now := time.Now()
	for key, entry := range entries {
		if now.Before(entry.ExpiresAt) {
			c.cache.Set(key, entry)
		}
	}
	return nil
}

func (c *Cache) saveToDisk() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make(map[string]Entry)
	now := time.Now()
	c.cache.All()(func(key string, entry Entry) bool {
		if now.Before(entry.ExpiresAt) {
			entries[key] = entry
		}
		return true
	})

	tempPath := c.cachePath() + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	if err := gob.NewEncoder(file).Encode(entries); err != nil {
		_ = file.Close()
		return fmt.Errorf("encoding cache: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing cache file: %w", err)
	}
	if err := os.Rename(tempPath, c.cachePath()); err != nil {
		return fmt.Errorf("replacing cache file: %w", err)
	}

	c.logger.Info("cache saved to disk", "entries", len(entries), "path", c.cachePath())
	return nil
}
