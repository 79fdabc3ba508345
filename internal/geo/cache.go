package geo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	cacheFile = "geolocation.json"
	cacheTTL  = 24 * time.Hour
)

// Cache keeps the last detected location on disk for a day.
type Cache struct {
	dir string
	now func() time.Time
}

// cacheEntry stores a cached geolocation result with a timestamp.
type cacheEntry struct {
	Location Location  `json:"location"`
	CachedAt time.Time `json:"cached_at"`
}

// NewCache creates a Cache rooted at the given directory.
// If dir is empty, it defaults to ~/.cache/ramadan/.
func NewCache(dir string) (*Cache, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine cache directory: %w", err)
		}
		dir = filepath.Join(base, "ramadan")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory %s: %w", dir, err)
	}

	return &Cache{dir: dir, now: time.Now}, nil
}

// Load returns the cached location, or nil if it is missing or older than a day.
func (c *Cache) Load() *Location {
	data, err := os.ReadFile(filepath.Join(c.dir, cacheFile))
	if err != nil {
		return nil
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil
	}

	if c.now().Sub(entry.CachedAt) > cacheTTL {
		return nil
	}

	return &entry.Location
}

// Save writes a detected location to the cache.
func (c *Cache) Save(loc *Location) error {
	entry := cacheEntry{
		Location: *loc,
		CachedAt: c.now(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal geo cache: %w", err)
	}

	if err := os.WriteFile(filepath.Join(c.dir, cacheFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write geo cache: %w", err)
	}

	return nil
}
