// Package cache keeps the last good timing responses on disk so the CLI can
// still show today's times when the API is unreachable.
//
// Only raw API responses are cached. Calendar overrides are merged on top by
// the resolver on every call, so an override change is never hidden by a
// cached file.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/ramadan-companion/internal/api"
)

const (
	timingsFile  = "timings_%s.json"  // keyed by hash
	calendarFile = "calendar_%s.json" // keyed by hash
)

// Source fetches timings from upstream.
type Source interface {
	FetchByTimestamp(ctx context.Context, t time.Time, lat, lon float64, method int) (*api.Response, error)
	FetchCalendar(ctx context.Context, month, year int, lat, lon float64, method int) (*api.CalendarResponse, error)
}

// Timings wraps a Source. Successful responses are written to disk; a failed
// fetch is answered from disk when a response for the same day (or month),
// place and method exists.
type Timings struct {
	next Source
	dir  string
}

// dayEntry stores one day's response with the parameters that produced it.
type dayEntry struct {
	Date     string       `json:"date"` // YYYY-MM-DD
	Method   int          `json:"method"`
	Response api.Response `json:"response"`
}

// monthEntry stores a calendar response.
type monthEntry struct {
	Year     int                  `json:"year"`
	Month    int                  `json:"month"`
	Method   int                  `json:"method"`
	Response api.CalendarResponse `json:"response"`
}

// New creates a cache rooted at dir in front of next.
// If dir is empty, it defaults to the user cache directory.
func New(dir string, next Source) (*Timings, error) {
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

	return &Timings{next: next, dir: dir}, nil
}

// cacheKey builds a deterministic hash from the parameters that affect prayer times.
func cacheKey(period string, lat, lon float64, method int) string {
	raw := fmt.Sprintf("%s|%.6f|%.6f|%d", period, lat, lon, method)
	h := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%x", h[:8]) // 16 hex chars is plenty for uniqueness
}

// FetchByTimestamp implements Source.
func (c *Timings) FetchByTimestamp(ctx context.Context, t time.Time, lat, lon float64, method int) (*api.Response, error) {
	date := t.Format("2006-01-02")
	path := filepath.Join(c.dir, fmt.Sprintf(timingsFile, cacheKey(date, lat, lon, method)))

	resp, err := c.next.FetchByTimestamp(ctx, t, lat, lon, method)
	if err == nil {
		if werr := writeJSON(path, dayEntry{Date: date, Method: method, Response: *resp}); werr != nil {
			log.Debug().Err(werr).Msg("could not cache timings")
		}
		return resp, nil
	}

	var entry dayEntry
	if !readJSON(path, &entry) || entry.Date != date {
		return nil, err
	}
	log.Warn().Err(err).Str("date", date).Msg("serving cached timings")
	return &entry.Response, nil
}

// FetchCalendar implements Source.
func (c *Timings) FetchCalendar(ctx context.Context, month, year int, lat, lon float64, method int) (*api.CalendarResponse, error) {
	period := fmt.Sprintf("%04d-%02d", year, month)
	path := filepath.Join(c.dir, fmt.Sprintf(calendarFile, cacheKey(period, lat, lon, method)))

	resp, err := c.next.FetchCalendar(ctx, month, year, lat, lon, method)
	if err == nil {
		if werr := writeJSON(path, monthEntry{Year: year, Month: month, Method: method, Response: *resp}); werr != nil {
			log.Debug().Err(werr).Msg("could not cache calendar")
		}
		return resp, nil
	}

	var entry monthEntry
	if !readJSON(path, &entry) || entry.Year != year || entry.Month != month {
		return nil, err
	}
	log.Warn().Err(err).Str("month", period).Msg("serving cached calendar")
	return &entry.Response, nil
}

func readJSON(path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}
