package prayer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/ramadan-companion/internal/api"
	"github.com/smokyabdulrahman/ramadan-companion/internal/geo"
	"github.com/smokyabdulrahman/ramadan-companion/internal/store"
)

// ErrUnavailable means timings could not be fetched. Callers show placeholders.
var ErrUnavailable = errors.New("prayer times unavailable")

// DefaultMethod is the Al Adhan calculation method used when none is configured (ISNA).
const DefaultMethod = 2

// Calendar month used when Month is called without one.
const (
	DefaultCalendarMonth = 3
	DefaultCalendarYear  = 2026
)

// TimingSource fetches raw timings from the upstream API.
type TimingSource interface {
	FetchByTimestamp(ctx context.Context, t time.Time, lat, lon float64, method int) (*api.Response, error)
	FetchCalendar(ctx context.Context, month, year int, lat, lon float64, method int) (*api.CalendarResponse, error)
}

// OverrideSource returns the current manual corrections keyed by readable date.
type OverrideSource interface {
	All(ctx context.Context) (map[string]store.Override, error)
}

// Resolver fetches timings and applies calendar overrides to them.
type Resolver struct {
	timings   TimingSource
	overrides OverrideSource
	method    int
	now       func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMethod sets the calculation method id.
func WithMethod(method int) Option {
	return func(r *Resolver) { r.method = method }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// NewResolver returns a Resolver. overrides may be nil, in which case timings are returned as fetched.
func NewResolver(timings TimingSource, overrides OverrideSource, opts ...Option) *Resolver {
	r := &Resolver{
		timings:   timings,
		overrides: overrides,
		method:    DefaultMethod,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Now returns the resolver's current time.
func (r *Resolver) Now() time.Time {
	return r.now()
}

// Today fetches the timings for the current instant at coords and applies
// any override for the response's own readable date. One attempt, no retry.
func (r *Resolver) Today(ctx context.Context, coords geo.Coordinates) (*api.Data, error) {
	resp, err := r.timings.FetchByTimestamp(ctx, r.now(), coords.Latitude, coords.Longitude, r.method)
	if err != nil {
		log.Warn().Err(err).Float64("lat", coords.Latitude).Float64("lon", coords.Longitude).Msg("error fetching prayer times")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	data := resp.Data
	if overrides := r.loadOverrides(ctx); overrides != nil {
		Apply(&data, overrides)
	}
	return &data, nil
}

// Month fetches a month of timings and applies overrides per day.
// A zero month or year falls back to March 2026.
func (r *Resolver) Month(ctx context.Context, coords geo.Coordinates, month, year int) ([]api.Data, error) {
	if month == 0 {
		month = DefaultCalendarMonth
	}
	if year == 0 {
		year = DefaultCalendarYear
	}

	resp, err := r.timings.FetchCalendar(ctx, month, year, coords.Latitude, coords.Longitude, r.method)
	if err != nil {
		log.Warn().Err(err).Int("month", month).Int("year", year).Msg("error fetching calendar")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	days := resp.Data
	if days == nil {
		days = []api.Data{}
	}
	if overrides := r.loadOverrides(ctx); overrides != nil {
		for i := range days {
			Apply(&days[i], overrides)
		}
	}
	return days, nil
}

// loadOverrides reads the override table fresh. Failures are logged and yield nil.
func (r *Resolver) loadOverrides(ctx context.Context) map[string]store.Override {
	if r.overrides == nil {
		return nil
	}
	overrides, err := r.overrides.All(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("could not fetch overrides")
		return nil
	}
	return overrides
}

// Apply replaces Fajr and Maghrib in day when an override exists for its readable date.
// It reports whether an override was applied.
func Apply(day *api.Data, overrides map[string]store.Override) bool {
	o, ok := overrides[day.Date.Readable]
	if !ok {
		return false
	}
	day.Timings.Fajr = o.Fajr
	day.Timings.Maghrib = o.Maghrib
	return true
}
