package prayer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smokyabdulrahman/ramadan-companion/internal/api"
	"github.com/smokyabdulrahman/ramadan-companion/internal/geo"
	"github.com/smokyabdulrahman/ramadan-companion/internal/store"
)

type fakeTimings struct {
	day      api.Data
	month    []api.Data
	err      error
	gotTime  time.Time
	gotMonth int
	gotYear  int
	method   int
	calls    int
}

func (f *fakeTimings) FetchByTimestamp(_ context.Context, t time.Time, _, _ float64, method int) (*api.Response, error) {
	f.calls++
	f.gotTime = t
	f.method = method
	if f.err != nil {
		return nil, f.err
	}
	return &api.Response{Code: 200, Status: "OK", Data: f.day}, nil
}

func (f *fakeTimings) FetchCalendar(_ context.Context, month, year int, _, _ float64, method int) (*api.CalendarResponse, error) {
	f.calls++
	f.gotMonth, f.gotYear, f.method = month, year, method
	if f.err != nil {
		return nil, f.err
	}
	days := make([]api.Data, len(f.month))
	copy(days, f.month)
	return &api.CalendarResponse{Code: 200, Status: "OK", Data: days}, nil
}

type fakeOverrides struct {
	entries map[string]store.Override
	err     error
	calls   int
}

func (f *fakeOverrides) All(context.Context) (map[string]store.Override, error) {
	f.calls++
	return f.entries, f.err
}

func dayFor(readable, fajr, maghrib string) api.Data {
	return api.Data{
		Date: api.DateInfo{Readable: readable},
		Timings: api.Timings{
			Fajr: fajr, Dhuhr: "12:13", Asr: "15:40", Maghrib: maghrib, Isha: "19:20",
		},
	}
}

var dhaka = geo.Coordinates{Latitude: 23.8103, Longitude: 90.4125}

// ---------------------------------------------------------------------------
// Today
// ---------------------------------------------------------------------------

func TestToday_AppliesOverride(t *testing.T) {
	src := &fakeTimings{day: dayFor("19 Feb 2026", "05:12", "17:58")}
	ovr := &fakeOverrides{entries: map[string]store.Override{
		"19 Feb 2026": {Date: "19 Feb 2026", Fajr: "05:05", Maghrib: "18:01"},
	}}
	r := NewResolver(src, ovr)

	data, err := r.Today(context.Background(), dhaka)
	if err != nil {
		t.Fatalf("Today: %v", err)
	}
	if data.Timings.Fajr != "05:05" {
		t.Errorf("Fajr = %q, want overridden %q", data.Timings.Fajr, "05:05")
	}
	if data.Timings.Maghrib != "18:01" {
		t.Errorf("Maghrib = %q, want overridden %q", data.Timings.Maghrib, "18:01")
	}
	if data.Timings.Asr != "15:40" {
		t.Errorf("Asr = %q, want untouched %q", data.Timings.Asr, "15:40")
	}
}

func TestToday_NoMatchingOverride(t *testing.T) {
	src := &fakeTimings{day: dayFor("19 Feb 2026", "05:12", "17:58")}
	ovr := &fakeOverrides{entries: map[string]store.Override{
		"2026-02-19": {Date: "2026-02-19", Fajr: "05:05", Maghrib: "18:01"},
	}}

	data, err := NewResolver(src, ovr).Today(context.Background(), dhaka)
	if err != nil {
		t.Fatalf("Today: %v", err)
	}
	if data.Timings.Fajr != "05:12" {
		t.Errorf("Fajr = %q, want original %q", data.Timings.Fajr, "05:12")
	}
}

func TestToday_OverrideFailureIsSwallowed(t *testing.T) {
	src := &fakeTimings{day: dayFor("19 Feb 2026", "05:12", "17:58")}
	ovr := &fakeOverrides{err: errors.New("database is down")}

	data, err := NewResolver(src, ovr).Today(context.Background(), dhaka)
	if err != nil {
		t.Fatalf("Today error = %v, want nil", err)
	}
	if data.Timings.Fajr != "05:12" {
		t.Errorf("Fajr = %q, want %q", data.Timings.Fajr, "05:12")
	}
}

func TestToday_FetchFailure(t *testing.T) {
	src := &fakeTimings{err: errors.New("connection refused")}
	ovr := &fakeOverrides{}

	data, err := NewResolver(src, ovr).Today(context.Background(), dhaka)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
	if data != nil {
		t.Errorf("data = %+v, want nil", data)
	}
	if src.calls != 1 {
		t.Errorf("fetch calls = %d, want a single attempt", src.calls)
	}
	if ovr.calls != 0 {
		t.Errorf("override calls = %d, want 0 after a failed fetch", ovr.calls)
	}
}

func TestToday_ReadsOverridesEveryCall(t *testing.T) {
	src := &fakeTimings{day: dayFor("19 Feb 2026", "05:12", "17:58")}
	ovr := &fakeOverrides{entries: map[string]store.Override{}}
	r := NewResolver(src, ovr)

	if _, err := r.Today(context.Background(), dhaka); err != nil {
		t.Fatal(err)
	}
	ovr.entries = map[string]store.Override{"19 Feb 2026": {Fajr: "05:00", Maghrib: "18:10"}}
	data, err := r.Today(context.Background(), dhaka)
	if err != nil {
		t.Fatal(err)
	}
	if data.Timings.Fajr != "05:00" {
		t.Errorf("Fajr = %q, want freshly overridden %q", data.Timings.Fajr, "05:00")
	}
	if ovr.calls != 2 {
		t.Errorf("override calls = %d, want 2", ovr.calls)
	}
}

func TestToday_UsesClockAndMethod(t *testing.T) {
	fixed := time.Date(2026, 2, 19, 4, 0, 0, 0, time.UTC)
	src := &fakeTimings{day: dayFor("19 Feb 2026", "05:12", "17:58")}
	r := NewResolver(src, nil, WithClock(func() time.Time { return fixed }), WithMethod(1))

	if _, err := r.Today(context.Background(), dhaka); err != nil {
		t.Fatal(err)
	}
	if !src.gotTime.Equal(fixed) {
		t.Errorf("fetched for %v, want %v", src.gotTime, fixed)
	}
	if src.method != 1 {
		t.Errorf("method = %d, want 1", src.method)
	}
}

func TestNewResolver_DefaultMethod(t *testing.T) {
	src := &fakeTimings{day: dayFor("19 Feb 2026", "05:12", "17:58")}
	if _, err := NewResolver(src, nil).Today(context.Background(), dhaka); err != nil {
		t.Fatal(err)
	}
	if src.method != DefaultMethod {
		t.Errorf("method = %d, want %d", src.method, DefaultMethod)
	}
}

// ---------------------------------------------------------------------------
// Month
// ---------------------------------------------------------------------------

func TestMonth_AppliesOverridesPerDay(t *testing.T) {
	src := &fakeTimings{month: []api.Data{
		dayFor("01 Mar 2026", "05:01", "18:04"),
		dayFor("02 Mar 2026", "05:00", "18:05"),
		dayFor("03 Mar 2026", "04:59", "18:05"),
	}}
	ovr := &fakeOverrides{entries: map[string]store.Override{
		"02 Mar 2026": {Fajr: "04:58", Maghrib: "18:06"},
	}}

	days, err := NewResolver(src, ovr).Month(context.Background(), dhaka, 3, 2026)
	if err != nil {
		t.Fatalf("Month: %v", err)
	}
	if len(days) != 3 {
		t.Fatalf("got %d days, want 3", len(days))
	}
	if days[0].Timings.Fajr != "05:01" || days[2].Timings.Fajr != "04:59" {
		t.Errorf("untouched days changed: %q, %q", days[0].Timings.Fajr, days[2].Timings.Fajr)
	}
	if days[1].Timings.Fajr != "04:58" || days[1].Timings.Maghrib != "18:06" {
		t.Errorf("day 2 = %+v, want overridden", days[1].Timings)
	}
}

func TestMonth_Defaults(t *testing.T) {
	src := &fakeTimings{}
	if _, err := NewResolver(src, nil).Month(context.Background(), dhaka, 0, 0); err != nil {
		t.Fatal(err)
	}
	if src.gotMonth != 3 || src.gotYear != 2026 {
		t.Errorf("fetched %d/%d, want 3/2026", src.gotMonth, src.gotYear)
	}
}

func TestMonth_EmptyVersusUnavailable(t *testing.T) {
	empty, err := NewResolver(&fakeTimings{}, nil).Month(context.Background(), dhaka, 3, 2026)
	if err != nil {
		t.Fatalf("empty month error = %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("empty month = %#v, want non-nil empty slice", empty)
	}

	failed, err := NewResolver(&fakeTimings{err: errors.New("503")}, nil).Month(context.Background(), dhaka, 3, 2026)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("failed month error = %v, want ErrUnavailable", err)
	}
	if failed != nil {
		t.Errorf("failed month = %#v, want nil", failed)
	}
}

func TestApply(t *testing.T) {
	day := dayFor("19 Feb 2026", "05:12", "17:58")
	if Apply(&day, nil) {
		t.Error("Apply with nil map reported a change")
	}
	if !Apply(&day, map[string]store.Override{"19 Feb 2026": {Fajr: "05:05", Maghrib: "18:00"}}) {
		t.Error("Apply did not report the override")
	}
	if day.Timings.Fajr != "05:05" {
		t.Errorf("Fajr = %q, want %q", day.Timings.Fajr, "05:05")
	}
}
