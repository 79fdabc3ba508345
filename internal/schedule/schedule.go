// Package schedule holds the fixed Ramadan sehri/iftar table and maps a
// Gregorian date onto it.
//
// The table is literal data per season, not derived from the lunar calendar.
// A new year is a new Season value, not a code change.
package schedule

import (
	"fmt"
	"sort"
	"time"
)

// Days is the number of days in a season.
const Days = 30

// DateLayout is the format of Day.Date, matching the timing API's readable label.
const DateLayout = "02 Jan 2006"

// Ashra is one of the three ten-day phases of Ramadan.
type Ashra string

const (
	Rahmat    Ashra = "Rahmat"
	Maghfirat Ashra = "Maghfirat"
	Najat     Ashra = "Najat"
)

// AshraFor returns the phase a Ramadan day (1..30) belongs to.
func AshraFor(index int) Ashra {
	switch {
	case index <= 10:
		return Rahmat
	case index <= 20:
		return Maghfirat
	}
	return Najat
}

// Day is one row of the schedule.
type Day struct {
	Index   int          `json:"ramadan"`
	Date    string       `json:"date"`
	Weekday time.Weekday `json:"-"`
	Sehri   string       `json:"sehri"`
	Iftar   string       `json:"iftar"`
	Ashra   Ashra        `json:"ashra"`
}

// Time returns the day's Gregorian date at midnight UTC.
func (d Day) Time() time.Time {
	t, _ := time.Parse(DateLayout, d.Date)
	return t
}

// Times is one day's sehri (end of suhoor) and iftar, "HH:MM".
type Times struct {
	Sehri string
	Iftar string
}

// Season is the schedule for one Gregorian year.
type Season struct {
	Year  int
	Start time.Time // first day of Ramadan
	Days  [Days]Day
}

// NewSeason lays out 30 consecutive days from start with the given times.
func NewSeason(start time.Time, times [Days]Times) Season {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	s := Season{Year: start.Year(), Start: start}
	for i := range times {
		d := start.AddDate(0, 0, i)
		s.Days[i] = Day{
			Index:   i + 1,
			Date:    d.Format(DateLayout),
			Weekday: d.Weekday(),
			Sehri:   times[i].Sehri,
			Iftar:   times[i].Iftar,
			Ashra:   AshraFor(i + 1),
		}
	}
	return s
}

// Phase says where a date sits relative to a season.
type Phase int

const (
	PreRamadan Phase = iota
	During
	PostRamadan
)

func (p Phase) String() string {
	switch p {
	case PreRamadan:
		return "pre-ramadan"
	case During:
		return "ramadan"
	case PostRamadan:
		return "post-ramadan"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// MarshalText encodes the phase as its string form.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Position is the projection of a date onto a season.
// Outside Ramadan Day is the first day, which is what the home screen shows.
type Position struct {
	Phase Phase `json:"phase"`
	Day   Day   `json:"day"`
}

// Table holds one or more seasons, ordered by year.
type Table struct {
	seasons []Season
}

// NewTable validates and orders seasons.
func NewTable(seasons ...Season) (*Table, error) {
	if len(seasons) == 0 {
		return nil, fmt.Errorf("schedule table needs at least one season")
	}
	seen := make(map[int]bool, len(seasons))
	for _, s := range seasons {
		if seen[s.Year] {
			return nil, fmt.Errorf("duplicate season for %d", s.Year)
		}
		seen[s.Year] = true
		for i, d := range s.Days {
			if d.Index != i+1 {
				return nil, fmt.Errorf("season %d: day %d has index %d", s.Year, i+1, d.Index)
			}
		}
	}

	sorted := append([]Season(nil), seasons...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })
	return &Table{seasons: sorted}, nil
}

// MustTable is NewTable that panics on error, for package-level tables.
func MustTable(seasons ...Season) *Table {
	t, err := NewTable(seasons...)
	if err != nil {
		panic(err)
	}
	return t
}

// Season returns the season used for a year: the exact match, else the latest one.
func (t *Table) Season(year int) Season {
	for _, s := range t.seasons {
		if s.Year == year {
			return s
		}
	}
	return t.seasons[len(t.seasons)-1]
}

// Days returns the rows of the season used for year.
func (t *Table) Days(year int) []Day {
	s := t.Season(year)
	return append([]Day(nil), s.Days[:]...)
}

// Locate maps now's calendar date onto the season for its year.
// Only month and day are compared, so a year without its own season
// reuses the latest season's dates. A date inside the season that no row
// names (Feb 29 against a non-leap season) keeps the previous row's day.
func (t *Table) Locate(now time.Time) Position {
	s := t.Season(now.Year())
	first := s.Days[0]
	key := monthDay(now.Month(), now.Day())

	start := monthDay(s.Start.Month(), s.Start.Day())
	if key < start {
		return Position{Phase: PreRamadan, Day: first}
	}
	for i, d := range s.Days {
		dt := d.Time()
		switch dk := monthDay(dt.Month(), dt.Day()); {
		case dk == key:
			return Position{Phase: During, Day: d}
		case dk > key && i > 0:
			return Position{Phase: During, Day: s.Days[i-1]}
		}
	}
	return Position{Phase: PostRamadan, Day: first}
}

func monthDay(m time.Month, d int) int {
	return int(m)*100 + d
}
