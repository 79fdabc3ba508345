package prayer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/smokyabdulrahman/ramadan-companion/internal/api"
)

const minutesPerDay = 24 * 60

// DailyPrayers are the five obligatory prayers in the order the next one is searched.
var DailyPrayers = []string{"Fajr", "Dhuhr", "Asr", "Maghrib", "Isha"}

// DefaultPrayerNames are the rows shown in the day view.
var DefaultPrayerNames = []string{
	"Fajr", "Sunrise", "Dhuhr", "Asr", "Maghrib", "Isha",
}

// AllPrayerNames lists every prayer/event the API can return, in chronological order.
var AllPrayerNames = []string{
	"Imsak", "Fajr", "Sunrise", "Dhuhr", "Asr", "Sunset", "Maghrib", "Isha",
	"Firstthird", "Midnight", "Lastthird",
}

// ShortNames maps full prayer names to abbreviations.
var ShortNames = map[string]string{
	"Fajr":       "F",
	"Sunrise":    "S",
	"Dhuhr":      "D",
	"Asr":        "A",
	"Sunset":     "St",
	"Maghrib":    "M",
	"Isha":       "I",
	"Imsak":      "Im",
	"Midnight":   "Mi",
	"Firstthird": "F3",
	"Lastthird":  "L3",
}

// Next is the upcoming prayer and the countdown to it.
type Next struct {
	Name string `json:"name"`
	// Time is the cleaned "HH:MM" of the prayer. When the search wraps to
	// tomorrow's Fajr it is the raw Fajr string, zone suffix included.
	Time     string `json:"time"`
	TimeLeft string `json:"timeLeft"`
	Minutes  int    `json:"minutesLeft"`
}

// NextPrayer returns the first daily prayer whose minute-of-day is after now's.
// When every prayer has passed it wraps to Fajr, adding a full day to the difference.
func NextPrayer(timings api.Timings, now time.Time) (Next, error) {
	current := now.Hour()*60 + now.Minute()

	next := Next{Name: "Fajr", Time: timings.Fajr}
	found := false
	for _, name := range DailyPrayers {
		raw, _ := timings.Lookup(name)
		minute, err := MinuteOfDay(raw)
		if err != nil {
			return Next{}, fmt.Errorf("failed to parse time for %s: %w", name, err)
		}
		if minute > current {
			next.Name = name
			next.Time = CleanTime(raw)
			next.Minutes = minute - current
			found = true
			break
		}
	}

	if !found {
		fajr, err := MinuteOfDay(timings.Fajr)
		if err != nil {
			return Next{}, fmt.Errorf("failed to parse time for Fajr: %w", err)
		}
		next.Minutes = fajr - current
		if next.Minutes < 0 {
			next.Minutes += minutesPerDay
		}
	}

	next.TimeLeft = FormatTimeLeft(next.Minutes)
	return next, nil
}

// FormatTimeLeft renders minutes as "Xh Ym" using truncating division.
func FormatTimeLeft(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// IsNight reports whether now falls between iftar and Fajr.
// A Maghrib hour below 12 is taken as a 12-hour PM reading.
func IsNight(timings api.Timings, now time.Time) (bool, error) {
	current := now.Hour()*60 + now.Minute()

	h, m, err := splitClock(timings.Maghrib)
	if err != nil {
		return false, fmt.Errorf("failed to parse time for Maghrib: %w", err)
	}
	fajr, err := MinuteOfDay(timings.Fajr)
	if err != nil {
		return false, fmt.Errorf("failed to parse time for Fajr: %w", err)
	}

	if h < 12 {
		h += 12
	}
	maghrib := h*60 + m
	return current >= maghrib || current < fajr, nil
}

// CleanTime strips a zone suffix such as " (BST)" from an API time string.
func CleanTime(raw string) string {
	s := strings.TrimSpace(raw)
	if idx := strings.Index(s, " "); idx != -1 {
		s = s[:idx]
	}
	return s
}

// MinuteOfDay parses "HH:MM" (optionally followed by a zone suffix) into minutes after midnight.
func MinuteOfDay(raw string) (int, error) {
	h, m, err := splitClock(raw)
	if err != nil {
		return 0, err
	}
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("time out of range: %q", raw)
	}
	return h*60 + m, nil
}

// On parses raw onto date's calendar day in loc.
func On(raw string, date time.Time, loc *time.Location) (time.Time, error) {
	minute, err := MinuteOfDay(raw)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), minute/60, minute%60, 0, 0, loc), nil
}

func splitClock(raw string) (int, int, error) {
	s := CleanTime(raw)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time format: %q", raw)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 {
		return 0, 0, fmt.Errorf("invalid hour in %q", raw)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 {
		return 0, 0, fmt.Errorf("invalid minute in %q", raw)
	}
	return hour, minute, nil
}
