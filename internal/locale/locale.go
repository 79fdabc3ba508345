// Package locale renders numbers, prayer names and dates in Bengali.
//
// Everything here is pure. Unknown inputs pass through unchanged so a missing
// translation never hides data.
package locale

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Lang selects the output language.
type Lang string

const (
	English Lang = "en"
	Bengali Lang = "bn"
)

// ParseLang accepts "en" or "bn" (case-insensitive). Empty means Bengali.
func ParseLang(s string) (Lang, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bn":
		return Bengali, nil
	case "en":
		return English, nil
	}
	return "", fmt.Errorf("unknown language %q (expected \"bn\" or \"en\")", s)
}

var digitReplacer = strings.NewReplacer(
	"0", "০", "1", "১", "2", "২", "3", "৩", "4", "৪",
	"5", "৫", "6", "৬", "7", "৭", "8", "৮", "9", "৯",
)

// Digits replaces every Western digit in s with its Bengali numeral.
func Digits(s string) string {
	return digitReplacer.Replace(s)
}

// Number formats n with Bengali numerals, e.g. 1429 -> "১৪২৯".
func Number(n int) string {
	return Digits(strconv.Itoa(n))
}

var prayerNames = map[string]string{
	"Fajr":     "ফজর",
	"Sunrise":  "সূর্যোদয়",
	"Dhuhr":    "জোহর",
	"Asr":      "আসর",
	"Maghrib":  "মাগরিব",
	"Isha":     "ইশা",
	"Sunset":   "সূর্যাস্ত",
	"Midnight": "মধ্যরাত",
}

// PrayerName translates a prayer name; unknown names are returned as given.
func PrayerName(name string) string {
	if bn, ok := prayerNames[name]; ok {
		return bn
	}
	return name
}

var months = [12]string{
	"জানুয়ারি", "ফেব্রুয়ারি", "মার্চ", "এপ্রিল", "মে", "জুন",
	"জুলাই", "আগস্ট", "সেপ্টেম্বর", "অক্টোবর", "নভেম্বর", "ডিসেম্বর",
}

// Month returns the Bengali name of a Gregorian month.
func Month(m time.Month) string {
	if m < time.January || m > time.December {
		return m.String()
	}
	return months[m-1]
}

var weekdays = [7]string{"রবি", "সোম", "মঙ্গল", "বুধ", "বৃহস্পতি", "শুক্র", "শনি"}

// Weekday returns the short Bengali weekday name.
func Weekday(d time.Weekday) string {
	if d < time.Sunday || d > time.Saturday {
		return d.String()
	}
	return weekdays[d]
}

// Period names the part of the day an hour falls in.
func Period(hour int) string {
	switch {
	case hour >= 3 && hour < 6:
		return "ভোর"
	case hour >= 6 && hour < 12:
		return "সকাল"
	case hour >= 12 && hour < 15:
		return "দুপুর"
	case hour >= 15 && hour < 18:
		return "বিকেল"
	case hour >= 18 && hour < 20:
		return "সন্ধ্যা"
	}
	return "রাত"
}

// TimeLeft localizes a countdown such as "5h 20m" into "৫ঘ ২০মি".
// Only the first 'h' and the first 'm' are replaced.
func TimeLeft(s string) string {
	s = strings.Replace(s, "h", "ঘ", 1)
	s = strings.Replace(s, "m", "মি", 1)
	return Digits(s)
}

var ashraLabels = map[string]string{
	"Rahmat":    "প্রথম ১০ দিন: রহমত",
	"Maghfirat": "দ্বিতীয় ১০ দিন: মাগফিরাত",
	"Najat":     "তৃতীয় ১০ দিন: নাজাত",
}

// AshraLabel returns the heading for one of the three ten-day phases of Ramadan.
func AshraLabel(ashra string) string {
	return ashraLabels[ashra]
}

// Date formats t as "১৯ ফেব্রুয়ারি ২০২৬".
func Date(t time.Time) string {
	return Number(t.Day()) + " " + Month(t.Month()) + " " + Number(t.Year())
}

// Digits localizes the digits in s.
func (l Lang) Digits(s string) string {
	if l == English {
		return s
	}
	return Digits(s)
}

// Prayer localizes a prayer name.
func (l Lang) Prayer(name string) string {
	if l == English {
		return name
	}
	return PrayerName(name)
}

// TimeLeft localizes a countdown label.
func (l Lang) TimeLeft(s string) string {
	if l == English {
		return s
	}
	return TimeLeft(s)
}

// Date formats t as a day label.
func (l Lang) Date(t time.Time) string {
	if l == English {
		return t.Format("02 Jan 2006")
	}
	return Date(t)
}

// Weekday names d.
func (l Lang) Weekday(d time.Weekday) string {
	if l == English {
		return d.String()[:3]
	}
	return Weekday(d)
}
