package locale

import (
	"testing"
	"time"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "০"},
		{7, "৭"},
		{1429, "১৪২৯"},
		{2026, "২০২৬"},
		{-5, "-৫"},
	}
	for _, tt := range tests {
		if got := Number(tt.in); got != tt.want {
			t.Errorf("Number(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDigits_LeavesOtherRunes(t *testing.T) {
	if got := Digits("05:12 (BST)"); got != "০৫:১২ (BST)" {
		t.Errorf("Digits = %q, want %q", got, "০৫:১২ (BST)")
	}
}

func TestPrayerName(t *testing.T) {
	tests := map[string]string{
		"Fajr":     "ফজর",
		"Sunrise":  "সূর্যোদয়",
		"Dhuhr":    "জোহর",
		"Asr":      "আসর",
		"Maghrib":  "মাগরিব",
		"Isha":     "ইশা",
		"Sunset":   "সূর্যাস্ত",
		"Midnight": "মধ্যরাত",
		"Imsak":    "Imsak",
	}
	for in, want := range tests {
		if got := PrayerName(in); got != want {
			t.Errorf("PrayerName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMonthAndWeekday(t *testing.T) {
	if got := Month(time.February); got != "ফেব্রুয়ারি" {
		t.Errorf("Month(February) = %q", got)
	}
	if got := Month(time.December); got != "ডিসেম্বর" {
		t.Errorf("Month(December) = %q", got)
	}
	if got := Weekday(time.Sunday); got != "রবি" {
		t.Errorf("Weekday(Sunday) = %q", got)
	}
	if got := Weekday(time.Thursday); got != "বৃহস্পতি" {
		t.Errorf("Weekday(Thursday) = %q", got)
	}
}

func TestPeriod(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{0, "রাত"},
		{2, "রাত"},
		{3, "ভোর"},
		{5, "ভোর"},
		{6, "সকাল"},
		{11, "সকাল"},
		{12, "দুপুর"},
		{14, "দুপুর"},
		{15, "বিকেল"},
		{17, "বিকেল"},
		{18, "সন্ধ্যা"},
		{19, "সন্ধ্যা"},
		{20, "রাত"},
		{23, "রাত"},
	}
	for _, tt := range tests {
		if got := Period(tt.hour); got != tt.want {
			t.Errorf("Period(%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

func TestTimeLeft(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"5h 20m", "৫ঘ ২০মি"},
		{"0h 0m", "০ঘ ০মি"},
		{"12h 5m", "১২ঘ ৫মি"},
	}
	for _, tt := range tests {
		if got := TimeLeft(tt.in); got != tt.want {
			t.Errorf("TimeLeft(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDate(t *testing.T) {
	d := time.Date(2026, time.February, 19, 0, 0, 0, 0, time.UTC)
	if got := Date(d); got != "১৯ ফেব্রুয়ারি ২০২৬" {
		t.Errorf("Date = %q", got)
	}
	if got := English.Date(d); got != "19 Feb 2026" {
		t.Errorf("English.Date = %q", got)
	}
}

func TestAshraLabel(t *testing.T) {
	if got := AshraLabel("Maghfirat"); got != "দ্বিতীয় ১০ দিন: মাগফিরাত" {
		t.Errorf("AshraLabel(Maghfirat) = %q", got)
	}
	if got := AshraLabel("Unknown"); got != "" {
		t.Errorf("AshraLabel(Unknown) = %q, want empty", got)
	}
}

func TestParseLang(t *testing.T) {
	tests := []struct {
		in      string
		want    Lang
		wantErr bool
	}{
		{"", Bengali, false},
		{"bn", Bengali, false},
		{"EN", English, false},
		{" en ", English, false},
		{"fr", "", true},
	}
	for _, tt := range tests {
		got, err := ParseLang(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLang(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLang(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLang_English(t *testing.T) {
	if got := English.Prayer("Fajr"); got != "Fajr" {
		t.Errorf("English.Prayer = %q", got)
	}
	if got := English.TimeLeft("1h 2m"); got != "1h 2m" {
		t.Errorf("English.TimeLeft = %q", got)
	}
	if got := English.Weekday(time.Thursday); got != "Thu" {
		t.Errorf("English.Weekday = %q", got)
	}
	if got := Bengali.Prayer("Fajr"); got != "ফজর" {
		t.Errorf("Bengali.Prayer = %q", got)
	}
	if got := Bengali.Digits("05:12"); got != "০৫:১২" {
		t.Errorf("Bengali.Digits = %q", got)
	}
}

// --- Phonetic ---

func TestPhonetic(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"allah", "Allah", "আল্লাহ"},
		{"bismillah", "Bismillah", "বিসমিল্লাহ"},
		{"initial vowels", "an in", "আন ইন"},
		{"double consonant", "amma", "আম্মা"},
		{"digraph", "shams", "শামস"},
		{"long vowel", "noor", "নূর"},
		{"apostrophe dropped", "du'a", "দুা"},
		{"hyphen starts word", "al-ikhlas", "আল-ইখলাস"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Phonetic(tt.in); got != tt.want {
				t.Errorf("Phonetic(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
