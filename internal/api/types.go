package api

import "fmt"

// Response represents the top-level Al Adhan timings response.
type Response struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   Data   `json:"data"`
}

// CalendarResponse represents the Al Adhan calendar response: one Data per day of the month.
type CalendarResponse struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   []Data `json:"data"`
}

// Data holds one day's timings and its date labels.
type Data struct {
	Timings Timings  `json:"timings"`
	Date    DateInfo `json:"date"`
	Meta    Meta     `json:"meta"`
}

// Timings contains prayer and event times as "HH:MM" strings.
// The API may append a zone suffix like " (+06)"; consumers strip it when parsing.
type Timings struct {
	Fajr       string `json:"Fajr"`
	Sunrise    string `json:"Sunrise"`
	Dhuhr      string `json:"Dhuhr"`
	Asr        string `json:"Asr"`
	Sunset     string `json:"Sunset"`
	Maghrib    string `json:"Maghrib"`
	Isha       string `json:"Isha"`
	Imsak      string `json:"Imsak,omitempty"`
	Midnight   string `json:"Midnight"`
	Firstthird string `json:"Firstthird,omitempty"`
	Lastthird  string `json:"Lastthird,omitempty"`
}

// Lookup returns the raw time string for a prayer name such as "Fajr".
func (t Timings) Lookup(name string) (string, bool) {
	switch name {
	case "Fajr":
		return t.Fajr, true
	case "Sunrise":
		return t.Sunrise, true
	case "Dhuhr":
		return t.Dhuhr, true
	case "Asr":
		return t.Asr, true
	case "Sunset":
		return t.Sunset, true
	case "Maghrib":
		return t.Maghrib, true
	case "Isha":
		return t.Isha, true
	case "Imsak":
		return t.Imsak, true
	case "Midnight":
		return t.Midnight, true
	case "Firstthird":
		return t.Firstthird, true
	case "Lastthird":
		return t.Lastthird, true
	}
	return "", false
}

// DateInfo contains the date labels for a day.
// Readable ("19 Feb 2026") is the join key for calendar overrides.
type DateInfo struct {
	Readable  string        `json:"readable"`
	Timestamp string        `json:"timestamp"`
	Hijri     HijriDate     `json:"hijri"`
	Gregorian GregorianDate `json:"gregorian"`
}

// HijriDate represents the Hijri date from the API response.
type HijriDate struct {
	Date        string           `json:"date"` // e.g. "01-09-1447"
	Day         string           `json:"day"`
	Month       HijriMonth       `json:"month"`
	Year        string           `json:"year"`
	Designation HijriDesignation `json:"designation"`
}

// HijriMonth represents the month in the Hijri calendar.
type HijriMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"`
	Ar     string `json:"ar"`
}

// HijriDesignation contains the calendar designation labels.
type HijriDesignation struct {
	Abbreviated string `json:"abbreviated"`
	Expanded    string `json:"expanded"`
}

// Format returns the Hijri date as "DD MonthName YYYY AH".
func (h HijriDate) Format() string {
	if h.Day == "" || h.Month.En == "" || h.Year == "" {
		return ""
	}
	abbr := h.Designation.Abbreviated
	if abbr == "" {
		abbr = "AH"
	}
	return h.Day + " " + h.Month.En + " " + h.Year + " " + abbr
}

// GregorianDate represents the Gregorian date from the API response.
type GregorianDate struct {
	Date    string         `json:"date"` // e.g. "19-02-2026"
	Day     string         `json:"day"`
	Weekday GregorianDay   `json:"weekday"`
	Month   GregorianMonth `json:"month"`
	Year    string         `json:"year"`
}

// GregorianDay contains the weekday name.
type GregorianDay struct {
	En string `json:"en"`
}

// GregorianMonth contains the month details.
type GregorianMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"`
}

// Meta contains request metadata returned by the API.
type Meta struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Timezone  string     `json:"timezone"`
	Method    MethodInfo `json:"method"`
}

// MethodInfo identifies the calculation method used.
type MethodInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Surah is one entry of the alquran.cloud surah index.
type Surah struct {
	Number                 int    `json:"number"`
	Name                   string `json:"name"`
	EnglishName            string `json:"englishName"`
	EnglishNameTranslation string `json:"englishNameTranslation"`
	NumberOfAyahs          int    `json:"numberOfAyahs"`
	RevelationType         string `json:"revelationType"`
}

// SurahListResponse is the alquran.cloud /surah envelope.
type SurahListResponse struct {
	Code   int     `json:"code"`
	Status string  `json:"status"`
	Data   []Surah `json:"data"`
}

// SurahName returns the English name of surah number, or "" when it is not in the index.
func SurahName(surahs []Surah, number int) string {
	for _, s := range surahs {
		if s.Number == number {
			return s.EnglishName
		}
	}
	return ""
}

// SurahCount is the number of surahs in the Quran.
const SurahCount = 114

// Edition identifies one text of the Quran served by alquran.cloud.
type Edition struct {
	Identifier string `json:"identifier"`
	Language   string `json:"language"`
	Type       string `json:"type"` // "quran", "translation" or "transliteration"
}

// EditionAyah is one verse of a single edition.
type EditionAyah struct {
	Number        int    `json:"number"` // position in the whole Quran
	Text          string `json:"text"`
	NumberInSurah int    `json:"numberInSurah"`
}

// SurahEdition is one edition of a surah.
type SurahEdition struct {
	Surah
	Edition Edition       `json:"edition"`
	Ayahs   []EditionAyah `json:"ayahs"`
}

// SurahEditionsResponse is the alquran.cloud /surah/{n}/editions/... envelope.
type SurahEditionsResponse struct {
	Code   int            `json:"code"`
	Status string         `json:"status"`
	Data   []SurahEdition `json:"data"`
}

// Ayah is one verse as the reader shows it.
type Ayah struct {
	Number          int    `json:"number"`
	NumberInSurah   int    `json:"numberInSurah"`
	Arabic          string `json:"arabic"`
	Bengali         string `json:"bengali,omitempty"`
	Transliteration string `json:"transliteration,omitempty"`
}

// SurahText is a surah with its verses.
type SurahText struct {
	Surah
	Ayahs []Ayah `json:"ayahs"`
}

// MergeEditions lines up the Arabic, Bengali and transliteration editions by
// verse number. The Arabic edition is required; the others fill in when present.
func MergeEditions(editions []SurahEdition) (*SurahText, error) {
	var arabic, bengali, translit *SurahEdition
	for i := range editions {
		e := &editions[i]
		switch {
		case e.Edition.Identifier == "quran-uthmani":
			arabic = e
		case e.Edition.Type == "transliteration":
			translit = e
		case e.Edition.Language == "bn":
			bengali = e
		}
	}
	if arabic == nil {
		return nil, fmt.Errorf("response has no Arabic edition")
	}

	text := &SurahText{Surah: arabic.Surah, Ayahs: make([]Ayah, 0, len(arabic.Ayahs))}
	bn, tr := byVerse(bengali), byVerse(translit)
	for _, a := range arabic.Ayahs {
		text.Ayahs = append(text.Ayahs, Ayah{
			Number:          a.Number,
			NumberInSurah:   a.NumberInSurah,
			Arabic:          a.Text,
			Bengali:         bn[a.NumberInSurah],
			Transliteration: tr[a.NumberInSurah],
		})
	}
	return text, nil
}

func byVerse(e *SurahEdition) map[int]string {
	out := make(map[int]string)
	if e == nil {
		return out
	}
	for _, a := range e.Ayahs {
		out[a.NumberInSurah] = a.Text
	}
	return out
}
