package locale

import (
	"regexp"
	"strings"
)

type rule struct {
	from, to string
}

var quranicWords = []rule{
	{"allahu", "আল্লাহু"},
	{"allahi", "আল্লাহি"},
	{"allah", "আল্লাহ"},
	{"bismillah", "বিসমিল্লাহ"},
}

var initialVowels = []struct {
	re *regexp.Regexp
	to string
}{
	{regexp.MustCompile(`(^|[\s-])a`), "${1}আ"},
	{regexp.MustCompile(`(^|[\s-])i`), "${1}ই"},
	{regexp.MustCompile(`(^|[\s-])u`), "${1}উ"},
	{regexp.MustCompile(`(^|[\s-])e`), "${1}এ"},
	{regexp.MustCompile(`(^|[\s-])o`), "${1}ও"},
}

// Applied in order: each pass sees the output of the previous one.
var letterPasses = [][]rule{
	{
		{"ll", "ল্ল"}, {"mm", "ম্ম"}, {"nn", "ন্ন"}, {"bb", "ব্ব"},
		{"dd", "দ্দ"}, {"tt", "ত্ত"}, {"rr", "রর"},
	},
	{
		{"sh", "শ"}, {"th", "থ"}, {"gh", "ঘ"}, {"kh", "খ"},
		{"dh", "ধ"}, {"ph", "ফ"}, {"ch", "চ"}, {"zh", "ঝ"},
	},
	{
		{"b", "ব"}, {"c", "ক"}, {"d", "দ"}, {"f", "ফ"}, {"g", "গ"}, {"h", "হ"},
		{"j", "জ"}, {"k", "ক"}, {"l", "ল"}, {"m", "ম"}, {"n", "ন"}, {"p", "প"},
		{"q", "ক"}, {"r", "র"}, {"s", "স"}, {"t", "ত"}, {"v", "ভ"}, {"w", "ওয়"},
		{"x", "ক্স"}, {"y", "ইয়"}, {"z", "য"},
	},
	{
		{"aa", "া"}, {"ee", "ী"}, {"oo", "ূ"},
		{"a", "া"}, {"i", "ি"}, {"u", "ু"}, {"e", "ে"}, {"o", "ো"},
	},
}

// Phonetic transliterates romanized Arabic (as printed in dua cards) into
// Bengali script. It is a rough letter-by-letter approximation, not a
// linguistic transliteration.
func Phonetic(text string) string {
	if text == "" {
		return ""
	}
	s := strings.ToLower(text)

	for _, r := range quranicWords {
		s = strings.ReplaceAll(s, r.from, r.to)
	}
	for _, v := range initialVowels {
		s = v.re.ReplaceAllString(s, v.to)
	}
	for _, pass := range letterPasses {
		for _, r := range pass {
			s = strings.ReplaceAll(s, r.from, r.to)
		}
	}
	return strings.ReplaceAll(s, "'", "")
}
