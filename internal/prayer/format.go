package prayer

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/smokyabdulrahman/ramadan-companion/internal/locale"
)

// Format constants for display modes.
const (
	FormatTimeRemaining      = "time-remaining"
	FormatNextPrayerTime     = "next-prayer-time"
	FormatNameAndTime        = "name-and-time"
	FormatNameAndRemaining   = "name-and-remaining"
	FormatShortNameAndTime   = "short-name-and-time"
	FormatShortNameAndRemain = "short-name-and-remaining"
	FormatFull               = "full"
)

// FormatData is the data passed to custom Go templates.
type FormatData struct {
	Name      string // Localized prayer name, e.g. "Asr" or "আসর"
	ShortName string // Abbreviated name, e.g. "A"
	Time      string // Formatted prayer time, e.g. "15:02" or "3:02 PM"
	Remaining string // Time remaining, e.g. "2h 15m"
	Hours     int    // Whole hours remaining
	Minutes   int    // Remaining minutes after hours
}

// FormatOutput renders the next prayer according to the chosen format mode.
// timeFormat should be "15:04" for 24h or "3:04 PM" for 12h.
//
// If mode contains "{{", it is treated as a custom Go template string.
// Available template fields: .Name, .ShortName, .Time, .Remaining, .Hours, .Minutes
//
// Example: "{{.Name}} in {{.Remaining}}" -> "Asr in 2h 15m"
func FormatOutput(n Next, mode, timeFormat string, lang locale.Lang) string {
	name := lang.Prayer(n.Name)
	short := ShortNames[n.Name]
	remaining := lang.TimeLeft(n.TimeLeft)
	timeStr := lang.Digits(FormatClock(n.Time, timeFormat))

	if strings.Contains(mode, "{{") {
		return formatCustom(mode, FormatData{
			Name:      name,
			ShortName: short,
			Time:      timeStr,
			Remaining: remaining,
			Hours:     n.Minutes / 60,
			Minutes:   n.Minutes % 60,
		})
	}

	switch mode {
	case FormatTimeRemaining:
		return remaining
	case FormatNextPrayerTime:
		return timeStr
	case FormatNameAndTime:
		return fmt.Sprintf("%s %s", name, timeStr)
	case FormatNameAndRemaining:
		return fmt.Sprintf("%s %s", name, remaining)
	case FormatShortNameAndTime:
		return fmt.Sprintf("%s %s", short, timeStr)
	case FormatShortNameAndRemain:
		return fmt.Sprintf("%s %s", short, remaining)
	case FormatFull:
		return fmt.Sprintf("%s %s (%s)", name, timeStr, remaining)
	default:
		return fmt.Sprintf("%s %s", name, timeStr)
	}
}

// FormatClock re-renders an API time string with layout. Unparseable input is returned as given.
func FormatClock(raw, layout string) string {
	minute, err := MinuteOfDay(raw)
	if err != nil {
		return raw
	}
	return time.Date(2000, 1, 1, minute/60, minute%60, 0, 0, time.UTC).Format(layout)
}

// formatCustom executes a user-provided Go template string against the FormatData.
func formatCustom(tmpl string, data FormatData) string {
	t, err := template.New("custom").Parse(tmpl)
	if err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	return buf.String()
}
