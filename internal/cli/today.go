package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-companion/internal/api"
	"github.com/smokyabdulrahman/ramadan-companion/internal/display"
	"github.com/smokyabdulrahman/ramadan-companion/internal/geo"
	"github.com/smokyabdulrahman/ramadan-companion/internal/locale"
	"github.com/smokyabdulrahman/ramadan-companion/internal/prayer"
	"github.com/smokyabdulrahman/ramadan-companion/internal/schedule"
)

// placeholder is shown for any time that could not be loaded.
const placeholder = "--:--"

// todayView is everything the day screen shows.
type todayView struct {
	Location geo.Resolved      `json:"location"`
	Date     string            `json:"date"`
	Hijri    string            `json:"hijri,omitempty"`
	Timings  map[string]string `json:"timings"`
	Next     *prayer.Next      `json:"next,omitempty"`
	Night    bool              `json:"night"`
	Ramadan  schedule.Position `json:"ramadan"`
	Offline  bool              `json:"offline,omitempty"`
}

func (a *app) runToday(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	view := a.buildToday(ctx, a.selectedPrayers())
	if a.flags.json {
		return printJSON(cmd.OutOrStdout(), view)
	}
	a.printToday(cmd.OutOrStdout(), view, a.selectedPrayers())
	return nil
}

// selectedPrayers returns the configured prayer rows, or the defaults.
func (a *app) selectedPrayers() []string {
	if a.cfg.Prayers == "" {
		return prayer.DefaultPrayerNames
	}
	names := strings.Split(a.cfg.Prayers, ",")
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
	}
	return names
}

func (a *app) buildToday(ctx context.Context, names []string) todayView {
	now := a.deps.Now()
	loc := a.location(ctx)

	view := todayView{
		Location: loc,
		Date:     now.Format(schedule.DateLayout),
		Timings:  make(map[string]string, len(names)),
		Ramadan:  a.deps.Schedule.Locate(now),
	}

	data, err := a.resolver().Today(ctx, loc.Coordinates)
	if err != nil {
		if !errors.Is(err, prayer.ErrUnavailable) {
			log.Warn().Err(err).Msg("loading prayer times")
		}
		view.Offline = true
		for _, name := range names {
			view.Timings[name] = placeholder
		}
		return view
	}

	if data.Date.Readable != "" {
		view.Date = data.Date.Readable
	}
	view.Hijri = data.Date.Hijri.Format()
	for _, name := range names {
		raw, ok := data.Timings.Lookup(name)
		if !ok || raw == "" {
			view.Timings[name] = placeholder
			continue
		}
		view.Timings[name] = prayer.CleanTime(raw)
	}
	if next, err := prayer.NextPrayer(data.Timings, now); err == nil {
		view.Next = &next
	} else {
		log.Warn().Err(err).Msg("could not compute next prayer")
	}
	if night, err := prayer.IsNight(data.Timings, now); err == nil {
		view.Night = night
	}
	return view
}

func (a *app) printToday(w io.Writer, v todayView, names []string) {
	lang := a.lang()

	title := "Prayer Times"
	if lang == locale.Bengali {
		title = "নামাজের সময়"
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold(title))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", locationLabel(v.Location))
	fmt.Fprintf(w, "  %s\n", lang.Digits(v.Date))
	if v.Hijri != "" {
		fmt.Fprintf(w, "  %s\n", lang.Digits(v.Hijri))
	}
	fmt.Fprintf(w, "  %s\n", a.ramadanLine(v.Ramadan))
	fmt.Fprintln(w)

	headers := []string{"Prayer", "Time"}
	if lang == locale.Bengali {
		headers = []string{"নামাজ", "সময়"}
	}
	table := display.NewTable(headers)
	table.SetNight(v.Night)
	for _, name := range names {
		clock := v.Timings[name]
		if clock != placeholder {
			clock = a.clock(clock)
		}
		row := []string{lang.Prayer(name), clock}
		if v.Next != nil && v.Next.Name == name {
			row[1] += "  <- " + lang.TimeLeft(v.Next.TimeLeft)
			table.SetHighlightRow(table.Len())
		}
		table.AddRow(row)
	}
	fmt.Fprint(w, table.Render())

	if v.Offline {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n", display.Dim("prayer times unavailable, check your connection"))
	}
	fmt.Fprintln(w)
}

// clock renders an API time in the configured format and language.
// Bengali 12-hour times name the part of the day instead of AM/PM.
func (a *app) clock(raw string) string {
	lang := a.lang()
	if lang == locale.Bengali && a.cfg.TimeFormat == "12h" {
		if minute, err := prayer.MinuteOfDay(raw); err == nil {
			return locale.Period(minute/60) + " " + locale.Digits(prayer.FormatClock(raw, "3:04"))
		}
	}
	return lang.Digits(prayer.FormatClock(raw, a.clockLayout()))
}

// ramadanLine summarizes where today sits in the Ramadan schedule.
func (a *app) ramadanLine(pos schedule.Position) string {
	lang := a.lang()
	d := pos.Day
	switch pos.Phase {
	case schedule.During:
		if lang == locale.Bengali {
			return fmt.Sprintf("রমজান %s · %s · সেহরি %s · ইফতার %s",
				locale.Number(d.Index), locale.AshraLabel(string(d.Ashra)), locale.Digits(d.Sehri), locale.Digits(d.Iftar))
		}
		return fmt.Sprintf("Ramadan day %d · %s · Sehri %s · Iftar %s", d.Index, d.Ashra, d.Sehri, d.Iftar)
	case schedule.PreRamadan:
		if lang == locale.Bengali {
			return fmt.Sprintf("রমজান শুরু %s", locale.Date(d.Time()))
		}
		return fmt.Sprintf("Ramadan starts %s", d.Date)
	}
	if lang == locale.Bengali {
		return "রমজান শেষ হয়েছে"
	}
	return "Ramadan has ended"
}

// locationLabel builds a "City, Country" string, falling back to coordinates.
func locationLabel(r geo.Resolved) string {
	if r.City != "" && r.Country != "" {
		return fmt.Sprintf("%s, %s (%s)", r.City, r.Country, r.Source)
	}
	return fmt.Sprintf("%.4f, %.4f (%s)", r.Latitude, r.Longitude, r.Source)
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// dayTimings is a calendar row's cleaned Fajr and Maghrib.
func dayTimings(d api.Data) (string, string) {
	return prayer.CleanTime(d.Timings.Fajr), prayer.CleanTime(d.Timings.Maghrib)
}
