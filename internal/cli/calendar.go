package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-companion/internal/api"
	"github.com/smokyabdulrahman/ramadan-companion/internal/display"
	"github.com/smokyabdulrahman/ramadan-companion/internal/locale"
	"github.com/smokyabdulrahman/ramadan-companion/internal/prayer"
	"github.com/smokyabdulrahman/ramadan-companion/internal/schedule"
)

func (a *app) newCalendarCmd() *cobra.Command {
	var month, year int

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show a month of Fajr and Maghrib times",
		Long:  "Display a month of sehri (Fajr) and iftar (Maghrib) times with admin overrides applied.\nWithout --month/--year the Ramadan month (March 2026) is shown.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month < 0 || month > 12 {
				return fmt.Errorf("invalid month %d (must be 1-12)", month)
			}
			if year < 0 {
				return fmt.Errorf("invalid year %d", year)
			}
			return a.runCalendar(cmd, month, year)
		},
	}

	cmd.Flags().IntVar(&month, "month", 0, "Month 1-12")
	cmd.Flags().IntVar(&year, "year", 0, "Gregorian year")

	return cmd
}

func (a *app) runCalendar(cmd *cobra.Command, month, year int) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	lang := a.lang()

	loc := a.location(ctx)
	days, err := a.resolver().Month(ctx, loc.Coordinates, month, year)
	if err != nil {
		log.Warn().Err(err).Msg("calendar unavailable")
		fmt.Fprintf(out, "  %s\n", display.Dim("calendar unavailable, check your connection"))
		return nil
	}

	if a.flags.json {
		return printJSON(out, days)
	}
	if len(days) == 0 {
		fmt.Fprintln(out, "  No days returned for this month.")
		return nil
	}

	headers := []string{"Date", "Hijri", "Sehri", "Iftar"}
	if lang == locale.Bengali {
		headers = []string{"তারিখ", "হিজরি", "সেহরি", "ইফতার"}
	}
	table := display.NewTable(headers)
	table.SetNight(a.isNight(days))

	today := a.deps.Now().Format(schedule.DateLayout)
	for i, d := range days {
		fajr, maghrib := dayTimings(d)
		table.AddRow([]string{
			a.dayLabel(d),
			lang.Digits(d.Date.Hijri.Day),
			a.clock(fajr),
			a.clock(maghrib),
		})
		if d.Date.Readable == today {
			table.SetHighlightRow(i)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Bold(a.monthTitle(days[0])))
	fmt.Fprintf(out, "  %s\n", locationLabel(loc))
	fmt.Fprintln(out)
	fmt.Fprint(out, table.Render())
	fmt.Fprintln(out)
	return nil
}

// dayLabel renders a calendar row's date, e.g. "Sat 21 Feb" or "শনি ২১".
func (a *app) dayLabel(d api.Data) string {
	t, err := time.Parse(schedule.DateLayout, d.Date.Readable)
	if err != nil {
		return d.Date.Readable
	}
	if a.lang() == locale.Bengali {
		return locale.Weekday(t.Weekday()) + " " + locale.Number(t.Day())
	}
	return t.Format("Mon 02 Jan")
}

func (a *app) monthTitle(first api.Data) string {
	t, err := time.Parse(schedule.DateLayout, first.Date.Readable)
	if err != nil {
		return first.Date.Readable
	}
	if a.lang() == locale.Bengali {
		return locale.Month(t.Month()) + " " + locale.Number(t.Year())
	}
	return t.Format("January 2006")
}

// isNight reports whether today's row, if shown, is past iftar.
func (a *app) isNight(days []api.Data) bool {
	now := a.deps.Now()
	today := now.Format(schedule.DateLayout)
	for _, d := range days {
		if d.Date.Readable != today {
			continue
		}
		night, err := prayer.IsNight(d.Timings, now)
		return err == nil && night
	}
	return false
}
