package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-companion/internal/display"
	"github.com/smokyabdulrahman/ramadan-companion/internal/locale"
	"github.com/smokyabdulrahman/ramadan-companion/internal/schedule"
)

func (a *app) newScheduleCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show the Ramadan sehri and iftar schedule",
		Long:  "Display the 30-day sehri/iftar table, grouped by ashra, with today highlighted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if year == 0 {
				year = a.deps.Now().Year()
			}
			days := a.deps.Schedule.Days(year)
			if a.flags.json {
				return printJSON(cmd.OutOrStdout(), days)
			}
			a.printSchedule(cmd.OutOrStdout(), days)
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Season year (default: current year)")

	cmd.AddCommand(&cobra.Command{
		Use:   "today",
		Short: "Show where today falls in Ramadan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pos := a.deps.Schedule.Locate(a.deps.Now())
			if a.flags.json {
				return printJSON(cmd.OutOrStdout(), pos)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", a.ramadanLine(pos))
			return nil
		},
	})

	return cmd
}

func (a *app) printSchedule(w io.Writer, days []schedule.Day) {
	lang := a.lang()
	pos := a.deps.Schedule.Locate(a.deps.Now())

	headers := []string{"Day", "Date", "Weekday", "Sehri", "Iftar"}
	if lang == locale.Bengali {
		headers = []string{"রমজান", "তারিখ", "বার", "সেহরি", "ইফতার"}
	}

	fmt.Fprintln(w)
	for start := 0; start < len(days); start += 10 {
		end := min(start+10, len(days))
		chunk := days[start:end]

		heading := string(chunk[0].Ashra)
		if lang == locale.Bengali {
			heading = locale.AshraLabel(heading)
		}
		fmt.Fprintf(w, "  %s\n", display.Bold(heading))

		table := display.NewTable(headers)
		for i, d := range chunk {
			t := d.Time()
			table.AddRow([]string{
				lang.Digits(fmt.Sprintf("%d", d.Index)),
				lang.Date(t),
				lang.Weekday(d.Weekday),
				lang.Digits(d.Sehri),
				lang.Digits(d.Iftar),
			})
			if pos.Phase == schedule.During && pos.Day.Index == d.Index {
				table.SetHighlightRow(i)
			}
		}
		fmt.Fprint(w, table.Render())
		fmt.Fprintln(w)
	}
}
