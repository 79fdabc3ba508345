package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-companion/internal/api"
	"github.com/smokyabdulrahman/ramadan-companion/internal/prayer"
)

func (a *app) newNextCmd() *cobra.Command {
	var (
		format string
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next prayer with countdown",
		Long:  "Display the next upcoming prayer time with a countdown.\nSuitable for status bars; --watch keeps the countdown ticking.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runNext(cmd, format, watch)
		},
	}

	cmd.Flags().StringVar(&format, "format", prayer.FormatFull, "Display format: time-remaining, next-prayer-time, name-and-time, name-and-remaining, short-name-and-time, short-name-and-remaining, full, or a custom Go template")
	cmd.Flags().BoolVar(&watch, "watch", false, "Refresh the countdown every second until interrupted")

	return cmd
}

func (a *app) runNext(cmd *cobra.Command, format string, watch bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	loc := a.location(ctx)
	data, err := a.resolver().Today(ctx, loc.Coordinates)
	if err != nil {
		// A status bar should keep rendering, so show a placeholder instead of failing.
		log.Warn().Err(err).Msg("next prayer unavailable")
		fmt.Fprint(out, placeholder)
		return nil
	}

	if !watch {
		next, err := prayer.NextPrayer(data.Timings, a.deps.Now())
		if err != nil {
			return fmt.Errorf("could not determine next prayer: %w", err)
		}
		if a.flags.json {
			return printJSON(out, next)
		}
		fmt.Fprint(out, prayer.FormatOutput(next, format, a.clockLayout(), a.lang()))
		return nil
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		if err := a.redraw(out, data.Timings, format); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case <-ticker.C:
		}
	}
}

// redraw overwrites the current terminal line with a fresh countdown.
func (a *app) redraw(w io.Writer, timings api.Timings, format string) error {
	line, err := a.nextLine(timings, a.deps.Now(), format)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "\r\033[K%s", line)
	return err
}

func (a *app) nextLine(timings api.Timings, now time.Time, format string) (string, error) {
	next, err := prayer.NextPrayer(timings, now)
	if err != nil {
		return "", fmt.Errorf("could not determine next prayer: %w", err)
	}
	return prayer.FormatOutput(next, format, a.clockLayout(), a.lang()), nil
}
