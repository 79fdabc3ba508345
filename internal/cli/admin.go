package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-companion/internal/display"
	"github.com/smokyabdulrahman/ramadan-companion/internal/schedule"
	"github.com/smokyabdulrahman/ramadan-companion/internal/store"
)

var errNotAdmin = errors.New("this command needs an admin profile; ask an operator to run `ramadan admin promote <name>`")

// requireAdmin returns the store when the signed-in profile is currently an admin.
func (a *app) requireAdmin(cmd *cobra.Command) (*store.Store, error) {
	sess, err := a.requireSession(cmd.Context())
	if err != nil {
		return nil, err
	}
	if !sess.IsAdmin() {
		return nil, errNotAdmin
	}
	return a.store()
}

func (a *app) newOverrideCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "override",
		Short: "Manage sehri/iftar corrections for specific dates (admin)",
		Long:  "Calendar overrides replace the Fajr and Maghrib times the prayer API returns for a date.\nDates use the API's readable form, e.g. \"19 Feb 2026\".",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.store()
			if err != nil {
				return err
			}
			overrides, err := db.Overrides.All(cmd.Context())
			if err != nil {
				return err
			}
			if a.flags.json {
				return printJSON(cmd.OutOrStdout(), overrides)
			}
			printOverrides(cmd, overrides)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "set <date> <fajr> <maghrib>",
		Short:   "Set the override for one date",
		Example: `  ramadan override set "19 Feb 2026" 05:06 17:58`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.requireAdmin(cmd)
			if err != nil {
				return err
			}
			entry, err := store.ValidateOverride(store.Override{Date: args[0], Fajr: args[1], Maghrib: args[2]})
			if err != nil {
				return err
			}
			if err := db.Overrides.Set(cmd.Context(), entry); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Override saved: %s  Fajr %s  Maghrib %s\n", entry.Date, entry.Fajr, entry.Maghrib)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Import overrides from a JSON file",
		Long:  "Import a JSON array of {\"date\", \"fajr\", \"maghrib\"} objects. Existing dates are replaced.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.requireAdmin(cmd)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("cannot open %s: %w", args[0], err)
			}
			defer f.Close()

			entries, err := store.DecodeOverrides(f)
			if err != nil {
				return err
			}
			if err := db.Overrides.SetBulk(cmd.Context(), entries); err != nil {
				return err
			}
			log.Info().Int("count", len(entries)).Str("file", args[0]).Msg("overrides imported")
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d overrides.\n", len(entries))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <date>",
		Short: "Remove the override for one date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.requireAdmin(cmd)
			if err != nil {
				return err
			}
			if err := db.Overrides.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Override for %s removed.\n", args[0])
			return nil
		},
	})

	return cmd
}

func printOverrides(cmd *cobra.Command, overrides map[string]store.Override) {
	out := cmd.OutOrStdout()
	if len(overrides) == 0 {
		fmt.Fprintln(out, "No overrides.")
		return
	}

	entries := make([]store.Override, 0, len(overrides))
	for _, o := range overrides {
		entries = append(entries, o)
	}
	sort.Slice(entries, func(i, j int) bool {
		return overrideTime(entries[i]).Before(overrideTime(entries[j]))
	})

	table := display.NewTable([]string{"Date", "Fajr", "Maghrib"})
	for _, o := range entries {
		table.AddRow([]string{o.Date, o.Fajr, o.Maghrib})
	}
	fmt.Fprint(out, table.Render())
}

// overrideTime orders override dates chronologically; unparseable dates sort first.
func overrideTime(o store.Override) time.Time {
	t, _ := time.Parse(schedule.DateLayout, o.Date)
	return t
}

func (a *app) newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Community statistics and role management",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show community totals (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.requireAdmin(cmd)
			if err != nil {
				return err
			}
			stats, err := db.Profiles.Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.flags.json {
				return printJSON(out, stats)
			}
			fmt.Fprintf(out, "  %-22s %d\n", "Users", stats.TotalUsers)
			fmt.Fprintf(out, "  %-22s %d\n", "Fasts logged", stats.TotalFasts)
			fmt.Fprintf(out, "  %-22s %d\n", "Active users (est.)", stats.ActiveUsers)
			fmt.Fprintf(out, "  %-22s %d\n", "Tasbih count (est.)", stats.TotalTasbih)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "promote <name>",
		Short: "Give a profile the admin role",
		Long:  "Give a profile the admin role. This is an operator command: it only needs access to the database.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.store()
			if err != nil {
				return err
			}
			if err := db.Profiles.SetRole(cmd.Context(), args[0], store.RoleAdmin); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now an admin.\n", args[0])
			return nil
		},
	})

	return cmd
}
