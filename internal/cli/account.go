package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-companion/internal/identity"
	"github.com/smokyabdulrahman/ramadan-companion/internal/store"
)

func (a *app) newSignupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signup <name>",
		Short: "Create a profile and sign in",
		Long:  "Create a profile with the given display name and sign in on this machine.\nThe name is the only credential: anyone who knows it can sign in.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.signIn(cmd, strings.Join(args, " "), identity.ModeSignup)
		},
	}
}

func (a *app) newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <name>",
		Short: "Sign in to an existing profile",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.signIn(cmd, strings.Join(args, " "), identity.ModeLogin)
		},
	}
}

func (a *app) signIn(cmd *cobra.Command, name string, mode identity.Mode) error {
	db, err := a.store()
	if err != nil {
		return err
	}
	ptr, err := a.pointer()
	if err != nil {
		return err
	}

	profile, err := identity.NewResolver(db.Profiles).Resolve(cmd.Context(), name, mode, ptr)
	if err != nil {
		return err
	}

	if a.flags.json {
		return printJSON(cmd.OutOrStdout(), profile)
	}
	verb := "Signed in"
	if mode == identity.ModeSignup {
		verb = "Welcome"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s, %s.\n", verb, profile.Name)
	return nil
}

func (a *app) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out on this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ptr, err := a.pointer()
			if err != nil {
				return err
			}
			if err := identity.Logout(ptr); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func (a *app) newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := a.currentProfile(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if profile == nil {
				fmt.Fprintln(out, "Not signed in.")
				return nil
			}
			if a.flags.json {
				return printJSON(out, profile)
			}
			fmt.Fprintf(out, "%s (%s)\n", profile.Name, profile.Role)
			return nil
		},
	}
}

// currentProfile returns the signed-in profile fresh from the database, or nil.
func (a *app) currentProfile(cmd *cobra.Command) (*store.Profile, error) {
	sess, err := a.session(cmd.Context())
	if err != nil || !sess.LoggedIn() {
		return nil, err
	}
	db, err := a.store()
	if err != nil {
		return nil, err
	}
	return db.Profiles.ByID(cmd.Context(), sess.UserID)
}
