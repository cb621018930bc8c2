package cmd

import (
	"fmt"
	"strings"

	"github.com/bnema/klientenportal-cli/internal/application"
	"github.com/spf13/cobra"
)

const maskedSecret = "********"

func newConfigCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the portal settings",
	}

	cmd.AddCommand(newConfigShowCmd(app), newConfigSetCmd(app))

	return cmd
}

func newConfigShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings with the password masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := app.settings.Describe(cmd.Context())
			if err != nil {
				return err
			}

			password := "(not set)"
			switch {
			case settings.Password != "":
				password = maskedSecret
			case settings.PasswordRef != "":
				password = fmt.Sprintf("%s (secret store: %s)", maskedSecret, settings.PasswordRef)
			}

			lines := []string{
				"config:     " + app.settings.Path(),
				"workspace:  " + app.paths.WorkspaceRoot,
				"profile:    " + app.paths.ProfileDir(),
				"portal_id:  " + orUnset(settings.PortalID),
				"portal_url: " + orUnset(settings.PortalURL),
				"user_id:    " + orUnset(settings.UserID),
				"password:   " + password,
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n"))
			return err
		},
	}
}

func newConfigSetCmd(app *app) *cobra.Command {
	var update application.SettingsUpdate

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store portal settings; the password goes to the secret store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if update == (application.SettingsUpdate{}) {
				return fmt.Errorf("nothing to set: pass at least one of --portal-id, --portal-url, --user-id, --password")
			}
			if err := app.settings.Store(cmd.Context(), update); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "[config] ✓ Saved %s\n", app.settings.Path())
			return err
		},
	}

	cmd.Flags().StringVar(&update.PortalID, "portal-id", "", "Portal ID (the number in the portal URL)")
	cmd.Flags().StringVar(&update.PortalURL, "portal-url", "", "Portal base URL (default: https://klientenportal.at/prod/<portal-id>)")
	cmd.Flags().StringVar(&update.UserID, "user-id", "", "Login user ID")
	cmd.Flags().StringVar(&update.Password, "password", "", "Login password, kept in pass or the hardened file store")

	return cmd
}

func orUnset(value string) string {
	if strings.TrimSpace(value) == "" {
		return "(not set)"
	}
	return value
}
