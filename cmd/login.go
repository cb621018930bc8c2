package cmd

import (
	"github.com/spf13/cobra"
)

func newLoginCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session in the browser profile",
		Long:  "Log in to the portal. A session that is still valid is reused without submitting credentials.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := app.settings.Resolve(cmd.Context())
			if err != nil {
				return err
			}
			return app.portal.Login(cmd.Context(), settings, app.sessionOptions())
		},
	}
}
