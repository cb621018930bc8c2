package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// Execute runs kp until completion or interrupt.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(dependencies{})
}

type globalFlags struct {
	visible bool
	verbose bool
}

func newRootCmdWith(deps dependencies) *cobra.Command {
	flags := &globalFlags{}
	app := &app{}

	rootCmd := &cobra.Command{
		Use:   "kp",
		Short: "Klientenportal CLI (kp): upload receipts and fetch documents from your tax accountant's portal",
		Long: "kp drives the Klientenportal web portal in a headless browser: it keeps a persistent session, " +
			"uploads documents into a Belegkreis, lists released documents and downloads the documents " +
			"your accountant provides.",
		Example: `  kp login
  kp upload -f invoice.pdf --belegkreis KA
  kp upload -f 'belege/*.xml' --belegkreis SP
  kp released
  kp download -o ./kanzlei
  kp logout`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.wire(deps, *flags, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			app.close()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&flags.visible, "visible", false, "Show the browser window")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Write debug logs to stderr")

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newUploadCmd(app),
		newReleasedCmd(app),
		newDownloadCmd(app),
		newLogoutCmd(app),
		newConfigCmd(app),
	)

	return rootCmd
}
