package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	releasedrender "github.com/bnema/klientenportal-cli/internal/adapters/render/released"
	"github.com/bnema/klientenportal-cli/internal/application"
	"github.com/bnema/klientenportal-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newDownloadCmd(app *app) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the documents the accountant provides",
		Long:  "Download every document offered on the portal. The output directory must be inside the workspace or /tmp.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := app.settings.Resolve(cmd.Context())
			if err != nil {
				return err
			}

			var documents []domain.DownloadedDocument
			download := func(ctx context.Context) error {
				var downloadErr error
				documents, downloadErr = app.portal.Download(ctx, settings, application.DownloadCommand{OutputDir: outputDir}, app.sessionOptions())
				return downloadErr
			}
			if err := app.runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Downloading documents...", download); err != nil {
				return err
			}

			var dir string
			if len(documents) > 0 {
				dir = filepath.Dir(documents[0].SavedPath)
			}

			rendered, err := releasedrender.Downloads(documents, dir)
			if err != nil {
				return fmt.Errorf("render download summary: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default: $OPENCLAW_TMP/openclaw/klientenportal)")

	return cmd
}
