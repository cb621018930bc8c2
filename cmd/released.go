package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	releasedrender "github.com/bnema/klientenportal-cli/internal/adapters/render/released"
	"github.com/bnema/klientenportal-cli/internal/domain"
	"github.com/spf13/cobra"
)

type releasedRowJSON struct {
	Cells []string `json:"cells"`
}

func newReleasedCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "released",
		Short: "List documents released by the accountant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := app.settings.Resolve(cmd.Context())
			if err != nil {
				return err
			}

			var rows []domain.ReleasedRow
			fetch := func(ctx context.Context) error {
				var fetchErr error
				rows, fetchErr = app.portal.Released(ctx, settings, app.sessionOptions())
				return fetchErr
			}

			if asJSON {
				app.reporter.redirect(cmd.ErrOrStderr())
				if err := fetch(cmd.Context()); err != nil {
					return err
				}
				return writeReleasedJSON(cmd, rows)
			}

			if err := app.runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Reading released documents...", fetch); err != nil {
				return err
			}

			rendered, err := releasedrender.Rows(rows)
			if err != nil {
				return fmt.Errorf("render released documents: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func writeReleasedJSON(cmd *cobra.Command, rows []domain.ReleasedRow) error {
	out := make([]releasedRowJSON, 0, len(rows))
	for _, row := range rows {
		out = append(out, releasedRowJSON{Cells: row.Cells})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
