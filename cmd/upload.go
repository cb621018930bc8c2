package cmd

import (
	"errors"

	fsadapter "github.com/bnema/klientenportal-cli/internal/adapters/fs"
	"github.com/bnema/klientenportal-cli/internal/application"
	"github.com/bnema/klientenportal-cli/internal/domain"
	"github.com/spf13/cobra"
)

var errNoFileFlag = errors.New("at least one --file is required")

func newUploadCmd(app *app) *cobra.Command {
	var (
		patterns       []string
		belegkreis     string
		skipValidation bool
	)

	cmd := &cobra.Command{
		Use:   "upload -f FILE [-f FILE...] [FILE...]",
		Short: "Upload documents into a Belegkreis",
		Long: "Upload documents in order. Each --file may be a path or a glob such as 'belege/*.pdf'; extra " +
			"arguments are treated as further files, so an unquoted shell glob after -f works too.",
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns = append(patterns, args...)
			if len(patterns) == 0 {
				return errNoFileFlag
			}

			category, err := domain.ParseCategory(belegkreis)
			if err != nil {
				return err
			}

			files, err := fsadapter.ResolveUploadFiles(patterns, app.cwd)
			if err != nil {
				return err
			}

			settings, err := app.settings.Resolve(cmd.Context())
			if err != nil {
				return err
			}

			_, err = app.portal.Upload(cmd.Context(), settings, application.UploadCommand{
				Files:          files,
				Category:       category,
				SkipValidation: skipValidation,
			}, app.sessionOptions())
			return err
		},
	}

	cmd.Flags().StringArrayVarP(&patterns, "file", "f", nil, "File or glob to upload (repeatable)")
	cmd.Flags().StringVar(&belegkreis, "belegkreis", string(domain.DefaultCategory), "Document category: ER, AR, KA or SP")
	cmd.Flags().BoolVar(&skipValidation, "skip-validation", false, "Upload PDFs without checking that they parse")

	return cmd
}
