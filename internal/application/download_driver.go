package application

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/bnema/klientenportal-cli/internal/domain"
	"github.com/bnema/klientenportal-cli/internal/ports"
	"go.uber.org/zap"
)

// DownloadDriver saves every firm-provided document linked from the no-upload page.
type DownloadDriver struct {
	navigator *Navigator
	fs        ports.FileSystem
	reporter  ports.Reporter
	logger    *zap.Logger
}

func NewDownloadDriver(navigator *Navigator, fs ports.FileSystem, reporter ports.Reporter, logger *zap.Logger) *DownloadDriver {
	if reporter == nil {
		reporter = ports.NopReporter{}
	}

	return &DownloadDriver{
		navigator: navigator,
		fs:        fs,
		reporter:  reporter,
		logger:    nopIfNil(logger),
	}
}

// Run returns one entry per download anchor, in document order.
func (d *DownloadDriver) Run(ctx context.Context, page ports.Page, outputDir string, creds domain.Credentials) ([]domain.DownloadedDocument, error) {
	target := domain.NewWorkflowTarget(creds.BaseURL, domain.TargetDownload)
	ok, err := d.navigator.EnsureOn(ctx, page, target, creds)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrAuthenticationFailed
	}

	links := page.Locator(downloadAnchorSelector)
	count, err := links.Count()
	if err != nil {
		return nil, fmt.Errorf("count download links: %w", err)
	}

	documents := make([]domain.DownloadedDocument, 0, count)
	if count == 0 {
		return documents, nil
	}

	d.reporter.Status(scopeDownload, "Found %d document(s)", count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return documents, err
		}

		document, err := d.save(page, links.Nth(i), i, outputDir)
		if err != nil {
			return documents, fmt.Errorf("download document %d: %w", i, err)
		}
		documents = append(documents, document)
		d.reporter.Status(scopeDownload, "✓ %s", document.SavedPath)
	}

	return documents, nil
}

func (d *DownloadDriver) save(page ports.Page, link ports.Locator, index int, outputDir string) (domain.DownloadedDocument, error) {
	download, err := page.ExpectDownload(func() error {
		return link.Click(ports.ClickOptions{})
	})
	if err != nil {
		return domain.DownloadedDocument{}, err
	}

	fallback := fmt.Sprintf(fallbackDocumentPattern, index)
	suggested := download.SuggestedFilename()
	if suggested == "" {
		suggested = fallback
	}

	name := d.fs.SanitizeFilename(suggested)
	if name == "" {
		name = fallback
	}

	dest := filepath.Join(outputDir, name)
	d.logger.Debug("saving download", zap.String("suggested", suggested), zap.String("dest", dest))
	if err := download.SaveAs(dest); err != nil {
		return domain.DownloadedDocument{}, fmt.Errorf("save %s: %w", dest, err)
	}

	return domain.DownloadedDocument{SuggestedName: suggested, SavedPath: dest}, nil
}
