package application

import (
	"context"
	"fmt"

	"github.com/bnema/klientenportal-cli/internal/domain"
	"github.com/bnema/klientenportal-cli/internal/ports"
	"go.uber.org/zap"
)

type UploadDriver struct {
	navigator *Navigator
	settle    settler
	reporter  ports.Reporter
	logger    *zap.Logger
}

func NewUploadDriver(navigator *Navigator, clock ports.Clock, policy domain.SettlePolicy, reporter ports.Reporter, logger *zap.Logger) *UploadDriver {
	if reporter == nil {
		reporter = ports.NopReporter{}
	}

	return &UploadDriver{
		navigator: navigator,
		settle:    settler{clock: clock, policy: policy},
		reporter:  reporter,
		logger:    nopIfNil(logger),
	}
}

// Run submits files in order through the page's file input. The report is always populated, even
// when an error is returned.
func (d *UploadDriver) Run(ctx context.Context, page ports.Page, files []string, category domain.Category, creds domain.Credentials) (domain.UploadReport, error) {
	report := domain.UploadReport{
		Category: category,
		Items:    make([]domain.UploadItem, len(files)),
		Total:    len(files),
	}
	for i, path := range files {
		report.Items[i] = domain.UploadItem{Path: path}
	}
	if len(files) == 0 {
		return report, nil
	}

	target := domain.NewWorkflowTarget(creds.BaseURL, domain.TargetUpload)
	ok, err := d.navigator.EnsureOn(ctx, page, target, creds)
	if err != nil {
		return report, err
	}
	if !ok {
		return report, domain.ErrAuthenticationFailed
	}

	d.selectCategory(ctx, page, category)

	count, err := page.Locator(fileInputSelector).Count()
	if err != nil {
		return report, fmt.Errorf("query file input: %w", err)
	}
	if count == 0 {
		d.reporter.Status(scopeUpload, "ERROR: No file input found")
		return report, fmt.Errorf("%w: no file input on %s", domain.ErrPageShapeMismatch, target.Path)
	}

	for i := range report.Items {
		item := &report.Items[i]
		if err := d.submit(ctx, page, item); err != nil {
			return report, err
		}
		if item.Succeeded {
			report.Succeeded++
		}
		if err := d.settle.pause(ctx, d.settle.policy.BetweenFiles); err != nil {
			return report, err
		}
	}

	return report, nil
}

// submit only returns an error when the run has to stop; a rejected file is recorded on the item.
func (d *UploadDriver) submit(ctx context.Context, page ports.Page, item *domain.UploadItem) error {
	d.reporter.Status(scopeUpload, "Uploading: %s", item.Name())
	item.Attempted = true

	if err := page.Locator(fileInputSelector).First().SetInputFiles(item.Path); err != nil {
		item.Err = err
		d.logger.Debug("file submission failed", zap.String("path", item.Path), zap.Error(err))
		d.reporter.Status(scopeUpload, "ERROR: %v", err)
		return nil
	}

	// The portal's client-side handler needs time to pick the file up.
	if err := d.settle.pause(ctx, d.settle.policy.FileRegistration); err != nil {
		return err
	}

	item.Succeeded = true
	d.reporter.Status(scopeUpload, "✓ %s", item.Name())
	return nil
}

// selectCategory is best-effort: a failed selection warns and the upload goes on.
func (d *UploadDriver) selectCategory(ctx context.Context, page ports.Page, category domain.Category) {
	if category.IsDefault() {
		return
	}

	d.reporter.Status(scopeUpload, "Selecting Belegkreis: %s", category)
	if err := d.fillCategory(ctx, page, category); err != nil {
		d.logger.Warn("belegkreis selection failed", zap.String("category", string(category)), zap.Error(err))
		d.reporter.Status(scopeUpload, "Warning: Could not set Belegkreis: %v", err)
	}
}

func (d *UploadDriver) fillCategory(ctx context.Context, page ports.Page, category domain.Category) error {
	policy := d.settle.policy
	combo := page.Locator(categoryLabelSelector).Locator(parentSelector).Locator(comboboxSelector)

	if err := combo.Click(ports.ClickOptions{Force: true, Timeout: millis(policy.ComboboxTimeout)}); err != nil {
		return fmt.Errorf("open combobox: %w", err)
	}
	if err := d.settle.pause(ctx, policy.AfterFieldAction); err != nil {
		return err
	}
	if err := combo.Fill(string(category)); err != nil {
		return fmt.Errorf("fill combobox: %w", err)
	}
	if err := d.settle.pause(ctx, policy.AfterFieldAction); err != nil {
		return err
	}
	if err := page.PressKey(enterKey); err != nil {
		return fmt.Errorf("confirm combobox: %w", err)
	}
	return d.settle.pause(ctx, policy.AfterFieldAction)
}
