package application

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bnema/klientenportal-cli/internal/domain"
	"github.com/bnema/klientenportal-cli/internal/ports"
	"go.uber.org/zap"
)

const (
	viewportWidth  = 1280
	viewportHeight = 900
)

// PortalService runs one workflow per call on its own persistent browser context.
type PortalService struct {
	launcher   ports.BrowserLauncher
	fs         ports.FileSystem
	validator  ports.DocumentValidator
	automation *Automation
	paths      domain.Paths
	reporter   ports.Reporter
	logger     *zap.Logger
}

func NewPortalService(launcher ports.BrowserLauncher, fs ports.FileSystem, validator ports.DocumentValidator, automation *Automation, paths domain.Paths, reporter ports.Reporter, logger *zap.Logger) *PortalService {
	if reporter == nil {
		reporter = ports.NopReporter{}
	}

	return &PortalService{
		launcher:   launcher,
		fs:         fs,
		validator:  validator,
		automation: automation,
		paths:      paths,
		reporter:   reporter,
		logger:     nopIfNil(logger),
	}
}

func (s *PortalService) Login(ctx context.Context, settings domain.Settings, opts SessionOptions) error {
	creds, err := credentialsFor(settings)
	if err != nil {
		return err
	}

	return s.withPage(ctx, opts, func(page ports.Page) error {
		ok, err := s.automation.Authenticator.Login(ctx, page, creds)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrAuthenticationFailed
		}
		return nil
	})
}

func (s *PortalService) Upload(ctx context.Context, settings domain.Settings, cmd UploadCommand, opts SessionOptions) (domain.UploadReport, error) {
	category := cmd.Category
	if category == "" {
		category = domain.DefaultCategory
	}
	report := domain.UploadReport{Category: category, Total: len(cmd.Files)}
	if len(cmd.Files) == 0 {
		return report, nil
	}

	creds, err := credentialsFor(settings)
	if err != nil {
		return report, err
	}
	if !cmd.SkipValidation {
		if err := s.validate(cmd.Files); err != nil {
			return report, err
		}
	}

	s.reporter.Status(scopeUpload, "Uploading %d file(s) to Belegkreis %s", len(cmd.Files), category)
	err = s.withPage(ctx, opts, func(page ports.Page) error {
		var runErr error
		report, runErr = s.automation.Upload.Run(ctx, page, cmd.Files, category, creds)
		return runErr
	})
	if err != nil {
		return report, err
	}

	s.reporter.Status(scopeUpload, "Uploaded %d/%d files", report.Succeeded, report.Total)
	if !report.Complete() {
		return report, fmt.Errorf("%w: %d of %d succeeded", domain.ErrPartialUpload, report.Succeeded, report.Total)
	}

	return report, nil
}

func (s *PortalService) Released(ctx context.Context, settings domain.Settings, opts SessionOptions) ([]domain.ReleasedRow, error) {
	creds, err := credentialsFor(settings)
	if err != nil {
		return nil, err
	}

	var rows []domain.ReleasedRow
	err = s.withPage(ctx, opts, func(page ports.Page) error {
		var runErr error
		rows, runErr = s.automation.Released.Run(ctx, page, creds)
		return runErr
	})

	return rows, err
}

func (s *PortalService) Download(ctx context.Context, settings domain.Settings, cmd DownloadCommand, opts SessionOptions) ([]domain.DownloadedDocument, error) {
	creds, err := credentialsFor(settings)
	if err != nil {
		return nil, err
	}

	outputDir, err := s.fs.ResolveOutputDir(cmd.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := s.fs.EnsureDir(outputDir); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	var documents []domain.DownloadedDocument
	err = s.withPage(ctx, opts, func(page ports.Page) error {
		var runErr error
		documents, runErr = s.automation.Download.Run(ctx, page, outputDir, creds)
		return runErr
	})

	return documents, err
}

// Logout deletes the browser profile. The portal is never contacted.
func (s *PortalService) Logout() (bool, error) {
	profileDir := s.paths.ProfileDir()
	s.reporter.Status(scopeLogout, "Clearing profile: %s", profileDir)

	existed, err := s.fs.RemoveAll(profileDir)
	if err != nil {
		return false, fmt.Errorf("remove browser profile: %w", err)
	}

	if existed {
		s.reporter.Status(scopeLogout, "✓ Session cleared")
	} else {
		s.reporter.Status(scopeLogout, "No profile to clear")
	}
	return existed, nil
}

func (s *PortalService) validate(files []string) error {
	if s.validator == nil {
		return nil
	}

	var errs []error
	for _, path := range files {
		if !strings.EqualFold(filepath.Ext(path), ".pdf") {
			continue
		}
		if err := s.validator.Validate(path); err != nil {
			s.reporter.Status(scopeUpload, "ERROR: %s is not a valid PDF", filepath.Base(path))
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// withPage holds the profile directory for the duration of fn. Only one live session per profile
// directory is possible, so a concurrent invocation fails at launch.
func (s *PortalService) withPage(ctx context.Context, opts SessionOptions, fn func(page ports.Page) error) (err error) {
	profileDir := s.paths.ProfileDir()
	if err := s.fs.EnsureDir(profileDir); err != nil {
		return fmt.Errorf("create browser profile directory: %w", err)
	}

	s.logger.Debug("launching browser context",
		zap.String("profile_dir", profileDir),
		zap.Bool("visible", opts.Visible),
	)
	session, err := s.launcher.Launch(ctx, ports.LaunchOptions{
		ProfileDir: profileDir,
		Headless:   !opts.Visible,
		Viewport:   ports.Viewport{Width: viewportWidth, Height: viewportHeight},
	})
	if err != nil {
		return fmt.Errorf("launch browser context on %s (is another session using this profile?): %w", profileDir, err)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close browser context: %w", closeErr))
		}
	}()

	page, err := session.NewPage()
	if err != nil {
		return fmt.Errorf("open page: %w", err)
	}

	return fn(page)
}

func credentialsFor(settings domain.Settings) (domain.Credentials, error) {
	if err := settings.Validate(); err != nil {
		return domain.Credentials{}, err
	}
	return settings.Credentials(), nil
}
