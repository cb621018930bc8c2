package playwright

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/bnema/klientenportal-cli/internal/ports"
	pw "github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

const browserName = "chromium"

// Launcher starts a playwright driver per launch and opens a persistent Chromium context on the
// requested profile directory.
type Launcher struct {
	logger *zap.Logger
	// install fetches the driver and browser before the first run. Disabled in environments that ship
	// them preinstalled.
	install bool
}

type Option func(*Launcher)

func WithoutInstall() Option {
	return func(l *Launcher) { l.install = false }
}

func NewLauncher(logger *zap.Logger, opts ...Option) *Launcher {
	if logger == nil {
		logger = zap.NewNop()
	}

	l := &Launcher{logger: logger, install: true}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var _ ports.BrowserLauncher = (*Launcher)(nil)

func (l *Launcher) Launch(ctx context.Context, opts ports.LaunchOptions) (ports.BrowserSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The driver writes progress to stdout; status lines own that stream.
	runOpts := &pw.RunOptions{
		Browsers: []string{browserName},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}
	if l.install {
		if err := pw.Install(runOpts); err != nil {
			return nil, fmt.Errorf("install playwright: %w", err)
		}
	}

	driver, err := pw.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	l.logger.Debug("opening persistent context",
		zap.String("profile_dir", opts.ProfileDir),
		zap.Bool("headless", opts.Headless),
	)
	browserContext, err := driver.Chromium.LaunchPersistentContext(opts.ProfileDir, persistentContextOptions(opts))
	if err != nil {
		return nil, errors.Join(err, stopDriver(driver))
	}
	if opts.Timeout > 0 {
		browserContext.SetDefaultTimeout(opts.Timeout)
	}

	return &session{driver: driver, context: browserContext}, nil
}

func persistentContextOptions(opts ports.LaunchOptions) pw.BrowserTypeLaunchPersistentContextOptions {
	contextOpts := pw.BrowserTypeLaunchPersistentContextOptions{
		Headless:        pw.Bool(opts.Headless),
		AcceptDownloads: pw.Bool(true),
	}
	if opts.Viewport.Width > 0 && opts.Viewport.Height > 0 {
		contextOpts.Viewport = &pw.Size{Width: opts.Viewport.Width, Height: opts.Viewport.Height}
	}
	return contextOpts
}

func stopDriver(driver *pw.Playwright) error {
	if err := driver.Stop(); err != nil {
		return fmt.Errorf("stop playwright: %w", err)
	}
	return nil
}

type session struct {
	driver  *pw.Playwright
	context pw.BrowserContext
}

// NewPage reuses the tab a persistent context opens with.
func (s *session) NewPage() (ports.Page, error) {
	if pages := s.context.Pages(); len(pages) > 0 {
		return &page{page: pages[0]}, nil
	}

	p, err := s.context.NewPage()
	if err != nil {
		return nil, err
	}
	return &page{page: p}, nil
}

func (s *session) Close() error {
	var errs []error
	if err := s.context.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close context: %w", err))
	}
	if err := stopDriver(s.driver); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
