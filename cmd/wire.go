package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bnema/klientenportal-cli/internal/adapters/browser/playwright"
	fsadapter "github.com/bnema/klientenportal-cli/internal/adapters/fs"
	pdfadapter "github.com/bnema/klientenportal-cli/internal/adapters/pdf"
	tomlrepo "github.com/bnema/klientenportal-cli/internal/adapters/repo/toml"
	chainstore "github.com/bnema/klientenportal-cli/internal/adapters/secrets/chain"
	"github.com/bnema/klientenportal-cli/internal/application"
	"github.com/bnema/klientenportal-cli/internal/domain"
	"github.com/bnema/klientenportal-cli/internal/logging"
	"github.com/bnema/klientenportal-cli/internal/ports"
	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
)

// envConfig is everything kp reads from the environment.
type envConfig struct {
	PortalID  string `env:"KLIENTENPORTAL_PORTAL_ID"`
	UserID    string `env:"KLIENTENPORTAL_USER_ID"`
	Password  string `env:"KLIENTENPORTAL_PASSWORD"`
	LogLevel  string `env:"KLIENTENPORTAL_LOG_LEVEL"`
	Workspace string `env:"OPENCLAW_WORKSPACE"`
	TmpRoot   string `env:"OPENCLAW_TMP" envDefault:"/tmp"`
}

// dependencies lets tests replace the parts that touch a real browser or the wall clock.
type dependencies struct {
	launcher ports.BrowserLauncher
	clock    ports.Clock
	store    ports.SecretStore
	cwd      string
}

type app struct {
	paths    domain.Paths
	fs       *fsadapter.FileSystem
	settings *application.SettingsService
	portal   *application.PortalService
	reporter *writerReporter
	clock    ports.Clock
	logger   *zap.Logger
	visible  bool
	verbose  bool
	cwd      string
}

func (a *app) wire(deps dependencies, flags globalFlags, stdout, stderr io.Writer) error {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Verbose: flags.verbose, Output: stderr})
	if err != nil {
		return err
	}

	cwd := deps.cwd
	if cwd == "" {
		if cwd, err = os.Getwd(); err != nil {
			return fmt.Errorf("resolve working directory: %w", err)
		}
	}
	executable, _ := os.Executable()

	tmpRoot, err := filepath.Abs(cfg.TmpRoot)
	if err != nil {
		return fmt.Errorf("resolve OPENCLAW_TMP: %w", err)
	}
	paths := domain.Paths{
		WorkspaceRoot: fsadapter.ResolveWorkspaceRoot(cfg.Workspace, cwd, executable),
		TmpRoot:       tmpRoot,
	}
	logger.Debug("resolved paths",
		zap.String("workspace", paths.WorkspaceRoot),
		zap.String("config_dir", paths.ConfigDir()),
	)

	repo, err := tomlrepo.NewRepository(paths.ConfigDir())
	if err != nil {
		return fmt.Errorf("wire settings repository: %w", err)
	}

	store := deps.store
	if store == nil {
		if store, err = chainstore.NewPassWithFileFallback(paths.SecretsDir(), logger.Named("secrets")); err != nil {
			return fmt.Errorf("wire secret store chain: %w", err)
		}
	}

	launcher := deps.launcher
	if launcher == nil {
		launcher = playwright.NewLauncher(logger.Named("browser"))
	}
	clock := deps.clock
	if clock == nil {
		clock = ports.SystemClock{}
	}

	fs := fsadapter.New(paths)
	reporter := &writerReporter{out: stdout}
	automation := application.NewAutomation(fs, clock, domain.DefaultSettlePolicy(), reporter, logger)

	*a = app{
		paths: paths,
		fs:    fs,
		settings: application.NewSettingsService(repo, store, application.EnvOverrides{
			PortalID: cfg.PortalID,
			UserID:   cfg.UserID,
			Password: cfg.Password,
		}),
		portal:   application.NewPortalService(launcher, fs, pdfadapter.NewValidator(), automation, paths, reporter, logger.Named("portal")),
		reporter: reporter,
		clock:    clock,
		logger:   logger,
		visible:  flags.visible,
		verbose:  flags.verbose,
		cwd:      cwd,
	}
	return nil
}

func (a *app) sessionOptions() application.SessionOptions {
	return application.SessionOptions{Visible: a.visible}
}

func (a *app) close() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// writerReporter prints "[scope] message" lines as they happen.
type writerReporter struct {
	out io.Writer
}

func (r *writerReporter) Status(scope string, format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, "[%s] %s\n", scope, fmt.Sprintf(format, args...))
}

// redirect sends status lines elsewhere, for commands whose stdout is machine readable.
func (r *writerReporter) redirect(w io.Writer) {
	r.out = w
}
