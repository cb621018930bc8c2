package application

import (
	"github.com/bnema/klientenportal-cli/internal/domain"
	"github.com/bnema/klientenportal-cli/internal/ports"
	"go.uber.org/zap"
)

// Automation wires the session and workflow components around one shared Navigator.
type Automation struct {
	Resolver      *ObstructionResolver
	Oracle        SessionOracle
	Authenticator *Authenticator
	Navigator     *Navigator
	Upload        *UploadDriver
	Released      *ReleasedDriver
	Download      *DownloadDriver
}

func NewAutomation(fs ports.FileSystem, clock ports.Clock, policy domain.SettlePolicy, reporter ports.Reporter, logger *zap.Logger) *Automation {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	logger = nopIfNil(logger)

	resolver := NewObstructionResolver(clock, policy, logger.Named("obstruction"))
	auth := NewAuthenticator(resolver, clock, policy, reporter, logger.Named("auth"))
	navigator := NewNavigator(auth, resolver, clock, policy, reporter, logger.Named("navigator"))

	return &Automation{
		Resolver:      resolver,
		Authenticator: auth,
		Navigator:     navigator,
		Upload:        NewUploadDriver(navigator, clock, policy, reporter, logger.Named("upload")),
		Released:      NewReleasedDriver(navigator),
		Download:      NewDownloadDriver(navigator, fs, reporter, logger.Named("download")),
	}
}
