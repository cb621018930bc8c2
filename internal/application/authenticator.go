package application

import (
	"context"
	"fmt"

	"github.com/bnema/klientenportal-cli/internal/domain"
	"github.com/bnema/klientenportal-cli/internal/ports"
	"go.uber.org/zap"
)

// Authenticator signs in with credentials. A rejected login is reported as false; only transport and
// browser faults come back as errors, and nothing is retried here.
type Authenticator struct {
	oracle   SessionOracle
	resolver *ObstructionResolver
	settle   settler
	reporter ports.Reporter
	logger   *zap.Logger
}

func NewAuthenticator(resolver *ObstructionResolver, clock ports.Clock, policy domain.SettlePolicy, reporter ports.Reporter, logger *zap.Logger) *Authenticator {
	if reporter == nil {
		reporter = ports.NopReporter{}
	}

	return &Authenticator{
		resolver: resolver,
		settle:   settler{clock: clock, policy: policy},
		reporter: reporter,
		logger:   nopIfNil(logger),
	}
}

func (a *Authenticator) Login(ctx context.Context, page ports.Page, creds domain.Credentials) (bool, error) {
	if err := creds.Validate(); err != nil {
		return false, err
	}
	log := a.logger.With(zap.String("user_id", creds.UserID), zap.String("portal_url", creds.BaseURL))

	authenticated, err := a.oracle.IsAuthenticated(page)
	if err != nil {
		return false, err
	}
	if authenticated {
		a.reporter.Status(scopeLogin, "Session still valid")
		a.resolver.Resolve(ctx, page)
		return true, nil
	}

	loginURL := domain.NewWorkflowTarget(creds.BaseURL, domain.TargetLogin).URL()
	log.Debug("opening login page", zap.String("url", loginURL))
	if err := a.settle.navigate(ctx, page, loginURL); err != nil {
		return false, err
	}

	// A valid session redirects straight through the login page.
	authenticated, err = a.oracle.IsAuthenticated(page)
	if err != nil {
		return false, err
	}
	if authenticated {
		a.reporter.Status(scopeLogin, "Already logged in")
		a.resolver.Resolve(ctx, page)
		return true, nil
	}

	a.reporter.Status(scopeLogin, "Logging in...")
	if err := a.submitCredentials(page, creds); err != nil {
		return false, err
	}

	if err := page.WaitForNetworkIdle(); err != nil {
		return false, fmt.Errorf("wait for login response: %w", err)
	}
	if err := a.settle.pause(ctx, a.settle.policy.AfterLogin); err != nil {
		return false, err
	}
	a.resolver.Resolve(ctx, page)

	authenticated, err = a.oracle.IsAuthenticated(page)
	if err != nil {
		return false, err
	}
	if !authenticated {
		log.Debug("sign-out control missing after login", zap.String("url", page.URL()))
		a.reporter.Status(scopeLogin, "Failed")
		return false, nil
	}

	a.reporter.Status(scopeLogin, "Success")
	return true, nil
}

func (a *Authenticator) submitCredentials(page ports.Page, creds domain.Credentials) error {
	if err := page.Locator(userInputSelector).First().Fill(creds.UserID); err != nil {
		return fmt.Errorf("fill user id: %w", err)
	}
	if err := page.Locator(passwordInputSelector).First().Fill(creds.Password); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	if err := page.Locator(loginButtonSelector).Click(ports.ClickOptions{}); err != nil {
		return fmt.Errorf("click login button: %w", err)
	}
	return nil
}
