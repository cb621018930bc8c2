package application

import (
	"context"
	"fmt"

	"github.com/bnema/klientenportal-cli/internal/domain"
	"github.com/bnema/klientenportal-cli/internal/ports"
	"go.uber.org/zap"
)

// Navigator brings the page to a workflow target. The portal redirects stale sessions to its login
// page and may drop form state on the way, so after signing in the original navigation is repeated
// instead of continuing from the redirect.
type Navigator struct {
	auth     *Authenticator
	resolver *ObstructionResolver
	settle   settler
	reporter ports.Reporter
	logger   *zap.Logger
}

func NewNavigator(auth *Authenticator, resolver *ObstructionResolver, clock ports.Clock, policy domain.SettlePolicy, reporter ports.Reporter, logger *zap.Logger) *Navigator {
	if reporter == nil {
		reporter = ports.NopReporter{}
	}

	return &Navigator{
		auth:     auth,
		resolver: resolver,
		settle:   settler{clock: clock, policy: policy},
		reporter: reporter,
		logger:   nopIfNil(logger),
	}
}

// EnsureOn returns false when authentication failed; the page must not be used in that case.
func (n *Navigator) EnsureOn(ctx context.Context, page ports.Page, target domain.WorkflowTarget, creds domain.Credentials) (bool, error) {
	scope := scopeFor(target)
	log := n.logger.With(zap.String("target", string(target.Name)), zap.String("url", target.URL()))

	if err := n.settle.navigate(ctx, page, target.URL()); err != nil {
		return false, err
	}

	if domain.IsLoginURL(page.URL()) {
		n.reporter.Status(scope, "Session expired, logging in...")

		ok, err := n.auth.Login(ctx, page, creds)
		if err != nil {
			return false, fmt.Errorf("log in: %w", err)
		}
		if !ok {
			return false, nil
		}

		if err := n.settle.navigate(ctx, page, target.URL()); err != nil {
			return false, err
		}
		if domain.IsLoginURL(page.URL()) {
			log.Warn("portal redirected to login again after signing in", zap.String("resolved", page.URL()))
			n.reporter.Status(scope, "ERROR: still redirected to the login page")
			return false, nil
		}
	}

	report := n.resolver.Resolve(ctx, page)
	log.Debug("target ready",
		zap.String("resolved", page.URL()),
		zap.String("obstruction", string(report.State)),
	)

	return true, nil
}
