package application

import (
	"context"

	"github.com/bnema/klientenportal-cli/internal/domain"
	"github.com/bnema/klientenportal-cli/internal/ports"
	"go.uber.org/zap"
)

// ObstructionResolver dismisses maintenance dialogs and modal overlays. It is best-effort: every
// failing interaction is logged, counted and treated as a no-op, and Resolve never fails.
type ObstructionResolver struct {
	settle settler
	logger *zap.Logger
}

func NewObstructionResolver(clock ports.Clock, policy domain.SettlePolicy, logger *zap.Logger) *ObstructionResolver {
	return &ObstructionResolver{
		settle: settler{clock: clock, policy: policy},
		logger: nopIfNil(logger),
	}
}

// Resolve loops a bounded number of times because overlays are asynchronous and can reappear after a
// dismissal. The report state is the last thing observed.
func (r *ObstructionResolver) Resolve(ctx context.Context, page ports.Page) domain.ObstructionReport {
	policy := r.settle.policy
	report := domain.ObstructionReport{State: domain.ObstructionClear}

	for attempt := 1; attempt <= policy.MaxDismissAttempt; attempt++ {
		report.Attempts = attempt

		confirmed, err := r.confirmDialog(page)
		if err != nil {
			report.Faults++
			r.logger.Debug("confirm dialog failed", zap.Int("attempt", attempt), zap.Error(err))
		}
		if confirmed {
			report.State = domain.ObstructionDialog
			if r.settle.pause(ctx, policy.AfterConfirm) != nil {
				return report
			}
			continue
		}

		if err := page.PressKey(escapeKey); err != nil {
			report.Faults++
			r.logger.Debug("escape key failed", zap.Int("attempt", attempt), zap.Error(err))
		} else if r.settle.pause(ctx, policy.AfterDismiss) != nil {
			return report
		}

		count, err := page.Locator(modalRootSelector).Count()
		if err != nil {
			// Presence cannot be established; stop rather than spin on a broken page.
			report.Faults++
			r.logger.Debug("modal root query failed", zap.Int("attempt", attempt), zap.Error(err))
			break
		}
		if count == 0 {
			report.State = domain.ObstructionClear
			break
		}
		report.State = domain.ObstructionModalOverlay
	}

	r.clickClientLabel(ctx, page)

	if !report.Clear() {
		r.logger.Warn("obstruction still present after dismissal attempts",
			zap.String("state", string(report.State)),
			zap.Int("attempts", report.Attempts),
		)
	}

	return report
}

func (r *ObstructionResolver) confirmDialog(page ports.Page) (bool, error) {
	buttons := page.Locator(confirmDialogSelector)
	count, err := buttons.Count()
	if err != nil || count == 0 {
		return false, err
	}

	err = buttons.First().Click(ports.ClickOptions{
		Force:   true,
		Timeout: millis(r.settle.policy.ConfirmTimeout),
	})
	if err != nil {
		return false, err
	}

	return true, nil
}

// clickClientLabel focuses the client header, which some page states need before they settle.
func (r *ObstructionResolver) clickClientLabel(ctx context.Context, page ports.Page) {
	err := page.Locator(clientLabelSelector).Click(ports.ClickOptions{
		Timeout: millis(r.settle.policy.AffordanceTimeout),
	})
	if err != nil {
		r.logger.Debug("client label not clickable", zap.Error(err))
		return
	}

	_ = r.settle.pause(ctx, r.settle.policy.AfterDismiss)
}

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
