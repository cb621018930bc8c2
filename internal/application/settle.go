package application

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/klientenportal-cli/internal/domain"
	"github.com/bnema/klientenportal-cli/internal/ports"
)

type settler struct {
	clock  ports.Clock
	policy domain.SettlePolicy
}

// navigate loads url, waits for network idle and then for the fixed navigation buffer.
func (s settler) navigate(ctx context.Context, page ports.Page, url string) error {
	if err := page.Goto(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}

	return s.pause(ctx, s.policy.AfterNavigation)
}

func (s settler) pause(ctx context.Context, d time.Duration) error {
	return s.clock.Sleep(ctx, d)
}

func millis(d time.Duration) float64 {
	return float64(d.Milliseconds())
}
