package application

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/klientenportal-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver() (*ObstructionResolver, *fakeClock) {
	clock := &fakeClock{}
	return NewObstructionResolver(clock, domain.DefaultSettlePolicy(), nil), clock
}

func TestResolveClearPageStopsAfterFirstCheck(t *testing.T) {
	t.Parallel()

	resolver, _ := newTestResolver()
	page := newFakePage()

	report := resolver.Resolve(context.Background(), page)

	assert.Equal(t, domain.ObstructionClear, report.State)
	assert.Equal(t, 1, report.Attempts)
	assert.Equal(t, []string{escapeKey}, page.keys)
	assert.Equal(t, 1, page.clicked(clientLabelSelector))
}

func TestResolveConfirmsReappearingDialog(t *testing.T) {
	t.Parallel()

	resolver, clock := newTestResolver()
	page := newFakePage()
	page.counts[confirmDialogSelector] = 2
	page.onClick = func(p *fakePage, path string) {
		if path == confirmDialogSelector+"@0" {
			p.counts[confirmDialogSelector]--
		}
	}

	report := resolver.Resolve(context.Background(), page)

	assert.True(t, report.Clear())
	assert.Equal(t, 3, report.Attempts)
	assert.Equal(t, 2, page.clicked(confirmDialogSelector+"@0"))
	assert.Equal(t, 2, clock.slept(domain.DefaultSettlePolicy().AfterConfirm))
	assert.Equal(t, []string{escapeKey}, page.keys)
}

func TestResolveTerminatesWithinBound(t *testing.T) {
	t.Parallel()

	policy := domain.DefaultSettlePolicy()
	for escapesNeeded := 0; escapesNeeded <= policy.MaxDismissAttempt+2; escapesNeeded++ {
		resolver, _ := newTestResolver()
		page := newFakePage()
		page.counts[modalRootSelector] = 1
		remaining := escapesNeeded
		page.onKey = func(p *fakePage, key string) {
			if remaining > 0 {
				remaining--
			}
			if remaining == 0 {
				p.counts[modalRootSelector] = 0
			}
		}

		report := resolver.Resolve(context.Background(), page)

		assert.LessOrEqual(t, report.Attempts, policy.MaxDismissAttempt, "escapes needed %d", escapesNeeded)
		if escapesNeeded <= policy.MaxDismissAttempt {
			assert.Equal(t, domain.ObstructionClear, report.State, "escapes needed %d", escapesNeeded)
			assert.Equal(t, max(escapesNeeded, 1), report.Attempts)
			assert.Zero(t, page.counts[modalRootSelector])
		} else {
			assert.Equal(t, domain.ObstructionModalOverlay, report.State, "escapes needed %d", escapesNeeded)
			assert.Len(t, page.keys, policy.MaxDismissAttempt)
		}
	}
}

func TestResolvePermanentDialogIsBounded(t *testing.T) {
	t.Parallel()

	resolver, _ := newTestResolver()
	page := newFakePage()
	page.counts[confirmDialogSelector] = 1
	page.counts[modalRootSelector] = 1

	report := resolver.Resolve(context.Background(), page)

	assert.Equal(t, domain.ObstructionDialog, report.State)
	assert.Equal(t, 5, report.Attempts)
	assert.Equal(t, 5, page.clicked(confirmDialogSelector+"@0"))
	assert.Empty(t, page.keys)
}

func TestResolveSwallowsInteractionFaults(t *testing.T) {
	t.Parallel()

	resolver, _ := newTestResolver()
	page := newFakePage()
	page.countErrs[confirmDialogSelector] = errors.New("target closed")
	page.keyErr = errors.New("keyboard unavailable")
	page.countErrs[modalRootSelector] = errors.New("execution context destroyed")
	page.clickErrs[clientLabelSelector] = errElementMissing

	var report domain.ObstructionReport
	require.NotPanics(t, func() {
		report = resolver.Resolve(context.Background(), page)
	})

	assert.Equal(t, 1, report.Attempts)
	assert.Equal(t, 3, report.Faults)
}

func TestResolveFailedConfirmFallsBackToEscape(t *testing.T) {
	t.Parallel()

	resolver, _ := newTestResolver()
	page := newFakePage()
	page.counts[confirmDialogSelector] = 1
	page.clickErrs[confirmDialogSelector+"@0"] = errElementMissing

	report := resolver.Resolve(context.Background(), page)

	assert.True(t, report.Clear())
	assert.Equal(t, 1, report.Faults)
	assert.Equal(t, []string{escapeKey}, page.keys)
}

func TestResolveStopsWhenContextIsCancelled(t *testing.T) {
	t.Parallel()

	resolver, _ := newTestResolver()
	page := newFakePage()
	page.counts[modalRootSelector] = 1
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := resolver.Resolve(ctx, page)

	assert.Equal(t, 1, report.Attempts)
	assert.Len(t, page.keys, 1)
}
