package domain

import "time"

// SettlePolicy holds the fixed pauses layered on top of network-idle waits. The portal's client
// framework keeps patching the DOM after the network quiesces.
type SettlePolicy struct {
	AfterNavigation   time.Duration
	AfterLogin        time.Duration
	AfterConfirm      time.Duration
	AfterDismiss      time.Duration
	AfterFieldAction  time.Duration
	FileRegistration  time.Duration
	BetweenFiles      time.Duration
	ConfirmTimeout    time.Duration
	AffordanceTimeout time.Duration
	ComboboxTimeout   time.Duration
	MaxDismissAttempt int
}

func DefaultSettlePolicy() SettlePolicy {
	return SettlePolicy{
		AfterNavigation:   time.Second,
		AfterLogin:        time.Second,
		AfterConfirm:      500 * time.Millisecond,
		AfterDismiss:      300 * time.Millisecond,
		AfterFieldAction:  500 * time.Millisecond,
		FileRegistration:  3 * time.Second,
		BetweenFiles:      time.Second,
		ConfirmTimeout:    2 * time.Second,
		AffordanceTimeout: time.Second,
		ComboboxTimeout:   5 * time.Second,
		MaxDismissAttempt: 5,
	}
}
