package ports

import "context"

type LaunchOptions struct {
	ProfileDir string
	Headless   bool
	Viewport   Viewport
	// Timeout is the default per-interaction timeout in milliseconds, 0 keeps the driver default.
	Timeout float64
}

type Viewport struct {
	Width  int
	Height int
}

// BrowserLauncher opens a persistent context bound to a profile directory. A profile directory can
// only be opened once at a time; a second launch fails.
type BrowserLauncher interface {
	Launch(ctx context.Context, opts LaunchOptions) (BrowserSession, error)
}

type BrowserSession interface {
	NewPage() (Page, error)
	Close() error
}

type Page interface {
	// Goto navigates and waits until the network is idle.
	Goto(url string) error
	// WaitForNetworkIdle waits for the current page to quiesce after an action.
	WaitForNetworkIdle() error
	URL() string
	Locator(selector string) Locator
	PressKey(key string) error
	// ExpectDownload runs trigger and returns the download it caused.
	ExpectDownload(trigger func() error) (Download, error)
}

type ClickOptions struct {
	Force bool
	// Timeout in milliseconds, 0 means the page default.
	Timeout float64
}

type Locator interface {
	Count() (int, error)
	First() Locator
	Nth(index int) Locator
	Locator(selector string) Locator
	Click(opts ClickOptions) error
	Fill(value string) error
	InnerText() (string, error)
	SetInputFiles(path string) error
}

type Download interface {
	SuggestedFilename() string
	SaveAs(path string) error
}
