package playwright

import (
	"github.com/bnema/klientenportal-cli/internal/ports"
	pw "github.com/playwright-community/playwright-go"
)

type page struct {
	page pw.Page
}

func (p *page) Goto(url string) error {
	_, err := p.page.Goto(url, pw.PageGotoOptions{WaitUntil: pw.WaitUntilStateNetworkidle})
	return err
}

func (p *page) WaitForNetworkIdle() error {
	return p.page.WaitForLoadState(pw.PageWaitForLoadStateOptions{State: pw.LoadStateNetworkidle})
}

func (p *page) URL() string {
	return p.page.URL()
}

func (p *page) Locator(selector string) ports.Locator {
	return &locator{locator: p.page.Locator(selector)}
}

func (p *page) PressKey(key string) error {
	return p.page.Keyboard().Press(key)
}

func (p *page) ExpectDownload(trigger func() error) (ports.Download, error) {
	download, err := p.page.ExpectDownload(trigger)
	if err != nil {
		return nil, err
	}
	return download, nil
}

type locator struct {
	locator pw.Locator
}

func (l *locator) Count() (int, error) {
	return l.locator.Count()
}

func (l *locator) First() ports.Locator {
	return &locator{locator: l.locator.First()}
}

func (l *locator) Nth(index int) ports.Locator {
	return &locator{locator: l.locator.Nth(index)}
}

func (l *locator) Locator(selector string) ports.Locator {
	return &locator{locator: l.locator.Locator(selector)}
}

func (l *locator) Click(opts ports.ClickOptions) error {
	return l.locator.Click(clickOptions(opts))
}

func (l *locator) Fill(value string) error {
	return l.locator.Fill(value)
}

func (l *locator) InnerText() (string, error) {
	return l.locator.InnerText()
}

func (l *locator) SetInputFiles(path string) error {
	return l.locator.SetInputFiles(path)
}

func clickOptions(opts ports.ClickOptions) pw.LocatorClickOptions {
	clickOpts := pw.LocatorClickOptions{}
	if opts.Force {
		clickOpts.Force = pw.Bool(true)
	}
	if opts.Timeout > 0 {
		clickOpts.Timeout = pw.Float(opts.Timeout)
	}
	return clickOpts
}
