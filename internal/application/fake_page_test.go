package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/klientenportal-cli/internal/domain"
	"github.com/bnema/klientenportal-cli/internal/ports"
)

const testBaseURL = "https://portal.test/prod/4711"

var errElementMissing = errors.New("timeout: element not found")

// fakePage is a scripted DOM keyed by locator path. A path is the chain of selectors joined with
// " >> ", with "@<n>" appended for Nth/First.
type fakePage struct {
	url      string
	redirect func(url string) string

	counts    map[string]int
	countErrs map[string]error
	texts     map[string]string
	clickErrs map[string]error
	fillErrs  map[string]error
	fileErrs  map[string]error
	gotoErr   error
	keyErr    error

	onClick func(p *fakePage, path string)
	onKey   func(p *fakePage, key string)

	downloads []*fakeDownload

	gotos   []string
	clicks  []string
	fills   []fill
	keys    []string
	files   []string
	waits   int
	trigger int
}

type fill struct {
	path  string
	value string
}

func newFakePage() *fakePage {
	return &fakePage{
		url:       "about:blank",
		counts:    map[string]int{},
		countErrs: map[string]error{},
		texts:     map[string]string{},
		clickErrs: map[string]error{},
		fillErrs:  map[string]error{},
		fileErrs:  map[string]error{},
	}
}

var _ ports.Page = (*fakePage)(nil)

func (p *fakePage) Goto(url string) error {
	p.gotos = append(p.gotos, url)
	if p.gotoErr != nil {
		return p.gotoErr
	}
	if p.redirect != nil {
		p.url = p.redirect(url)
		return nil
	}
	p.url = url
	return nil
}

func (p *fakePage) WaitForNetworkIdle() error {
	p.waits++
	return nil
}

func (p *fakePage) URL() string {
	return p.url
}

func (p *fakePage) Locator(selector string) ports.Locator {
	return &fakeLocator{page: p, path: selector}
}

func (p *fakePage) PressKey(key string) error {
	p.keys = append(p.keys, key)
	if p.keyErr != nil {
		return p.keyErr
	}
	if p.onKey != nil {
		p.onKey(p, key)
	}
	return nil
}

func (p *fakePage) ExpectDownload(trigger func() error) (ports.Download, error) {
	if err := trigger(); err != nil {
		return nil, err
	}
	if p.trigger >= len(p.downloads) {
		return nil, errors.New("no download was triggered")
	}
	download := p.downloads[p.trigger]
	p.trigger++
	return download, nil
}

func (p *fakePage) authenticated() {
	p.counts[signOutSelector] = 1
}

func (p *fakePage) signedOut() {
	delete(p.counts, signOutSelector)
}

func (p *fakePage) clicked(path string) int {
	n := 0
	for _, click := range p.clicks {
		if click == path {
			n++
		}
	}
	return n
}

func (p *fakePage) gotosTo(url string) int {
	n := 0
	for _, g := range p.gotos {
		if g == url {
			n++
		}
	}
	return n
}

type fakeLocator struct {
	page *fakePage
	path string
}

func (l *fakeLocator) Count() (int, error) {
	if err := l.page.countErrs[l.path]; err != nil {
		return 0, err
	}
	return l.page.counts[l.path], nil
}

func (l *fakeLocator) First() ports.Locator {
	return l.Nth(0)
}

func (l *fakeLocator) Nth(index int) ports.Locator {
	return &fakeLocator{page: l.page, path: fmt.Sprintf("%s@%d", l.path, index)}
}

func (l *fakeLocator) Locator(selector string) ports.Locator {
	return &fakeLocator{page: l.page, path: l.path + " >> " + selector}
}

func (l *fakeLocator) Click(ports.ClickOptions) error {
	l.page.clicks = append(l.page.clicks, l.path)
	if err := l.page.clickErrs[l.path]; err != nil {
		return err
	}
	if l.page.onClick != nil {
		l.page.onClick(l.page, l.path)
	}
	return nil
}

func (l *fakeLocator) Fill(value string) error {
	if err := l.page.fillErrs[l.path]; err != nil {
		return err
	}
	l.page.fills = append(l.page.fills, fill{path: l.path, value: value})
	return nil
}

func (l *fakeLocator) InnerText() (string, error) {
	text, ok := l.page.texts[l.path]
	if !ok {
		return "", errElementMissing
	}
	return text, nil
}

func (l *fakeLocator) SetInputFiles(path string) error {
	if err := l.page.fileErrs[path]; err != nil {
		return err
	}
	l.page.files = append(l.page.files, path)
	return nil
}

type fakeDownload struct {
	suggested string
	saveErr   error
	savedTo   []string
}

func (d *fakeDownload) SuggestedFilename() string {
	return d.suggested
}

func (d *fakeDownload) SaveAs(path string) error {
	if d.saveErr != nil {
		return d.saveErr
	}
	d.savedTo = append(d.savedTo, path)
	return nil
}

// fakeClock records pauses instead of sleeping.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	return ctx.Err()
}

func (c *fakeClock) slept(d time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, s := range c.sleeps {
		if s == d {
			n++
		}
	}
	return n
}

// recordingReporter keeps status lines as "[scope] message".
type recordingReporter struct {
	lines []string
}

func (r *recordingReporter) Status(scope string, format string, args ...any) {
	r.lines = append(r.lines, fmt.Sprintf("[%s] %s", scope, fmt.Sprintf(format, args...)))
}

func testCredentials() domain.Credentials {
	return domain.Credentials{BaseURL: testBaseURL, UserID: "client-7", Password: "s3cret-pw"}
}

func testAutomation(fs ports.FileSystem) (*Automation, *fakeClock, *recordingReporter) {
	clock := &fakeClock{}
	reporter := &recordingReporter{}
	return NewAutomation(fs, clock, domain.DefaultSettlePolicy(), reporter, nil), clock, reporter
}

// loginOnSubmit makes the login button succeed: the sign-out control appears and the portal leaves
// the login page.
func loginOnSubmit(p *fakePage, path string) {
	if path == loginButtonSelector {
		p.authenticated()
		p.url = testBaseURL + "/Klient"
	}
}

// staleSessionRedirect sends every navigation to the login page until the sign-out control exists.
func staleSessionRedirect(p *fakePage) func(string) string {
	return func(url string) string {
		if p.counts[signOutSelector] == 0 {
			return testBaseURL + domain.LoginPath + "?ReturnUrl=x"
		}
		return url
	}
}
