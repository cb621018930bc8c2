package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bnema/klientenportal-cli/internal/domain"
	"github.com/bnema/klientenportal-cli/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	signOut      = "text=Abmelden"
	fileInput    = `input[type="file"]`
	releasedRows = "table tbody tr"
	downloadLink = `a[href*="download"], a[href*="Download"]`
	loginButton  = `button:has-text("Login")`
)

// browserStub is a signed-in portal whose elements are looked up by locator path.
type browserStub struct {
	counts    map[string]int
	texts     map[string]string
	downloads []string
	launchErr error

	launched []ports.LaunchOptions
	url      string
	uploaded []string
	saved    []string
}

func newBrowserStub() *browserStub {
	return &browserStub{
		counts: map[string]int{signOut: 1},
		texts:  map[string]string{},
	}
}

func (b *browserStub) Launch(_ context.Context, opts ports.LaunchOptions) (ports.BrowserSession, error) {
	b.launched = append(b.launched, opts)
	if b.launchErr != nil {
		return nil, b.launchErr
	}
	return b, nil
}

func (b *browserStub) NewPage() (ports.Page, error) {
	return b, nil
}

func (b *browserStub) Close() error {
	return nil
}

// Goto lands on the login page until the login button was clicked.
func (b *browserStub) Goto(url string) error {
	b.url = url
	if b.counts[signOut] == 0 {
		b.url = "https://klientenportal.at/prod/4711/account/login?ReturnUrl=%2FKlient"
	}
	return nil
}

func (b *browserStub) WaitForNetworkIdle() error {
	return nil
}

func (b *browserStub) URL() string {
	return b.url
}

func (b *browserStub) PressKey(string) error {
	return nil
}

func (b *browserStub) Locator(selector string) ports.Locator {
	return &locatorStub{browser: b, path: selector}
}

func (b *browserStub) ExpectDownload(trigger func() error) (ports.Download, error) {
	if err := trigger(); err != nil {
		return nil, err
	}
	if len(b.downloads) == 0 {
		return nil, errors.New("no download")
	}
	name := b.downloads[0]
	b.downloads = b.downloads[1:]
	return &downloadStub{browser: b, name: name}, nil
}

type locatorStub struct {
	browser *browserStub
	path    string
}

func (l *locatorStub) Count() (int, error) {
	return l.browser.counts[l.path], nil
}

func (l *locatorStub) First() ports.Locator {
	return l.Nth(0)
}

func (l *locatorStub) Fill(string) error {
	return nil
}

func (l *locatorStub) Click(ports.ClickOptions) error {
	if l.path == loginButton {
		l.browser.counts[signOut] = 1
	}
	return nil
}

func (l *locatorStub) Nth(index int) ports.Locator {
	return &locatorStub{browser: l.browser, path: fmt.Sprintf("%s@%d", l.path, index)}
}

func (l *locatorStub) Locator(selector string) ports.Locator {
	return &locatorStub{browser: l.browser, path: l.path + " >> " + selector}
}

func (l *locatorStub) InnerText() (string, error) {
	return l.browser.texts[l.path], nil
}

func (l *locatorStub) SetInputFiles(path string) error {
	l.browser.uploaded = append(l.browser.uploaded, path)
	return nil
}

type downloadStub struct {
	browser *browserStub
	name    string
}

func (d *downloadStub) SuggestedFilename() string {
	return d.name
}

func (d *downloadStub) SaveAs(path string) error {
	d.browser.saved = append(d.browser.saved, path)
	return os.WriteFile(path, []byte("%PDF-1.7"), 0o600)
}

type instantClock struct{}

func (instantClock) Now() time.Time {
	return time.Time{}
}

func (instantClock) Sleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

type memorySecrets map[string]string

func (m memorySecrets) Get(_ context.Context, key string) (string, error) {
	value, ok := m[key]
	if !ok {
		return "", domain.ErrSecretNotFound
	}
	return value, nil
}

func (m memorySecrets) Put(_ context.Context, key, value string) error {
	m[key] = value
	return nil
}

func (m memorySecrets) Delete(_ context.Context, key string) error {
	delete(m, key)
	return nil
}

type cliEnv struct {
	workspace string
	tmp       string
	browser   *browserStub
	secrets   memorySecrets
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()

	workspace := t.TempDir()
	tmp := t.TempDir()
	t.Setenv("OPENCLAW_WORKSPACE", workspace)
	t.Setenv("OPENCLAW_TMP", tmp)
	t.Setenv("KLIENTENPORTAL_PORTAL_ID", "")
	t.Setenv("KLIENTENPORTAL_USER_ID", "")
	t.Setenv("KLIENTENPORTAL_PASSWORD", "")
	t.Setenv("KLIENTENPORTAL_LOG_LEVEL", "")

	return &cliEnv{workspace: workspace, tmp: tmp, browser: newBrowserStub(), secrets: memorySecrets{}}
}

func (e *cliEnv) withCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("KLIENTENPORTAL_PORTAL_ID", "4711")
	t.Setenv("KLIENTENPORTAL_USER_ID", "client-7")
	t.Setenv("KLIENTENPORTAL_PASSWORD", "s3cret-pw")
}

func (e *cliEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	root := newRootCmdWith(dependencies{
		launcher: e.browser,
		clock:    instantClock{},
		store:    e.secrets,
		cwd:      e.workspace,
	})
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	env := newCLIEnv(t)

	stdout, _, err := env.run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "kp dev\n", stdout)
}

func TestLogoutWithAndWithoutProfile(t *testing.T) {
	env := newCLIEnv(t)
	profile := filepath.Join(env.workspace, "klientenportal", ".pw-profile")
	require.NoError(t, os.MkdirAll(filepath.Join(profile, "Default"), 0o700))

	stdout, _, err := env.run(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, stdout, "[logout] Clearing profile: "+profile)
	assert.Contains(t, stdout, "[logout] ✓ Session cleared")
	assert.NoDirExists(t, profile)

	stdout, _, err = env.run(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, stdout, "[logout] No profile to clear")
	assert.Empty(t, env.browser.launched)
}

func TestConfigSetStoresPasswordOutsideFile(t *testing.T) {
	env := newCLIEnv(t)

	stdout, _, err := env.run(t, "config", "set", "--portal-id", "4711", "--user-id", "client-7", "--password", "s3cret-pw")
	require.NoError(t, err)
	assert.Contains(t, stdout, "[config] ✓ Saved")

	data, err := os.ReadFile(filepath.Join(env.workspace, "klientenportal", "config.toml"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "s3cret-pw")
	assert.Equal(t, "s3cret-pw", env.secrets["klientenportal/4711/password"])

	stdout, _, err = env.run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "portal_url: https://klientenportal.at/prod/4711")
	assert.Contains(t, stdout, "user_id:    client-7")
	assert.Contains(t, stdout, "password:   ******** (secret store: klientenportal/4711/password)")
	assert.NotContains(t, stdout, "s3cret-pw")
}

func TestConfigSetMigratesLegacyPlaintextConfig(t *testing.T) {
	env := newCLIEnv(t)
	configDir := filepath.Join(env.workspace, "klientenportal")
	require.NoError(t, os.MkdirAll(configDir, 0o700))
	legacyPath := filepath.Join(configDir, "config.json")
	require.NoError(t, os.WriteFile(legacyPath, []byte(`{"portal_id":"4711","user_id":"u","password":"plain-pw"}`), 0o644))
	require.NoError(t, os.Chmod(legacyPath, 0o644))

	_, _, err := env.run(t, "config", "set", "--password", "new-pw")
	require.NoError(t, err)

	assert.NoFileExists(t, legacyPath)
	data, err := os.ReadFile(filepath.Join(configDir, "config.toml"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "plain-pw")
	assert.NotContains(t, string(data), "new-pw")
	assert.Equal(t, "new-pw", env.secrets["klientenportal/4711/password"])
}

func TestConfigSetRequiresAFlag(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.run(t, "config", "set")
	require.ErrorContains(t, err, "nothing to set")
}

func TestLoginWithStoredSettings(t *testing.T) {
	env := newCLIEnv(t)
	_, _, err := env.run(t, "config", "set", "--portal-id", "4711", "--user-id", "client-7", "--password", "s3cret-pw")
	require.NoError(t, err)

	stdout, _, err := env.run(t, "login", "--visible")
	require.NoError(t, err)
	assert.Contains(t, stdout, "[login] Session still valid")
	require.Len(t, env.browser.launched, 1)
	assert.False(t, env.browser.launched[0].Headless)
	assert.Equal(t, filepath.Join(env.workspace, "klientenportal", ".pw-profile"), env.browser.launched[0].ProfileDir)
}

func TestLoginWithoutSettingsNamesMissingKeys(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.run(t, "login")
	require.ErrorIs(t, err, domain.ErrMissingSettings)
	assert.ErrorContains(t, err, "portal_id, user_id, password")
	assert.Empty(t, env.browser.launched)
}

func TestLaunchFailureIsSurfaced(t *testing.T) {
	env := newCLIEnv(t)
	env.withCredentials(t)
	env.browser.launchErr = errors.New("profile directory is already in use")

	_, _, err := env.run(t, "login")
	require.Error(t, err)
	assert.ErrorContains(t, err, "profile directory is already in use")
}

func TestUploadRequiresFiles(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.run(t, "upload")
	require.ErrorIs(t, err, errNoFileFlag)
}

func TestUploadRejectsUnknownBelegkreis(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.run(t, "upload", "-f", "x.pdf", "--belegkreis", "ZZ")
	require.ErrorIs(t, err, domain.ErrUnknownCategory)
}

func TestUploadWithoutMatchesFailsBeforeLaunch(t *testing.T) {
	env := newCLIEnv(t)
	env.withCredentials(t)

	_, _, err := env.run(t, "upload", "-f", "*.pdf")
	require.ErrorIs(t, err, domain.ErrNoFilesToUpload)
	assert.Empty(t, env.browser.launched)
}

func TestUploadExpandsGlobAndReportsSummary(t *testing.T) {
	env := newCLIEnv(t)
	env.withCredentials(t)
	env.browser.counts[fileInput] = 1
	for _, name := range []string{"b.xml", "a.xml"} {
		require.NoError(t, os.WriteFile(filepath.Join(env.workspace, name), []byte("<bank/>"), 0o600))
	}

	stdout, _, err := env.run(t, "upload", "-f", "*.xml", "--belegkreis", "sp")
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(env.workspace, "a.xml"), filepath.Join(env.workspace, "b.xml")}, env.browser.uploaded)
	assert.Contains(t, stdout, "[upload] Uploading 2 file(s) to Belegkreis SP")
	assert.Contains(t, stdout, "[upload] Uploaded 2/2 files")
}

func TestUploadRejectsBrokenPDF(t *testing.T) {
	env := newCLIEnv(t)
	env.withCredentials(t)
	env.browser.counts[fileInput] = 1
	require.NoError(t, os.WriteFile(filepath.Join(env.workspace, "scan.pdf"), []byte("not a pdf"), 0o600))

	stdout, _, err := env.run(t, "upload", "-f", "scan.pdf")
	require.Error(t, err)
	assert.Contains(t, stdout, "[upload] ERROR: scan.pdf is not a valid PDF")
	assert.Empty(t, env.browser.launched)

	_, _, err = env.run(t, "upload", "-f", "scan.pdf", "--skip-validation")
	require.NoError(t, err)
	assert.Len(t, env.browser.uploaded, 1)
}

func TestUploadWithoutFileInputFails(t *testing.T) {
	env := newCLIEnv(t)
	env.withCredentials(t)
	require.NoError(t, os.WriteFile(filepath.Join(env.workspace, "a.xml"), []byte("<bank/>"), 0o600))

	stdout, _, err := env.run(t, "upload", "-f", "a.xml")
	require.ErrorIs(t, err, domain.ErrPageShapeMismatch)
	assert.Contains(t, stdout, "[upload] ERROR: No file input found")
}

func seedReleasedRows(b *browserStub) {
	b.counts[releasedRows] = 2
	cells := releasedRows + "@%d >> td"
	b.counts[fmt.Sprintf(cells, 0)] = 2
	b.texts[fmt.Sprintf(cells, 0)+"@0"] = "12.01.2026"
	b.texts[fmt.Sprintf(cells, 0)+"@1"] = " Rechnung.pdf "
	b.counts[fmt.Sprintf(cells, 1)] = 1
	b.texts[fmt.Sprintf(cells, 1)+"@0"] = "13.01.2026"
}

func TestReleasedRendersRows(t *testing.T) {
	env := newCLIEnv(t)
	env.withCredentials(t)
	seedReleasedRows(env.browser)

	stdout, _, err := env.run(t, "released")
	require.NoError(t, err)
	assert.Contains(t, stdout, "12.01.2026 | Rechnung.pdf")
	assert.Contains(t, stdout, "13.01.2026")
}

func TestReleasedEmpty(t *testing.T) {
	env := newCLIEnv(t)
	env.withCredentials(t)

	stdout, _, err := env.run(t, "released")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No released files found.")
}

func TestReleasedJSONKeepsStdoutClean(t *testing.T) {
	env := newCLIEnv(t)
	env.withCredentials(t)
	seedReleasedRows(env.browser)
	env.browser.counts[signOut] = 0

	stdout, stderr, err := env.run(t, "released", "--json")
	require.NoError(t, err)
	require.True(t, json.Valid([]byte(stdout)), stdout)
	assert.Contains(t, stdout, `"cells"`)
	assert.Contains(t, stdout, `"Rechnung.pdf"`)
	assert.NotContains(t, stdout, "[released]")
	assert.Contains(t, stderr, "[released] Session expired, logging in...")
	assert.Contains(t, stderr, "[login] Success")
}

func TestSessionExpiryLogsInAgain(t *testing.T) {
	env := newCLIEnv(t)
	env.withCredentials(t)
	env.browser.counts[signOut] = 0
	env.browser.counts[fileInput] = 1
	require.NoError(t, os.WriteFile(filepath.Join(env.workspace, "a.xml"), []byte("<bank/>"), 0o600))

	stdout, _, err := env.run(t, "upload", "-f", "a.xml")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Equal(t, "[upload] Session expired, logging in...", lines[1])
	assert.Contains(t, stdout, "[login] Logging in...")
	assert.NotContains(t, stdout, "s3cret-pw")
	assert.Contains(t, stdout, "[upload] Uploaded 1/1 files")
}

func TestDownloadSavesIntoDefaultDirectory(t *testing.T) {
	env := newCLIEnv(t)
	env.withCredentials(t)
	env.browser.counts[downloadLink] = 2
	env.browser.downloads = []string{"Bilanz 2025.pdf", "../../etc/passwd"}

	stdout, _, err := env.run(t, "download")
	require.NoError(t, err)

	outDir := filepath.Join(env.tmp, "openclaw", "klientenportal")
	assert.FileExists(t, filepath.Join(outDir, "Bilanz 2025.pdf"))
	assert.FileExists(t, filepath.Join(outDir, "_._etc_passwd"))
	assert.Contains(t, stdout, "[download] Found 2 document(s)")
	assert.Contains(t, stdout, "Saved 2 document(s) to "+outDir)
}

func TestDownloadRejectsOutputOutsideSandbox(t *testing.T) {
	env := newCLIEnv(t)
	env.withCredentials(t)

	_, _, err := env.run(t, "download", "-o", "/etc/kp")
	require.ErrorIs(t, err, domain.ErrOutputOutsideSandbox)
	assert.Empty(t, env.browser.launched)
}

func TestDownloadWithoutDocuments(t *testing.T) {
	env := newCLIEnv(t)
	env.withCredentials(t)

	stdout, _, err := env.run(t, "download", "-o", filepath.Join(env.workspace, "out"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "No documents available for download.")
	assert.DirExists(t, filepath.Join(env.workspace, "out"))
}
