package google

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/entrhq/clay/pkg/logging"
	"github.com/playwright-community/playwright-go"
)

// AccountsURL is the page used to check the sign-in state of a profile.
const AccountsURL = "https://accounts.google.com/"

// Default values for driver options
const (
	DefaultProfileDir   = "~/.config/google-webdriver"
	DefaultTimeout      = 30 * time.Second
	DefaultLoginTimeout = 10 * time.Second
)

var (
	// DefaultSigningInIDs appear on the page while the account needs a sign-in
	DefaultSigningInIDs = []string{"captchaimg", "gaia_loginform"}

	// DefaultSignedInIDs appear on the account page of a signed-in profile
	DefaultSignedInIDs = []string{"wiz_jd"}
)

// Options configures a Driver.
type Options struct {
	// Engine selects the browser engine
	Engine Engine

	// ProfileDir is the base profile directory; each engine gets a subdirectory
	ProfileDir string

	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Timeout is the default timeout for browser operations
	Timeout time.Duration

	// LoginTimeout bounds the wait for a recognised element on the accounts page
	LoginTimeout time.Duration

	SigningInIDs []string
	SignedInIDs  []string

	// AccountsURL overrides the sign-in check page
	AccountsURL string

	Logger *logging.Logger
}

func (o *Options) setDefaults() {
	if o.ProfileDir == "" {
		o.ProfileDir = DefaultProfileDir
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.LoginTimeout <= 0 {
		o.LoginTimeout = DefaultLoginTimeout
	}
	if len(o.SigningInIDs) == 0 {
		o.SigningInIDs = DefaultSigningInIDs
	}
	if len(o.SignedInIDs) == 0 {
		o.SignedInIDs = DefaultSignedInIDs
	}
	if o.AccountsURL == "" {
		o.AccountsURL = AccountsURL
	}
	if o.Logger == nil {
		o.Logger = logging.Nop()
	}
}

// Driver is a browser on a persistent, signed-in profile.
type Driver struct {
	runtime *Runtime
	opts    Options
	context playwright.BrowserContext
	page    playwright.Page
	log     *logging.Logger
}

// New creates a driver and signs it in by calling Create.
func New(rt *Runtime, opts Options) (*Driver, error) {
	d, err := newDriver(rt, opts)
	if err != nil {
		return nil, err
	}
	if err := d.Create(); err != nil {
		return nil, err
	}
	return d, nil
}

func newDriver(rt *Runtime, opts Options) (*Driver, error) {
	if rt == nil {
		return nil, fmt.Errorf("playwright runtime is required")
	}
	engine, err := ParseEngine(string(opts.Engine))
	if err != nil {
		return nil, err
	}
	opts.Engine = engine
	opts.setDefaults()
	return &Driver{
		runtime: rt,
		opts:    opts,
		log:     opts.Logger.With("engine", opts.Engine.String()),
	}, nil
}

// Engine returns the driver's browser engine.
func (d *Driver) Engine() Engine {
	return d.opts.Engine
}

// ProfileDir returns the expanded profile directory of this engine.
func (d *Driver) ProfileDir() (string, error) {
	return profileDir(d.opts.ProfileDir, d.opts.Engine)
}

// Page returns the active page. Nil before Create.
func (d *Driver) Page() playwright.Page {
	return d.page
}

// Timeout returns the default operation timeout.
func (d *Driver) Timeout() time.Duration {
	return d.opts.Timeout
}

// Create launches the browser on the profile and verifies that the profile
// is signed in. A previously created browser is closed first.
func (d *Driver) Create() error {
	if err := d.Close(); err != nil {
		d.log.Warnf("closing previous browser: %v", err)
	}

	page, err := d.launch(d.opts.Headless)
	if err != nil {
		return err
	}

	state, err := d.checkLogin(page)
	if err != nil {
		d.Close()
		return err
	}
	if state != stateSignedIn {
		d.Close()
		dir, _ := d.ProfileDir()
		return &NotLoggedInError{Engine: d.opts.Engine, ProfileDir: dir}
	}

	d.log.Infof("browser ready")
	return nil
}

// Recreate closes the browser and creates it again.
func (d *Driver) Recreate() error {
	d.log.Warnf("recreating browser")
	return d.Create()
}

// launch starts a persistent context and sets d.context and d.page.
func (d *Driver) launch(headless bool) (playwright.Page, error) {
	dir, err := d.ProfileDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create profile directory: %w", err)
	}

	bt, err := d.runtime.browserType(d.opts.Engine)
	if err != nil {
		return nil, err
	}

	d.log.Debugf("launching persistent context in %s (headless=%v)", dir, headless)
	bctx, err := bt.LaunchPersistentContext(dir, playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless: playwright.Bool(headless),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch %s: %w", d.opts.Engine, err)
	}
	bctx.SetDefaultTimeout(milliseconds(d.opts.Timeout))

	var page playwright.Page
	if pages := bctx.Pages(); len(pages) > 0 {
		page = pages[0]
	} else if page, err = bctx.NewPage(); err != nil {
		bctx.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	d.context = bctx
	d.page = page
	return page, nil
}

// checkLogin opens the accounts page and waits for a known element id.
func (d *Driver) checkLogin(page playwright.Page) (loginState, error) {
	if _, err := page.Goto(d.opts.AccountsURL); err != nil {
		return stateUnknown, fmt.Errorf("failed to open %s: %w", d.opts.AccountsURL, err)
	}

	all := append(append([]string(nil), d.opts.SigningInIDs...), d.opts.SignedInIDs...)
	_, err := page.WaitForFunction(anyIDExistsJS, all, playwright.PageWaitForFunctionOptions{
		Timeout: playwright.Float(milliseconds(d.opts.LoginTimeout)),
	})
	if err != nil {
		ids, idsErr := PageElementIDs(page)
		if idsErr != nil {
			d.log.Warnf("listing element ids: %v", idsErr)
		}
		d.log.Errorf("no known element id at %s; page ids: %v", d.opts.AccountsURL, ids)
		return stateUnknown, &ElementIDsError{URL: d.opts.AccountsURL, Expected: all, IDs: ids, Err: err}
	}

	present, err := presentIDs(page, all)
	if err != nil {
		return stateUnknown, err
	}
	return classifyLogin(present, d.opts.SigningInIDs, d.opts.SignedInIDs), nil
}

// Close closes the browser. Safe to call when nothing is open.
func (d *Driver) Close() error {
	if d.context == nil {
		return nil
	}
	bctx := d.context
	d.context = nil
	d.page = nil
	if err := bctx.Close(); err != nil && !errors.Is(err, playwright.ErrTargetClosed) {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}

const (
	anyIDExistsJS  = `ids => ids.some(id => document.getElementById(id) !== null)`
	presentIDsJS   = `ids => ids.filter(id => document.getElementById(id) !== null)`
	allElementIDJS = `() => Array.prototype.map.call(document.querySelectorAll("*[id]"), x => x.id)`
)

// PageElementIDs lists the ids of every element on the page. It is the
// diagnostic dump attached to selector failures.
func PageElementIDs(page playwright.Page) ([]string, error) {
	result, err := page.Evaluate(allElementIDJS)
	if err != nil {
		return nil, fmt.Errorf("failed to list element ids: %w", err)
	}
	return toStrings(result), nil
}

func presentIDs(page playwright.Page, ids []string) ([]string, error) {
	result, err := page.Evaluate(presentIDsJS, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to check element ids: %w", err)
	}
	return toStrings(result), nil
}

type loginState int

const (
	stateUnknown loginState = iota
	stateSigningIn
	stateSignedIn
)

func (s loginState) String() string {
	switch s {
	case stateSigningIn:
		return "signing-in"
	case stateSignedIn:
		return "signed-in"
	default:
		return "unknown"
	}
}

// classifyLogin decides the sign-in state from the ids present on the page.
// Sign-in markup wins over signed-in markup.
func classifyLogin(present, signingIn, signedIn []string) loginState {
	has := func(ids []string) bool {
		for _, id := range ids {
			for _, p := range present {
				if p == id {
					return true
				}
			}
		}
		return false
	}
	switch {
	case has(signingIn):
		return stateSigningIn
	case has(signedIn):
		return stateSignedIn
	default:
		return stateUnknown
	}
}

// profileDir expands base and appends the engine name.
func profileDir(base string, engine Engine) (string, error) {
	expanded, err := expandHome(base)
	if err != nil {
		return "", err
	}
	return filepath.Join(expanded, engine.String()), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func toStrings(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
