package google

import (
	"fmt"
	"io"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// Runtime owns the Playwright driver process shared by every Driver.
type Runtime struct {
	mu          sync.Mutex
	playwright  *playwright.Playwright
	initialized bool
	verbose     bool
}

// NewRuntime creates an uninitialized runtime.
func NewRuntime() *Runtime {
	return &Runtime{}
}

// SetVerbose lets the driver install print its progress.
func (r *Runtime) SetVerbose(verbose bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verbose = verbose
}

// Initialize installs the given engines (all when none are given) and starts
// the Playwright driver. Calling it again is a no-op.
func (r *Runtime) Initialize(engines ...Engine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return nil
	}

	if len(engines) == 0 {
		engines = Engines
	}
	browsers := make([]string, 0, len(engines))
	for _, e := range engines {
		browsers = append(browsers, e.String())
	}

	opts := &playwright.RunOptions{
		Browsers: browsers,
		Verbose:  r.verbose,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}

	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	r.playwright = pw
	r.initialized = true
	return nil
}

// browserType returns the BrowserType for engine, initializing on demand.
func (r *Runtime) browserType(engine Engine) (playwright.BrowserType, error) {
	if err := r.Initialize(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return engine.browserType(r.playwright)
}

// Stop shuts the Playwright driver down.
func (r *Runtime) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized || r.playwright == nil {
		return nil
	}
	r.initialized = false
	if err := r.playwright.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}
