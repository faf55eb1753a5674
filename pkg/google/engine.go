package google

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// Engine names a Playwright browser engine.
type Engine string

const (
	// EngineChromium drives Chromium (or Chrome)
	EngineChromium Engine = "chromium"

	// EngineFirefox drives Playwright's Firefox build
	EngineFirefox Engine = "firefox"
)

// Engines lists every supported engine.
var Engines = []Engine{EngineChromium, EngineFirefox}

// ParseEngine accepts "chromium", "chrome" and "firefox" in any case.
func ParseEngine(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "chromium", "chrome":
		return EngineChromium, nil
	case "firefox":
		return EngineFirefox, nil
	default:
		return "", fmt.Errorf("unimplemented engine: %q", name)
	}
}

// String returns the engine name.
func (e Engine) String() string {
	return string(e)
}

// browserType picks the matching BrowserType from a running Playwright.
func (e Engine) browserType(pw *playwright.Playwright) (playwright.BrowserType, error) {
	switch e {
	case EngineChromium:
		return pw.Chromium, nil
	case EngineFirefox:
		return pw.Firefox, nil
	default:
		return nil, fmt.Errorf("unimplemented engine: %q", string(e))
	}
}
