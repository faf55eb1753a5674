package config

import (
	"fmt"
	"sync"
	"time"
)

const (
	// SectionIDBrowser is the identifier for the browser settings section
	SectionIDBrowser = "browser"

	// EngineAuto tries every supported engine in random order
	EngineAuto = "auto"

	defaultEngine         = EngineAuto
	defaultProfileDir     = "~/.config/google-webdriver"
	defaultHeadless       = true
	defaultBrowserTimeout = 30 * time.Second
)

var (
	defaultSigningInIDs = []string{"captchaimg", "gaia_loginform"}
	defaultSignedInIDs  = []string{"wiz_jd"}
)

// BrowserSection configures which browser is launched and how a signed-in
// Google profile is recognised.
type BrowserSection struct {
	Engine       string        `json:"engine"`
	ProfileDir   string        `json:"profile_dir"`
	Headless     bool          `json:"headless"`
	Timeout      time.Duration `json:"timeout"`
	SigningInIDs []string      `json:"signing_in_ids"`
	SignedInIDs  []string      `json:"signed_in_ids"`
	mu           sync.RWMutex
}

// NewBrowserSection creates a browser section with default settings.
func NewBrowserSection() *BrowserSection {
	s := &BrowserSection{}
	s.Reset()
	return s
}

// ID returns the section identifier.
func (s *BrowserSection) ID() string {
	return SectionIDBrowser
}

// Title returns the section title.
func (s *BrowserSection) Title() string {
	return "Browser"
}

// Description returns the section description.
func (s *BrowserSection) Description() string {
	return "Browser engine, profile directory and the element ids used to detect the Google sign-in state."
}

// Data returns the current configuration data.
func (s *BrowserSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"engine":         s.Engine,
		"profile_dir":    s.ProfileDir,
		"headless":       s.Headless,
		"timeout":        s.Timeout.String(),
		"signing_in_ids": append([]string(nil), s.SigningInIDs...),
		"signed_in_ids":  append([]string(nil), s.SignedInIDs...),
	}
}

// SetData updates the configuration from the provided data.
// Unknown keys are ignored for forward compatibility.
func (s *BrowserSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	for key, value := range data {
		switch key {
		case "engine":
			s.Engine, err = stringValue(key, value)
		case "profile_dir":
			s.ProfileDir, err = stringValue(key, value)
		case "headless":
			s.Headless, err = boolValue(key, value)
		case "timeout":
			s.Timeout, err = durationValue(key, value)
		case "signing_in_ids":
			s.SigningInIDs, err = stringsValue(key, value)
		case "signed_in_ids":
			s.SignedInIDs, err = stringsValue(key, value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Validate validates the current configuration.
func (s *BrowserSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch s.Engine {
	case EngineAuto, "chromium", "chrome", "firefox":
	default:
		return fmt.Errorf("unsupported engine %q (want auto, chromium or firefox)", s.Engine)
	}
	if s.ProfileDir == "" {
		return fmt.Errorf("profile_dir is required")
	}
	if s.Timeout < time.Second {
		return fmt.Errorf("timeout must be at least 1s, got %v", s.Timeout)
	}
	if len(s.SigningInIDs) == 0 || len(s.SignedInIDs) == 0 {
		return fmt.Errorf("signing_in_ids and signed_in_ids must not be empty")
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *BrowserSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Engine = defaultEngine
	s.ProfileDir = defaultProfileDir
	s.Headless = defaultHeadless
	s.Timeout = defaultBrowserTimeout
	s.SigningInIDs = append([]string(nil), defaultSigningInIDs...)
	s.SignedInIDs = append([]string(nil), defaultSignedInIDs...)
}

// GetEngine returns the configured engine name.
func (s *BrowserSection) GetEngine() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Engine
}

// GetProfileDir returns the base profile directory (unexpanded).
func (s *BrowserSection) GetProfileDir() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ProfileDir
}

// IsHeadless reports whether browsers start without a window.
func (s *BrowserSection) IsHeadless() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Headless
}

// GetTimeout returns the default Playwright timeout.
func (s *BrowserSection) GetTimeout() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Timeout
}

// GetLoginIDs returns copies of the signing-in and signed-in element ids.
func (s *BrowserSection) GetLoginIDs() (signingIn, signedIn []string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.SigningInIDs...), append([]string(nil), s.SignedInIDs...)
}

// SetEngine sets the engine name.
func (s *BrowserSection) SetEngine(engine string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Engine = engine
}

// SetHeadless sets the headless default.
func (s *BrowserSection) SetHeadless(headless bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Headless = headless
}
