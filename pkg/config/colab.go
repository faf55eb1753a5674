package config

import (
	"fmt"
	"net/url"
	"sync"
	"time"
)

const (
	// SectionIDColab is the identifier for the notebook settings section
	SectionIDColab = "colab"

	defaultBaseURL       = "https://colab.research.google.com/"
	defaultLoadTimeout   = 10 * time.Second
	defaultDialogTimeout = 10 * time.Second
	defaultPollInterval  = 500 * time.Millisecond
	defaultOutputTimeout = time.Hour
)

// ColabSection configures the notebook site and its polling waits.
type ColabSection struct {
	BaseURL       string        `json:"base_url"`
	LoadTimeout   time.Duration `json:"load_timeout"`
	DialogTimeout time.Duration `json:"dialog_timeout"`
	PollInterval  time.Duration `json:"poll_interval"`
	OutputTimeout time.Duration `json:"output_timeout"`
	mu            sync.RWMutex
}

// NewColabSection creates a notebook section with default settings.
func NewColabSection() *ColabSection {
	s := &ColabSection{}
	s.Reset()
	return s
}

// ID returns the section identifier.
func (s *ColabSection) ID() string {
	return SectionIDColab
}

// Title returns the section title.
func (s *ColabSection) Title() string {
	return "Notebook"
}

// Description returns the section description.
func (s *ColabSection) Description() string {
	return "Notebook site URL and the timeouts used while waiting for pages, dialogs and cell output."
}

// Data returns the current configuration data.
func (s *ColabSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"base_url":       s.BaseURL,
		"load_timeout":   s.LoadTimeout.String(),
		"dialog_timeout": s.DialogTimeout.String(),
		"poll_interval":  s.PollInterval.String(),
		"output_timeout": s.OutputTimeout.String(),
	}
}

// SetData updates the configuration from the provided data.
func (s *ColabSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	for key, value := range data {
		switch key {
		case "base_url":
			s.BaseURL, err = stringValue(key, value)
		case "load_timeout":
			s.LoadTimeout, err = durationValue(key, value)
		case "dialog_timeout":
			s.DialogTimeout, err = durationValue(key, value)
		case "poll_interval":
			s.PollInterval, err = durationValue(key, value)
		case "output_timeout":
			s.OutputTimeout, err = durationValue(key, value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Validate validates the current configuration.
func (s *ColabSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, err := url.Parse(s.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute URL, got %q", s.BaseURL)
	}
	if s.PollInterval < 10*time.Millisecond {
		return fmt.Errorf("poll_interval must be at least 10ms, got %v", s.PollInterval)
	}
	for name, d := range map[string]time.Duration{
		"load_timeout":   s.LoadTimeout,
		"dialog_timeout": s.DialogTimeout,
		"output_timeout": s.OutputTimeout,
	} {
		if d < s.PollInterval {
			return fmt.Errorf("%s (%v) must not be shorter than poll_interval (%v)", name, d, s.PollInterval)
		}
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *ColabSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.BaseURL = defaultBaseURL
	s.LoadTimeout = defaultLoadTimeout
	s.DialogTimeout = defaultDialogTimeout
	s.PollInterval = defaultPollInterval
	s.OutputTimeout = defaultOutputTimeout
}

// GetBaseURL returns the notebook site URL.
func (s *ColabSection) GetBaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.BaseURL
}

// GetTimeouts returns (load, dialog, output) timeouts and the poll interval.
func (s *ColabSection) GetTimeouts() (load, dialog, output, poll time.Duration) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LoadTimeout, s.DialogTimeout, s.OutputTimeout, s.PollInterval
}

// SetBaseURL sets the notebook site URL.
func (s *ColabSection) SetBaseURL(baseURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.BaseURL = baseURL
}
