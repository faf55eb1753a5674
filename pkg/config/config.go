package config

import "sync"

var (
	globalMu sync.Mutex
	global   *Manager
)

// Initialize loads the file at configPath (~/.clay/config.json when empty)
// into a manager holding the browser and colab sections and installs it as
// the process-wide configuration. Calling it again replaces the manager.
func Initialize(configPath string) error {
	store, err := NewFileStore(configPath)
	if err != nil {
		return err
	}

	m := NewManager(store)
	for _, s := range []Section{NewBrowserSection(), NewColabSection()} {
		if err := m.RegisterSection(s); err != nil {
			return err
		}
	}
	if err := m.LoadAll(); err != nil {
		return err
	}

	globalMu.Lock()
	global = m
	globalMu.Unlock()
	return nil
}

// Global panics before Initialize.
func Global() *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()
	if global == nil {
		panic("config: Initialize has not been called")
	}
	return global
}

func IsInitialized() bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	return global != nil
}

// globalSection returns the typed section id, or the zero value when
// configuration is not loaded.
func globalSection[T Section](id string) T {
	var zero T
	globalMu.Lock()
	m := global
	globalMu.Unlock()
	if m == nil {
		return zero
	}
	s, ok := m.GetSection(id)
	if !ok {
		return zero
	}
	typed, _ := s.(T)
	return typed
}

// GetBrowser is nil before Initialize.
func GetBrowser() *BrowserSection { return globalSection[*BrowserSection](SectionIDBrowser) }

// GetColab is nil before Initialize.
func GetColab() *ColabSection { return globalSection[*ColabSection](SectionIDColab) }
