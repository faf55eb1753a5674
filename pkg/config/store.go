package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"
)

// storeVersion tags the file format.
const storeVersion = "1"

// Store holds raw section data keyed by section id.
type Store interface {
	Load() error
	Save() error

	// GetSection returns a copy; unknown ids yield an empty map.
	GetSection(sectionID string) (map[string]interface{}, error)
	SetSection(sectionID string, data map[string]interface{}) error

	GetAll() (map[string]map[string]interface{}, error)
	SetAll(data map[string]map[string]interface{}) error
}

type sectionData = map[string]map[string]interface{}

// fileLayout is the JSON document on disk.
type fileLayout struct {
	Version  string      `json:"version"`
	Sections sectionData `json:"sections"`
}

// FileStore is a Store backed by one JSON file.
type FileStore struct {
	path string

	mu    sync.RWMutex
	doc   fileLayout
	dirty bool
}

// DefaultPath is ~/.clay/config.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".clay", "config.json"), nil
}

// NewFileStore reads path, or DefaultPath when path is empty. The file need
// not exist yet.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	s := &FileStore{path: path}
	if err := s.Load(); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return s, nil
}

// Load discards in-memory changes and rereads the file.
func (s *FileStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := fileLayout{Version: storeVersion}
	raw, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("failed to decode config file: %w", err)
		}
	}
	if doc.Sections == nil {
		doc.Sections = sectionData{}
	}

	s.doc, s.dirty = doc, false
	return nil
}

// Save replaces the file atomically, creating its directory if needed.
func (s *FileStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, append(raw, '\n'), 0600); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace config: %w", err)
	}

	s.dirty = false
	return nil
}

func (s *FileStore) GetSection(sectionID string) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSection(s.doc.Sections[sectionID]), nil
}

func (s *FileStore) SetSection(sectionID string, data map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Sections[sectionID] = cloneSection(data)
	s.dirty = true
	return nil
}

func (s *FileStore) GetAll() (map[string]map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSections(s.doc.Sections), nil
}

func (s *FileStore) SetAll(data map[string]map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Sections = cloneSections(data)
	s.dirty = true
	return nil
}

// IsModified reports changes not yet saved.
func (s *FileStore) IsModified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

func (s *FileStore) Path() string { return s.path }

func cloneSection(data map[string]interface{}) map[string]interface{} {
	if data == nil {
		return map[string]interface{}{}
	}
	return maps.Clone(data)
}

func cloneSections(all sectionData) sectionData {
	out := make(sectionData, len(all))
	for id, data := range all {
		out[id] = cloneSection(data)
	}
	return out
}
