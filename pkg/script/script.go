package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// NewCell as a step's cell index inserts a new cell.
const NewCell = -1

// Script is a parsed notebook script.
type Script struct {
	// Notebook is the URL to open. Empty keeps the notebook already open,
	// which clay opens from --url or the base URL.
	Notebook string `yaml:"notebook"`

	// Create makes a new notebook instead of opening one
	Create bool `yaml:"create"`

	// Name renames the notebook
	Name string `yaml:"name"`

	// Restart restarts the runtime before the first step
	Restart bool `yaml:"restart"`

	// Timeout bounds the whole run; zero means no limit
	Timeout time.Duration `yaml:"timeout"`

	Cells []Step `yaml:"cells"`
}

// Step is one cell's worth of work.
type Step struct {
	Cell   int         `yaml:"cell"`
	Text   *string     `yaml:"text"`
	Fields Assignments `yaml:"fields"`
	Run    bool        `yaml:"run"`
}

// Parse decodes and validates a script. Unknown keys are rejected.
func Parse(data []byte) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}
	return &s, nil
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return Parse(data)
}

// Validate checks the script for contradictions and bad patterns.
func (s *Script) Validate() error {
	if s.Create && s.Notebook != "" {
		return fmt.Errorf("create and notebook are mutually exclusive")
	}
	if s.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}

	for i, step := range s.Cells {
		if step.Cell < NewCell {
			return fmt.Errorf("step %d: invalid cell index %d", i, step.Cell)
		}
		if step.Text == nil && len(step.Fields) == 0 && !step.Run {
			return fmt.Errorf("step %d: nothing to do for cell %d", i, step.Cell)
		}
		if step.Cell == NewCell && step.Text == nil {
			return fmt.Errorf("step %d: a new cell needs text", i)
		}
		for _, a := range step.Fields {
			if _, err := a.matcher(); err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
		}
	}
	return nil
}
