package colab

import (
	"errors"
	"time"

	"github.com/entrhq/clay/pkg/logging"
)

// Default values for notebook options
const (
	DefaultBaseURL       = "https://colab.research.google.com/"
	DefaultLoadTimeout   = 10 * time.Second
	DefaultDialogTimeout = 10 * time.Second
	DefaultPollInterval  = 500 * time.Millisecond
	DefaultOutputTimeout = time.Hour

	// quickReadTimeout bounds reads of elements that may vanish at any moment
	quickReadTimeout = time.Second
)

var (
	// ErrTimeout is returned when a polling wait runs out of time
	ErrTimeout = errors.New("timed out waiting for condition")

	// ErrNotAnOption is returned when setting a select or dropdown to a value it does not offer
	ErrNotAnOption = errors.New("not an option")

	// ErrUnrecognisedField is returned for form widgets of an unknown shape
	ErrUnrecognisedField = errors.New("unrecognised field")

	// ErrNoDialog is returned by CloseDialog when no dialog is open
	ErrNoDialog = errors.New("no dialog open")

	// ErrNoCell is returned for a cell index outside the notebook
	ErrNoCell = errors.New("no such cell")
)

// Options configures a Notebook.
type Options struct {
	// BaseURL is the notebook site; new notebooks are created below it
	BaseURL string

	// LoadTimeout bounds the wait for a notebook page to load
	LoadTimeout time.Duration

	// DialogTimeout bounds waits for dialog buttons and dialog dismissal
	DialogTimeout time.Duration

	// PollInterval is the delay between checks in every polling wait
	PollInterval time.Duration

	// OutputTimeout bounds the wait for each change of a running cell's output
	OutputTimeout time.Duration

	Logger *logging.Logger
}

func (o *Options) setDefaults() {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.LoadTimeout <= 0 {
		o.LoadTimeout = DefaultLoadTimeout
	}
	if o.DialogTimeout <= 0 {
		o.DialogTimeout = DefaultDialogTimeout
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.OutputTimeout <= 0 {
		o.OutputTimeout = DefaultOutputTimeout
	}
	if o.Logger == nil {
		o.Logger = logging.Nop()
	}
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
