package script

import (
	"context"
	"fmt"
	"io"

	"github.com/entrhq/clay/pkg/logging"
)

// Notebook is the notebook a script runs against.
type Notebook interface {
	Open(url string) error
	Create() (string, error)
	SetName(name string) (string, error)
	Restart(ctx context.Context) error
	// InsertCellBelow adds a cell below the focused one and returns its index
	InsertCellBelow(ctx context.Context) (int, error)
	Cell(index int) (Cell, error)
}

// Cell is a notebook cell.
type Cell interface {
	Focus() error
	SetText(ctx context.Context, text string) (string, error)
	Run(ctx context.Context) error
	Stream(ctx context.Context, fn func(chunk string) error) error
	Fields() ([]Field, error)
}

// Field is a form field of a cell.
type Field interface {
	Name() (string, error)
	SetValue(ctx context.Context, value string) error
}

// Runner executes scripts against one notebook.
type Runner struct {
	notebook Notebook
	out      io.Writer
	log      *logging.Logger

	// last is the cell the previous step used, nil before any
	last Cell
}

// NewRunner creates a runner that writes cell output to out.
func NewRunner(nb Notebook, out io.Writer, log *logging.Logger) *Runner {
	if out == nil {
		out = io.Discard
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Runner{notebook: nb, out: out, log: log}
}

// Run executes s. It stops at the first failing step.
func (r *Runner) Run(ctx context.Context, s *Script) error {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	switch {
	case s.Create:
		name, err := r.notebook.Create()
		if err != nil {
			return fmt.Errorf("failed to create notebook: %w", err)
		}
		r.log.Infof("created notebook %s", name)
	case s.Notebook != "":
		if err := r.notebook.Open(s.Notebook); err != nil {
			return err
		}
	}

	if s.Name != "" {
		name, err := r.notebook.SetName(s.Name)
		if err != nil {
			return fmt.Errorf("failed to rename notebook: %w", err)
		}
		if name != s.Name {
			r.log.Warnf("notebook name is %q after renaming to %q", name, s.Name)
		}
	}

	if s.Restart {
		if err := r.notebook.Restart(ctx); err != nil {
			return fmt.Errorf("failed to restart runtime: %w", err)
		}
	}

	r.last = nil
	for i, step := range s.Cells {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.runStep(ctx, step); err != nil {
			return fmt.Errorf("step %d (cell %d): %w", i, step.Cell, err)
		}
	}
	return nil
}

func (r *Runner) runStep(ctx context.Context, step Step) error {
	index := step.Cell
	if index == NewCell {
		if r.last != nil {
			if err := r.last.Focus(); err != nil {
				return err
			}
		}
		inserted, err := r.notebook.InsertCellBelow(ctx)
		if err != nil {
			return err
		}
		index = inserted
	}

	cell, err := r.notebook.Cell(index)
	if err != nil {
		return err
	}
	r.last = cell
	log := r.log.With("cell", index)

	if step.Text != nil {
		got, err := cell.SetText(ctx, *step.Text)
		if err != nil {
			return fmt.Errorf("failed to set text: %w", err)
		}
		if got != *step.Text {
			log.Warnf("editor holds %q, wanted %q", got, *step.Text)
		}
	}

	if len(step.Fields) > 0 {
		if err := SetFields(ctx, cell, step.Fields); err != nil {
			return err
		}
	}

	if step.Run {
		log.Infof("running")
		if err := cell.Run(ctx); err != nil {
			return err
		}
		err := cell.Stream(ctx, func(chunk string) error {
			_, err := io.WriteString(r.out, chunk)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to stream output: %w", err)
		}
	}
	return nil
}

// SetFields applies assignments in order. Every pattern must match at
// least one field of the cell.
func SetFields(ctx context.Context, cell Cell, assignments Assignments) error {
	fields, err := cell.Fields()
	if err != nil {
		return err
	}

	names := make([]string, len(fields))
	for i, f := range fields {
		if names[i], err = f.Name(); err != nil {
			return err
		}
	}

	for _, a := range assignments {
		g, err := a.matcher()
		if err != nil {
			return err
		}

		matched := false
		for i, f := range fields {
			if !g.Match(names[i]) {
				continue
			}
			matched = true
			if err := f.SetValue(ctx, a.Value); err != nil {
				return fmt.Errorf("failed to set field %s: %w", names[i], err)
			}
		}
		if !matched {
			return fmt.Errorf("no field matches %q (fields: %v)", a.Pattern, names)
		}
	}
	return nil
}
