package colab

import (
	"context"
	"fmt"
	"time"
)

// runView is what the output stream observes of a running cell.
type runView interface {
	dialogs
	output() (string, error)
	runComplete() (bool, error)
}

// outputDelta returns the part of next after its common prefix with last.
// When the output was rewritten rather than appended to, that is the
// rewritten tail.
func outputDelta(last, next string) string {
	return string([]rune(next)[len([]rune(commonPrefix(last, next))):])
}

// streamOutput reports a cell's output as it grows.
//
// fn first receives the whole current output. Then, until the run is
// complete, every change is reported as the text after the common prefix of
// the new and the previous output. A dialog that opens while the output is
// unchanged is closed and its message is appended to the output. Each change
// must happen within timeout.
func streamOutput(ctx context.Context, view runView, interval, timeout time.Duration, fn func(chunk string) error) error {
	last, err := view.output()
	if err != nil {
		return fmt.Errorf("failed to read output: %w", err)
	}
	if err := fn(last); err != nil {
		return err
	}

	for {
		done, err := view.runComplete()
		if err != nil {
			return fmt.Errorf("failed to check run state: %w", err)
		}
		if done {
			// output rendered between the last poll and completion
			final, err := view.output()
			if err != nil {
				return fmt.Errorf("failed to read output: %w", err)
			}
			if delta := outputDelta(last, final); delta != "" {
				return fn(delta)
			}
			return nil
		}

		next := last
		err = waitUntil(ctx, timeout, interval, func() (bool, error) {
			out, err := view.output()
			if err != nil {
				return false, fmt.Errorf("failed to read output: %w", err)
			}
			next = out
			if next != last {
				return true, nil
			}
			if done, err := view.runComplete(); err != nil || done {
				return done, err
			}

			msg, ok, err := view.dialogMessage()
			if err != nil || !ok {
				return false, err
			}
			if err := view.closeDialog(ctx); err != nil {
				return false, err
			}
			next = last + msg
			return true, nil
		})
		if err != nil {
			return err
		}

		if delta := outputDelta(last, next); delta != "" {
			if err := fn(delta); err != nil {
				return err
			}
		}
		last = next
	}
}
