package colab

import (
	"context"
	"fmt"
	"time"
)

// waitUntil calls cond immediately and then every interval until it
// reports true, returns an error, ctx ends, or timeout elapses.
func waitUntil(ctx context.Context, timeout, interval time.Duration, cond func() (bool, error)) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ok, err := cond()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return fmt.Errorf("%w after %v", ErrTimeout, timeout)
		case <-ticker.C:
		}
	}
}
