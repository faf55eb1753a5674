package script

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/entrhq/clay/pkg/logging"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// Watch calls onChange with the content of the file at path every time it
// is written, until ctx ends. Writes closer together than debounce produce
// one call.
//
// The directory is watched rather than the file so editors that save by
// renaming a temp file over the original keep triggering.
func Watch(ctx context.Context, path string, debounce time.Duration, log *logging.Logger, onChange func(content []byte)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = logging.Nop()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	log.Infof("watching %s", abs)

	// stopped until the first relevant event
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.Debugf("%s: %s", event.Op, event.Name)
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Errorf("watch error: %v", err)

		case <-timer.C:
			content, err := os.ReadFile(abs)
			if err != nil {
				log.Warnf("reading %s: %v", abs, err)
				continue
			}
			onChange(content)
		}
	}
}
