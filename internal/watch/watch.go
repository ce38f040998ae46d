// Package watch follows files on disk and feeds their contents back into
// the application.
package watch

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"headlesskit/internal/config"
	"headlesskit/internal/eventbus"
)

// FileWatcher watches a file for changes and emits its contents.
type FileWatcher struct {
	path string
}

// NewFileWatcher creates a new FileWatcher for the given file path.
func NewFileWatcher(path string) *FileWatcher {
	return &FileWatcher{path: path}
}

// Watch emits the file's contents now and again whenever they change. The
// parent directory is watched so that editors which save by renaming a
// temporary file are followed too. The channel closes when ctx is done.
func (w *FileWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	out := make(chan []byte)
	target := filepath.Clean(w.path)

	go func() {
		defer close(out)
		defer watcher.Close()

		var last []byte
		emit := func() bool {
			data, err := os.ReadFile(w.path)
			// Truncation shows up as an empty read before the new contents.
			if err != nil || len(data) == 0 {
				return true
			}
			if last != nil && bytes.Equal(data, last) {
				return true
			}
			last = data
			select {
			case out <- data:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if !emit() {
					return
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("watch %s: %v", w.path, err)
			}
		}
	}()

	return out, nil
}

// WatchOptions follows an option-set file and publishes every decoded
// version as an OptionsReloadedEvent. Files that fail to decode are
// reported as ErrorEvents and the previous options stay in effect.
func WatchOptions(ctx context.Context, path string, bus eventbus.EventBus) error {
	out, err := NewFileWatcher(path).Watch(ctx)
	if err != nil {
		return err
	}

	go func() {
		for data := range out {
			opts, err := config.ParseOptions(data, filepath.Ext(path))
			if err != nil {
				log.Printf("Failed to reload options from %s: %v", path, err)
				bus.Publish(eventbus.ErrorEvent{
					Message: fmt.Sprintf("reloading %s", filepath.Base(path)),
					Err:     err,
				})
				continue
			}
			log.Printf("Reloaded %d options from %s", len(opts), path)
			bus.Publish(eventbus.OptionsReloadedEvent{Path: path, Options: opts})
		}
	}()
	return nil
}
