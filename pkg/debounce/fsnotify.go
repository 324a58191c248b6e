package debounce

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// NewFSNotifyBackend returns a BackendFactory backed by fsnotify. When
// recursive is true, Add walks directories and watches every subdirectory
// (hidden directories are skipped), and directories created later under a
// watched tree are picked up automatically.
func NewFSNotifyBackend(recursive bool) BackendFactory {
	return func(onEvent func(RawEvent), onError func(error)) (Backend, error) {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
		}

		b := &fsnotifyBackend{
			watcher:   watcher,
			recursive: recursive,
			done:      make(chan struct{}),
		}

		go b.forward(onEvent, onError)

		return b, nil
	}
}

type fsnotifyBackend struct {
	watcher   *fsnotify.Watcher
	recursive bool
	done      chan struct{}
}

// forward pumps the fsnotify channels into the debouncer callbacks until the
// watcher is closed.
func (b *fsnotifyBackend) forward(onEvent func(RawEvent), onError func(error)) {
	defer close(b.done)

	for {
		select {
		case event, ok := <-b.watcher.Events:
			if !ok {
				return
			}

			if event.Op == 0 {
				continue
			}

			// A directory created under a watched tree must be watched too,
			// before its own contents start changing.
			if b.recursive && event.Has(fsnotify.Create) {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					_ = b.addRecursive(event.Name)
				}
			}

			onEvent(RawEvent{Paths: []string{event.Name}})

		case err, ok := <-b.watcher.Errors:
			if !ok {
				return
			}

			onError(err)
		}
	}
}

// Add registers path. In recursive mode a directory is walked and all of its
// non-hidden subdirectories are watched as well.
func (b *fsnotifyBackend) Add(path string) error {
	if b.recursive {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return b.addRecursive(path)
		}
	}

	return b.watcher.Add(path)
}

// Remove unregisters path.
func (b *fsnotifyBackend) Remove(path string) error {
	return b.watcher.Remove(path)
}

// Close shuts the watcher down and waits for the forwarding goroutine to
// exit, so no callback fires after Close returns.
func (b *fsnotifyBackend) Close() error {
	err := b.watcher.Close()
	<-b.done

	return err
}

// addRecursive walks root and watches every directory, skipping hidden
// directories (e.g. .git).
func (b *fsnotifyBackend) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}

		return b.watcher.Add(path)
	})
}
