package modules

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher invalidates store entries when module sources change on disk.
// It watches the search-path directories, not individual files, so
// modules created after the watch starts are covered too.
type Watcher struct {
	fs    *fsnotify.Watcher
	store *Store
	done  chan struct{}
}

// Watch starts watching the search paths on behalf of the store.
func Watch(store *Store, searchPaths []string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating module watcher: %w", err)
	}

	for _, dir := range searchPaths {
		if err := fs.Add(dir); err != nil {
			fs.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	w := &Watcher{fs: fs, store: store, done: make(chan struct{})}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, SourceExt) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.store.InvalidateURI(event.Name)
			}
		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			// Watch errors are not fatal: a stale cache entry only
			// persists until the next explicit invalidation.
		}
	}
}

// Close stops the watcher and waits for the event loop to drain.
func (w *Watcher) Close() error {
	err := w.fs.Close()
	<-w.done
	return err
}
