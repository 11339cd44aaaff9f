package prefs

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports writes to the preferences database made by any process.
type Watcher struct {
	fs      *fsnotify.Watcher
	changes chan struct{}
	errs    chan error
}

// Watch starts watching the database file and its WAL. The directory is
// watched because the WAL file may not exist yet.
func (s *Store) Watch() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(s.path)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch prefs: %w", err)
	}

	w := &Watcher{
		fs:      fw,
		changes: make(chan struct{}, 1),
		errs:    make(chan error, 1),
	}

	base := filepath.Clean(s.path)
	wal := base + "-wal"

	go func() {
		defer close(w.changes)
		for {
			select {
			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				name := filepath.Clean(event.Name)
				if name != base && name != wal {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				// Non-blocking send coalesces bursts of writes
				select {
				case w.changes <- struct{}{}:
				default:
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				select {
				case w.errs <- err:
				default:
				}
			}
		}
	}()

	return w, nil
}

// Changes delivers one value per burst of writes; it is closed by Close.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Errors delivers watcher errors without blocking the watch loop.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
