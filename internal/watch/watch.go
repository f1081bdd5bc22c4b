// Package watch reports changes to individual files.
//
// fsnotify watches directories, so the watcher subscribes to the parent
// directory of every tracked file and filters events down to the files that
// were added.
package watch

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher calls onChange with the absolute path of a tracked file after it is
// written, created, removed or renamed.
type Watcher struct {
	watcher  *fsnotify.Watcher
	onChange func(string)
	logger   *slog.Logger

	mu    sync.Mutex
	files map[string]struct{}
	dirs  map[string]struct{}

	stopCh    chan struct{}
	doneCh    chan struct{}
	closeOnce sync.Once
}

// New starts the event loop. Close must be called to release it.
func New(onChange func(string), logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	w := &Watcher{
		watcher:  fw,
		onChange: onChange,
		logger:   logger,
		files:    map[string]struct{}{},
		dirs:     map[string]struct{}{},
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Add tracks path. Adding the same file twice is a no-op.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.dirs[dir]; !ok {
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = struct{}{}
	}
	w.files[abs] = struct{}{}
	return nil
}

// Tracked reports whether path was added.
func (w *Watcher) Tracked(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.files[abs]
	return ok
}

// Close stops the event loop and waits for it to exit.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.stopCh)
		err = w.watcher.Close()
		<-w.doneCh
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.doneCh)
	for {
		select {
		case <-w.stopCh:
			return
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("template watcher error", "error", err)
		case evt, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !shouldNotify(evt) {
				continue
			}
			name := filepath.Clean(evt.Name)
			w.mu.Lock()
			_, tracked := w.files[name]
			w.mu.Unlock()
			if !tracked {
				continue
			}
			w.logger.Debug("template changed", "path", name, "op", evt.Op.String())
			if w.onChange != nil {
				w.onChange(name)
			}
		}
	}
}

func shouldNotify(evt fsnotify.Event) bool {
	if strings.TrimSpace(evt.Name) == "" {
		return false
	}
	return evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
