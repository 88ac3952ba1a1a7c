// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It watches a content directory, filters out files that are not bank sources,
// and coalesces bursts of events (editors often write several times per save)
// into one callback fired after the directory goes quiet.
package fsnotify

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultQuietPeriod is how long the directory must be idle before onChange fires.
const DefaultQuietPeriod = 150 * time.Millisecond

// File suffixes editors and OSes leave behind.
var ignoreSuffixes = []string{".swp", ".swx", ".tmp", "~", ".DS_Store"}

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw      *fsnotify.Watcher
	done    chan struct{}
	stopped bool
	mu      sync.Mutex
	timer   *time.Timer
	last    string

	accept func(name string) bool
	quiet  time.Duration
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithFilter limits callbacks to files whose base name satisfies accept.
func WithFilter(accept func(name string) bool) Option {
	return func(w *Watcher) { w.accept = accept }
}

// WithQuietPeriod overrides DefaultQuietPeriod.
func WithQuietPeriod(d time.Duration) Option {
	return func(w *Watcher) { w.quiet = d }
}

// NewWatcher creates a new file system watcher.
func NewWatcher(opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fw:     fw,
		done:   make(chan struct{}),
		accept: func(string) bool { return true },
		quiet:  DefaultQuietPeriod,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch starts monitoring dir (not recursively). onChange is called with
// the absolute path of the last changed file of each burst.
func (w *Watcher) Watch(dir string, onChange func(filePath string)) error {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if err := w.fw.Add(absPath); err != nil {
		return err
	}

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				if shouldIgnorePath(event.Name) || !w.accept(filepath.Base(event.Name)) {
					continue
				}
				w.schedule(event.Name, onChange)

			case _, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// Errors are swallowed; fsnotify recovers automatically

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// schedule (re)arms the quiet-period timer for path.
func (w *Watcher) schedule(path string, onChange func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.last = path
	if w.timer != nil {
		w.timer.Reset(w.quiet)
		return
	}
	w.timer = time.AfterFunc(w.quiet, func() {
		w.mu.Lock()
		if w.stopped {
			w.mu.Unlock()
			return
		}
		p := w.last
		w.mu.Unlock()
		onChange(p)
	})
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.done)
	return w.fw.Close()
}

// shouldIgnorePath returns true for editor swap files and dotfiles.
func shouldIgnorePath(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	for _, suffix := range ignoreSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return false
}
