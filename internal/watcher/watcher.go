// Package watcher reports debounced changes to a set of files.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/bpgroup/internal/log"
)

// Watcher monitors files and sends a path once its changes settle.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	paths     map[string]string // cleaned absolute path -> path as given
	debounce  time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer

	fired    chan string
	onChange chan string
	done     chan struct{}
	stopOnce sync.Once
}

// Config holds watcher configuration options.
type Config struct {
	Paths       []string
	DebounceDur time.Duration
}

// DefaultConfig returns a config for paths with a 100ms debounce.
func DefaultConfig(paths ...string) Config {
	return Config{
		Paths:       paths,
		DebounceDur: 100 * time.Millisecond,
	}
}

// New creates a watcher for the configured files.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Paths) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	paths := make(map[string]string, len(cfg.Paths))
	for _, p := range cfg.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		paths[filepath.Clean(abs)] = p
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		paths:     paths,
		debounce:  cfg.DebounceDur,
		timers:    make(map[string]*time.Timer),
		fired:     make(chan string, len(paths)),
		onChange:  make(chan string, len(paths)),
		done:      make(chan struct{}),
	}, nil
}

// Start watches the directories holding the files. Editors and atomic
// writers replace files by rename, so watching the file itself would
// lose track of it. The returned channel yields paths as they were given
// to Config.
func (w *Watcher) Start() (<-chan string, error) {
	dirs := make(map[string]bool)
	for abs := range w.paths {
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			return nil, fmt.Errorf("watching directory %s: %w", dir, err)
		}
		log.Debug(log.CatWatcher, "watching directory", "dir", dir)
	}

	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources. It is safe to call
// more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		for _, t := range w.timers {
			t.Stop()
		}
		w.mu.Unlock()
		err = w.fsWatcher.Close()
	})
	return err
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if abs, ok := w.relevant(event); ok {
				w.schedule(abs)
			}

		case abs := <-w.fired:
			w.mu.Lock()
			delete(w.timers, abs)
			w.mu.Unlock()
			log.Debug(log.CatWatcher, "file changed", "path", w.paths[abs])
			select {
			case w.onChange <- w.paths[abs]:
			case <-w.done:
				return
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Warn(log.CatWatcher, "watch error", "error", err)

		case <-w.done:
			return
		}
	}
}

// schedule starts or restarts the debounce timer for abs.
func (w *Watcher) schedule(abs string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[abs]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[abs] = time.AfterFunc(w.debounce, func() {
		select {
		case w.fired <- abs:
		case <-w.done:
		}
	})
}

// relevant reports whether event touches a watched file.
func (w *Watcher) relevant(event fsnotify.Event) (string, bool) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return "", false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return "", false
	}
	abs = filepath.Clean(abs)
	_, ok := w.paths[abs]
	return abs, ok
}
