package cmd

import (
	"context"
	"os"
	"time"

	"github.com/zjrosen/bpgroup/internal/cachemanager"
	"github.com/zjrosen/bpgroup/internal/log"
	"github.com/zjrosen/bpgroup/internal/watcher"
)

// watch runs every file once, then again whenever one changes, until ctx
// is cancelled. Changes caused by our own writes are skipped.
func watch(ctx context.Context, opts runOptions, files []string, debounce time.Duration) error {
	if opts.ownWrites == nil {
		opts.ownWrites = cachemanager.NewOwnWrites(time.Minute)
	}

	w, err := watcher.New(watcher.Config{Paths: files, DebounceDur: debounce})
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	if err != nil {
		return err
	}

	for _, f := range files {
		runOnce(ctx, opts, f)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case path := <-changes:
			data, err := os.ReadFile(path)
			if err != nil {
				log.Warn(log.CatWatcher, "cannot read changed file", "path", path, "error", err)
				continue
			}
			if opts.ownWrites.IsOwn(ctx, path, string(data)) {
				log.Debug(log.CatWatcher, "skipping own write", "path", path)
				continue
			}
			runOnce(ctx, opts, path)
		}
	}
}

// runOnce processes one file with a fresh runner; failures are already
// reported to stderr, so only the check/summary output matters here.
func runOnce(ctx context.Context, opts runOptions, path string) {
	r := newRunner(opts)
	r.runFile(ctx, path)
	if err := r.finish(); err != nil {
		log.Debug(log.CatWatcher, "run finished with error", "path", path, "error", err)
	}
}
