// Package spool watches a drop directory for incoming ISF bulletin files.
package spool

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	gocache "github.com/patrickmn/go-cache"
)

// Watcher emits the path of each bulletin dropped into a spool directory.
// Editors and network copies fire bursts of write events per file, so
// emissions are debounced per path with a TTL cache.
type Watcher struct {
	dir      string
	debounce time.Duration
	logger   *slog.Logger
	recent   *gocache.Cache
}

// NewWatcher creates a Watcher over dir with the given per-file debounce
// window.
func NewWatcher(dir string, debounce time.Duration, logger *slog.Logger) *Watcher {
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		logger:   logger,
		recent:   gocache.New(debounce, 2*debounce),
	}
}

// Watch begins watching and returns a channel of bulletin paths. Files
// already present in the spool directory are emitted first, then files as
// they arrive. The channel closes when ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context) (<-chan string, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("spool watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("spool watcher add %s: %w", w.dir, err)
	}

	out := make(chan string, 16)
	go func() {
		defer fsw.Close()
		defer close(out)

		w.emitExisting(ctx, out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-fsw.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) {
					w.emit(ctx, out, ev.Name)
				}
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				w.logger.Warn("spool watch error", "error", err)
			}
		}
	}()
	return out, nil
}

// emitExisting queues bulletins that were already waiting in the spool
// directory when the watcher started.
func (w *Watcher) emitExisting(ctx context.Context, out chan<- string) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.logger.Warn("spool initial scan failed", "dir", w.dir, "error", err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		w.emit(ctx, out, filepath.Join(w.dir, entry.Name()))
	}
}

func (w *Watcher) emit(ctx context.Context, out chan<- string, path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	// Add fails when the path was emitted inside the debounce window.
	if err := w.recent.Add(path, struct{}{}, w.debounce); err != nil {
		return
	}
	select {
	case <-ctx.Done():
	case out <- path:
	}
}
