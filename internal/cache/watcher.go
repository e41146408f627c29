package cache

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/westy/filemaster/internal/logging"
)

// Watcher invalidates cache prefixes when watched directories change on
// disk outside of our own operations (another process writing to the same
// mount, typical on a shared set-top box).
type Watcher struct {
	cache   *LRU
	watcher *fsnotify.Watcher
	logger  *logging.Logger
}

// NewWatcher creates a watcher bound to the given cache.
func NewWatcher(c *LRU, logger *logging.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{cache: c, watcher: fw, logger: logger}, nil
}

// Watch adds a directory to the watch set. Watching is non-recursive, which
// matches the cache's use: panes only cache entries for directories they
// have displayed, and each displayed directory is added here.
func (w *Watcher) Watch(dir string) error {
	return w.watcher.Add(dir)
}

// Unwatch removes a directory from the watch set.
func (w *Watcher) Unwatch(dir string) error {
	return w.watcher.Remove(dir)
}

// Run processes filesystem events until ctx is cancelled. Every create,
// remove, rename or write drops the affected path and its parent directory
// prefix from the cache.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) == 0 {
				continue
			}
			w.cache.Invalidate(ev.Name)
			w.cache.InvalidatePrefix(filepath.Dir(ev.Name) + string(filepath.Separator))
			w.cache.Invalidate(filepath.Dir(ev.Name))
			if w.logger != nil {
				w.logger.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("cache invalidated by fs event")
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Warn().Err(err).Msg("fs watcher error")
			}
		}
	}
}

// Close releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
