// Package watch reruns a function when files under a set of directories
// change.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a change triggers a run.
const DefaultDebounce = 500 * time.Millisecond

// Watcher debounces filesystem events into calls of a single function.
type Watcher struct {
	Dirs     []string
	Debounce time.Duration
	Logger   *slog.Logger
	// Skip reports paths whose events are ignored, such as the output
	// directory.
	Skip func(path string) bool
}

// Run blocks until ctx is done, calling fn once at start and then after
// every burst of changes. Calls never overlap, and Run returns only after
// the current call finishes. Directories created while watching are added.
func (w *Watcher) Run(ctx context.Context, fn func()) error {
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	for _, dir := range w.Dirs {
		w.addTree(watcher, dir, logger)
	}

	fn()

	// Runs happen one at a time on a single worker. A change during a run
	// queues at most one more.
	pending := make(chan struct{}, 1)
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			case <-pending:
				fn()
			}
		}
	}()
	request := func() {
		select {
		case pending <- struct{}{}:
		default:
		}
	}

	var mu sync.Mutex
	var timer *time.Timer
	reset := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, request)
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		close(stop)
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if w.Skip != nil && w.Skip(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				w.addTree(watcher, ev.Name, logger)
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				logger.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
				reset()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		}
	}
}

func (w *Watcher) addTree(watcher *fsnotify.Watcher, root string, logger *slog.Logger) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if w.Skip != nil && w.Skip(path) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			logger.Warn("cannot watch directory", "path", path, "err", err)
		}
		return nil
	})
}
