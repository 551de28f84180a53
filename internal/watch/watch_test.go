package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/rhomel/duskblog/internal/watch"
)

func waitCall(c *qt.C, calls <-chan struct{}, what string) {
	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		c.Fatalf("timed out waiting for %s", what)
	}
}

func TestWatcher_RunsOnStartAndChange(t *testing.T) {
	c := qt.New(t)
	dir := c.TempDir()
	c.Assert(os.MkdirAll(filepath.Join(dir, "posts"), 0o755), qt.IsNil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 16)
	done := make(chan error, 1)
	w := &watch.Watcher{Dirs: []string{dir}, Debounce: 20 * time.Millisecond}
	go func() {
		done <- w.Run(ctx, func() { calls <- struct{}{} })
	}()

	waitCall(c, calls, "initial run")
	c.Assert(os.WriteFile(filepath.Join(dir, "posts", "a.md"), []byte("# A\n"), 0o644), qt.IsNil)
	waitCall(c, calls, "run after change")

	cancel()
	select {
	case err := <-done:
		c.Assert(err, qt.IsNil)
	case <-time.After(5 * time.Second):
		c.Fatal("watcher did not stop")
	}
}

func TestWatcher_Skip(t *testing.T) {
	c := qt.New(t)
	dir := c.TempDir()
	out := filepath.Join(dir, "public")
	c.Assert(os.MkdirAll(out, 0o755), qt.IsNil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 16)
	w := &watch.Watcher{
		Dirs:     []string{dir},
		Debounce: 20 * time.Millisecond,
		Skip:     func(path string) bool { return strings.HasPrefix(path, out) },
	}
	go func() { _ = w.Run(ctx, func() { calls <- struct{}{} }) }()

	waitCall(c, calls, "initial run")
	c.Assert(os.WriteFile(filepath.Join(out, "index.html"), []byte("x"), 0o644), qt.IsNil)
	select {
	case <-calls:
		c.Fatal("change in skipped directory triggered a run")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_RunsDoNotOverlap(t *testing.T) {
	c := qt.New(t)
	dir := c.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var inFlight, maxInFlight, runs atomic.Int32
	started := make(chan struct{}, 16)
	fn := func() {
		n := inFlight.Add(1)
		for {
			m := maxInFlight.Load()
			if n <= m || maxInFlight.CompareAndSwap(m, n) {
				break
			}
		}
		runs.Add(1)
		started <- struct{}{}
		time.Sleep(150 * time.Millisecond)
		inFlight.Add(-1)
	}

	done := make(chan error, 1)
	w := &watch.Watcher{Dirs: []string{dir}, Debounce: 10 * time.Millisecond}
	go func() { done <- w.Run(ctx, fn) }()

	waitCall(c, started, "initial run")
	write := func(name string) {
		c.Assert(os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644), qt.IsNil)
	}
	write("a.md")
	waitCall(c, started, "run after change")
	// Changes during a run queue one more run instead of starting another.
	write("b.md")
	time.Sleep(40 * time.Millisecond)
	write("c.md")
	waitCall(c, started, "queued run")

	cancel()
	select {
	case err := <-done:
		c.Assert(err, qt.IsNil)
	case <-time.After(5 * time.Second):
		c.Fatal("watcher did not stop")
	}
	c.Assert(inFlight.Load(), qt.Equals, int32(0))
	c.Assert(maxInFlight.Load(), qt.Equals, int32(1))
	c.Assert(runs.Load() >= 3, qt.IsTrue)
}
