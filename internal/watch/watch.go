// Package watch rebuilds the site whenever its input changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/tapsite/internal/logfields"
)

// DefaultDebounce is the quiet period after the last event before a rebuild.
const DefaultDebounce = 300 * time.Millisecond

var errWatcherClosed = errors.New("file watcher closed")

// BuildFunc performs one full build.
type BuildFunc func(ctx context.Context) error

// Options configures Run.
type Options struct {
	Root     string
	Debounce time.Duration
	// Ignore lists paths whose events never trigger a rebuild, typically the
	// output directory. Anything below an ignored directory is ignored too.
	Ignore []string
	// IgnoreFiles lists generated files such as the metrics textfile. Their
	// temporary siblings are ignored as well.
	IgnoreFiles []string
	Build       BuildFunc
	Logger      *slog.Logger
}

// Run watches Root recursively and calls Build after each burst of changes.
// Builds never overlap; changes arriving during a build cause exactly one
// more build. Build failures are logged and watching continues. Run returns
// nil once ctx is canceled, after any running build has finished.
func Run(ctx context.Context, opts Options) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	w := &loop{
		watcher:     watcher,
		ignore:      absPaths(opts.Ignore),
		ignoreFiles: absPaths(opts.IgnoreFiles),
		logger:      opts.Logger,
	}
	w.addDirsRecursive(root)

	rebuildReq, trigger, stop := setupRebuildDebouncer(opts.Debounce)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rebuildWorker(ctx, rebuildReq, opts)
		return nil
	})
	g.Go(func() error {
		opts.Logger.Info("Watching for changes", logfields.Root(root))
		for {
			select {
			case <-ctx.Done():
				opts.Logger.Info("Stopped watching")
				return nil
			case ev, ok := <-watcher.Events:
				if !ok {
					return errWatcherClosed
				}
				w.handleEvent(ev, trigger)
			case err, ok := <-watcher.Errors:
				if !ok {
					return errWatcherClosed
				}
				opts.Logger.Warn("Watcher error", logfields.Error(err))
			}
		}
	})
	return g.Wait()
}

type loop struct {
	watcher     *fsnotify.Watcher
	ignore      []string
	ignoreFiles []string
	logger      *slog.Logger
}

func absPaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			out = append(out, abs)
		}
	}
	return out
}

func (l *loop) handleEvent(ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) || l.ignored(ev.Name) {
		return
	}
	if ev.Op.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			l.addDirsRecursive(ev.Name)
		}
	}
	l.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func (l *loop) ignored(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, p := range l.ignore {
		if abs == p || strings.HasPrefix(abs, p+string(filepath.Separator)) {
			return true
		}
	}
	// temp files written next to the target before an atomic rename
	for _, p := range l.ignoreFiles {
		if filepath.Dir(abs) == filepath.Dir(p) && strings.HasPrefix(filepath.Base(abs), filepath.Base(p)) {
			return true
		}
	}
	return false
}

func (l *loop) addDirsRecursive(root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && (strings.HasPrefix(d.Name(), ".") || l.ignored(path)) {
			return filepath.SkipDir
		}
		if err := l.watcher.Add(path); err != nil {
			l.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// setupRebuildDebouncer returns the rebuild channel and a trigger that fires
// it once events have been quiet for d. The channel holds at most one request.
func setupRebuildDebouncer(d time.Duration) (chan struct{}, func(), func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return rebuildReq, trigger, stop
}

// rebuildWorker runs builds one at a time. A request arriving mid-build
// waits in the channel, so bursts collapse into a single follow-up build.
func rebuildWorker(ctx context.Context, rebuildReq <-chan struct{}, opts Options) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-rebuildReq:
			opts.Logger.Info("Change detected; rebuilding site")
			if err := opts.Build(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				opts.Logger.Warn("Rebuild failed", logfields.Error(err))
			}
		}
	}
}

// shouldIgnoreEvent returns true for filesystem events that should not trigger rebuilds.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	// hidden files, including .#lock files
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}
