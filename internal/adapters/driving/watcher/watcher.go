package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/pagesearch/internal/core/ports/driving"
	"github.com/custodia-labs/pagesearch/internal/logger"
)

// DefaultQuietPeriod is how long the watcher waits for further events
// before applying a batch.
const DefaultQuietPeriod = 300 * time.Millisecond

// Source is the content tree being watched.
type Source interface {
	// Root returns the content root directory.
	Root() string

	// Reload rescans the tree.
	Reload(ctx context.Context) error

	// Locate maps a page file to its route. ok is false for other files.
	Locate(file string) (route string, ok bool)
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithQuietPeriod sets the batching window.
func WithQuietPeriod(d time.Duration) Option {
	return func(w *Watcher) {
		w.quiet = d
	}
}

// WithRateLimit caps how often batches are applied.
func WithRateLimit(every time.Duration, burst int) Option {
	return func(w *Watcher) {
		w.limiter = rate.NewLimiter(rate.Every(every), burst)
	}
}

// Watcher applies content changes to the index.
type Watcher struct {
	source    Source
	index     driving.IndexService
	languages []string
	quiet     time.Duration
	limiter   *rate.Limiter

	mu      sync.Mutex
	pending batch
}

// batch is the set of changes collected during one quiet period.
type batch struct {
	routes  map[string]struct{}
	rebuild bool
}

func (b *batch) empty() bool {
	return !b.rebuild && len(b.routes) == 0
}

// New creates a watcher. languages are the index languages every changed
// route is refreshed in.
func New(source Source, index driving.IndexService, languages []string, opts ...Option) *Watcher {
	w := &Watcher{
		source:    source,
		index:     index,
		languages: languages,
		quiet:     DefaultQuietPeriod,
		limiter:   rate.NewLimiter(rate.Every(time.Second), 2),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is cancelled. Errors while applying a batch are
// logged; only setup failures are returned.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	root := w.source.Root()
	if err := addTree(fsw, root); err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	logger.Info("Watching %s", root)

	timer := time.NewTimer(w.quiet)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.record(fsw, event) {
				timer.Reset(w.quiet)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)

		case <-timer.C:
			if err := w.limiter.Wait(ctx); err != nil {
				return nil
			}
			if err := w.Flush(ctx); err != nil {
				logger.Error("Applying changes: %v", err)
			}
		}
	}
}

// record adds event to the pending batch and reports whether it matters.
func (w *Watcher) record(fsw *fsnotify.Watcher, event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}
	logger.Debug("Event: %s", event)

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := addTree(fsw, event.Name); err != nil {
				logger.Warn("Watch %s: %v", event.Name, err)
			}
			w.markRebuild()
			return true
		}
	}

	if route, ok := w.source.Locate(event.Name); ok {
		w.Notify(route)
		return true
	}

	// A removed or renamed folder cannot be stat'ed any more.
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		if filepath.Ext(event.Name) == "" && !hidden(w.source.Root(), event.Name) {
			w.markRebuild()
			return true
		}
	}
	return false
}

// Notify queues route for re-indexing with the next batch.
func (w *Watcher) Notify(route string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending.routes == nil {
		w.pending.routes = make(map[string]struct{})
	}
	w.pending.routes[route] = struct{}{}
}

func (w *Watcher) markRebuild() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending.rebuild = true
}

// Flush applies the pending batch: the source is reloaded, then either the
// whole index is rebuilt or every queued route is upserted in every index
// language. Per-route failures are joined.
func (w *Watcher) Flush(ctx context.Context) error {
	w.mu.Lock()
	b := w.pending
	w.pending = batch{}
	w.mu.Unlock()

	if b.empty() {
		return nil
	}

	if err := w.source.Reload(ctx); err != nil {
		return fmt.Errorf("reload content: %w", err)
	}

	if b.rebuild {
		report, err := w.index.Build(ctx)
		if err != nil {
			return fmt.Errorf("rebuild index: %w", err)
		}
		logger.Info("Rebuilt index: %d records", report.Records)
		return nil
	}

	routes := make([]string, 0, len(b.routes))
	for route := range b.routes {
		routes = append(routes, route)
	}
	slices.Sort(routes)

	var errs []error
	for _, route := range routes {
		for _, lang := range w.languages {
			if err := w.index.Upsert(ctx, route, lang); err != nil {
				errs = append(errs, fmt.Errorf("%s (%s): %w", route, lang, err))
			}
		}
	}
	logger.Info("Updated %d routes", len(routes))
	return errors.Join(errs...)
}

// addTree watches dir and every non-hidden folder below it.
func addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}

func hidden(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return true
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") && part != "." {
			return true
		}
	}
	return false
}
