package watch

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-localize/internal/logging"
	"github.com/goliatone/go-localize/pkg/interfaces"
)

// DefaultDebounce batches editor save bursts into a single change set.
const DefaultDebounce = 200 * time.Millisecond

// ErrWatchActive reports a second Watch call on a watcher already running.
var ErrWatchActive = errors.New("watch: watcher already active")

// ErrDirRequired reports a watcher configured without a directory.
var ErrDirRequired = errors.New("watch: directory is required")

// Source abstracts the filesystem notification backend so tests can drive the
// watcher with synthetic events.
type Source interface {
	Events() <-chan fsnotify.Event
	Errors() <-chan error
	Add(path string) error
	Close() error
}

type fsnotifySource struct {
	watcher *fsnotify.Watcher
}

func newFSNotifySource() (Source, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &fsnotifySource{watcher: watcher}, nil
}

func (s *fsnotifySource) Events() <-chan fsnotify.Event { return s.watcher.Events }
func (s *fsnotifySource) Errors() <-chan error          { return s.watcher.Errors }
func (s *fsnotifySource) Add(path string) error         { return s.watcher.Add(path) }
func (s *fsnotifySource) Close() error                  { return s.watcher.Close() }

// Config shapes a locale-data directory watcher.
type Config struct {
	// Dir is the locale data directory to observe. Only top-level files count;
	// the scan that consumes change sets is not recursive either.
	Dir string
	// Extensions filters events to recognised locale data files.
	Extensions []string
	// Debounce is the quiet period before a batch of events is delivered.
	Debounce time.Duration
}

// Option configures a DirWatcher.
type Option func(*DirWatcher)

// WithLogger overrides the watcher logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(w *DirWatcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithSource replaces the notification backend. Used by tests to feed
// synthetic events without touching the filesystem.
func WithSource(factory func() (Source, error)) Option {
	return func(w *DirWatcher) {
		if factory != nil {
			w.newSource = factory
		}
	}
}

// DirWatcher delivers debounced locale-data change sets from an fsnotify
// watch on the data directory.
type DirWatcher struct {
	cfg       Config
	logger    interfaces.Logger
	newSource func() (Source, error)

	mu     sync.Mutex
	source Source
	cancel context.CancelFunc
}

// New constructs a DirWatcher for the locale data directory.
func New(cfg Config, opts ...Option) *DirWatcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".yml", ".yaml", ".toml"}
	}

	w := &DirWatcher{
		cfg:       cfg,
		logger:    logging.NoOp(),
		newSource: newFSNotifySource,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

var _ interfaces.LocaleDataWatcher = (*DirWatcher)(nil)

// Watch begins observing the directory. The returned channel closes when the
// context is cancelled or Close is called.
func (w *DirWatcher) Watch(ctx context.Context) (<-chan interfaces.ChangeSet, error) {
	if strings.TrimSpace(w.cfg.Dir) == "" {
		return nil, ErrDirRequired
	}
	if ctx == nil {
		ctx = context.Background()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.source != nil {
		return nil, ErrWatchActive
	}

	source, err := w.newSource()
	if err != nil {
		return nil, err
	}
	if err := source.Add(w.cfg.Dir); err != nil {
		source.Close()
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.source = source
	w.cancel = cancel

	out := make(chan interfaces.ChangeSet, 1)
	go w.run(runCtx, source, out)

	w.logger.Debug("watch.started", "dir", w.cfg.Dir, "debounce", w.cfg.Debounce)
	return out, nil
}

// Close stops the active watch and releases the notification backend.
func (w *DirWatcher) Close() error {
	w.mu.Lock()
	source, cancel := w.source, w.cancel
	w.source, w.cancel = nil, nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if source != nil {
		return source.Close()
	}
	return nil
}

func (w *DirWatcher) run(ctx context.Context, source Source, out chan<- interfaces.ChangeSet) {
	defer close(out)

	pending := newPendingChanges()
	timer := time.NewTimer(w.cfg.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	timerArmed := false

	deliver := func() bool {
		changes := pending.drain()
		timerArmed = false
		if changes.Empty() {
			return true
		}
		w.logger.Debug("watch.changes",
			"updated", len(changes.Updated),
			"removed", len(changes.Removed),
		)
		select {
		case out <- changes:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-source.Events():
			if !ok {
				deliver()
				return
			}
			rel, ok := w.relevant(event.Name)
			if !ok {
				continue
			}
			switch {
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				pending.remove(rel)
			case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
				pending.update(rel)
			default:
				continue
			}
			if timerArmed && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.cfg.Debounce)
			timerArmed = true

		case <-timer.C:
			if !deliver() {
				return
			}

		case err, ok := <-source.Errors():
			if !ok {
				continue
			}
			if err != nil {
				w.logger.Warn("watch.error", "error", err)
			}
		}
	}
}

// relevant filters events down to top-level locale data files and returns the
// path relative to the watched directory.
func (w *DirWatcher) relevant(name string) (string, bool) {
	base := filepath.Base(name)
	ext := strings.ToLower(filepath.Ext(base))
	if ext == "" || strings.TrimSuffix(base, ext) == "" {
		return "", false
	}

	found := false
	for _, candidate := range w.cfg.Extensions {
		if ext == strings.ToLower(strings.TrimSpace(candidate)) {
			found = true
			break
		}
	}
	if !found {
		return "", false
	}

	if rel, err := filepath.Rel(w.cfg.Dir, name); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel), true
	}
	return base, true
}

// pendingChanges coalesces events between flushes. The latest operation per
// path wins: an update followed by a remove reports only the remove.
type pendingChanges struct {
	updated map[string]struct{}
	removed map[string]struct{}
}

func newPendingChanges() *pendingChanges {
	return &pendingChanges{
		updated: make(map[string]struct{}),
		removed: make(map[string]struct{}),
	}
}

func (p *pendingChanges) update(path string) {
	delete(p.removed, path)
	p.updated[path] = struct{}{}
}

func (p *pendingChanges) remove(path string) {
	delete(p.updated, path)
	p.removed[path] = struct{}{}
}

func (p *pendingChanges) drain() interfaces.ChangeSet {
	changes := interfaces.ChangeSet{
		Updated: sortedKeys(p.updated),
		Removed: sortedKeys(p.removed),
	}
	p.updated = make(map[string]struct{})
	p.removed = make(map[string]struct{})
	return changes
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
