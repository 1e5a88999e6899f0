package watch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-localize/pkg/interfaces"
)

type fakeSource struct {
	mu     sync.Mutex
	events chan fsnotify.Event
	errs   chan error
	added  []string
	closed bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		events: make(chan fsnotify.Event, 16),
		errs:   make(chan error, 1),
	}
}

func (s *fakeSource) Events() <-chan fsnotify.Event { return s.events }
func (s *fakeSource) Errors() <-chan error          { return s.errs }

func (s *fakeSource) Add(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.added = append(s.added, path)
	return nil
}

func (s *fakeSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.events)
	}
	return nil
}

func (s *fakeSource) emit(name string, op fsnotify.Op) {
	s.events <- fsnotify.Event{Name: name, Op: op}
}

func newTestWatcher(tb testing.TB, debounce time.Duration) (*DirWatcher, *fakeSource, <-chan interfaces.ChangeSet) {
	tb.Helper()

	source := newFakeSource()
	watcher := New(Config{Dir: "locales", Debounce: debounce}, WithSource(func() (Source, error) {
		return source, nil
	}))
	tb.Cleanup(func() { watcher.Close() })

	changes, err := watcher.Watch(context.Background())
	if err != nil {
		tb.Fatalf("Watch: %v", err)
	}
	if len(source.added) != 1 || source.added[0] != "locales" {
		tb.Fatalf("expected watch on locales, got %v", source.added)
	}
	return watcher, source, changes
}

func recvChanges(tb testing.TB, ch <-chan interfaces.ChangeSet) interfaces.ChangeSet {
	tb.Helper()
	select {
	case changes, ok := <-ch:
		if !ok {
			tb.Fatal("change channel closed before delivery")
		}
		return changes
	case <-time.After(2 * time.Second):
		tb.Fatal("timed out waiting for change set")
	}
	return interfaces.ChangeSet{}
}

func expectClosed(tb testing.TB, ch <-chan interfaces.ChangeSet) {
	tb.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			tb.Fatal("timed out waiting for channel close")
		}
	}
}

func TestDirWatcher_CoalescesEvents(t *testing.T) {
	_, source, changes := newTestWatcher(t, 50*time.Millisecond)

	source.emit("locales/en.yml", fsnotify.Create)
	source.emit("locales/en.yml", fsnotify.Write)
	source.emit("locales/fr.toml", fsnotify.Write)
	source.emit("locales/notes.md", fsnotify.Write)
	source.emit("locales/en.yml", fsnotify.Chmod)

	got := recvChanges(t, changes)
	wantUpdated := []string{"en.yml", "fr.toml"}
	if len(got.Updated) != len(wantUpdated) {
		t.Fatalf("expected updated %v, got %v", wantUpdated, got.Updated)
	}
	for i, path := range wantUpdated {
		if got.Updated[i] != path {
			t.Fatalf("expected updated %v, got %v", wantUpdated, got.Updated)
		}
	}
	if len(got.Removed) != 0 {
		t.Fatalf("expected no removals, got %v", got.Removed)
	}

	source.emit("locales/fr.toml", fsnotify.Remove)
	got = recvChanges(t, changes)
	if len(got.Removed) != 1 || got.Removed[0] != "fr.toml" {
		t.Fatalf("expected fr.toml removal, got %v", got.Removed)
	}
}

func TestDirWatcher_LastOperationWins(t *testing.T) {
	_, source, changes := newTestWatcher(t, 50*time.Millisecond)

	source.emit("locales/en.yml", fsnotify.Write)
	source.emit("locales/en.yml", fsnotify.Remove)
	source.emit("locales/fr.yml", fsnotify.Remove)
	source.emit("locales/fr.yml", fsnotify.Create)

	got := recvChanges(t, changes)
	if len(got.Updated) != 1 || got.Updated[0] != "fr.yml" {
		t.Fatalf("expected fr.yml update, got %v", got.Updated)
	}
	if len(got.Removed) != 1 || got.Removed[0] != "en.yml" {
		t.Fatalf("expected en.yml removal, got %v", got.Removed)
	}
}

func TestDirWatcher_RenameReportsRemoval(t *testing.T) {
	_, source, changes := newTestWatcher(t, 20*time.Millisecond)

	source.emit("locales/es.yaml", fsnotify.Rename)

	got := recvChanges(t, changes)
	if len(got.Removed) != 1 || got.Removed[0] != "es.yaml" {
		t.Fatalf("expected es.yaml removal, got %v", got.Removed)
	}
}

func TestDirWatcher_ContextCancelClosesChannel(t *testing.T) {
	source := newFakeSource()
	watcher := New(Config{Dir: "locales", Debounce: 20 * time.Millisecond}, WithSource(func() (Source, error) {
		return source, nil
	}))
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	changes, err := watcher.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	cancel()
	expectClosed(t, changes)
}

func TestDirWatcher_CloseClosesChannel(t *testing.T) {
	watcher, source, changes := newTestWatcher(t, 20*time.Millisecond)

	if err := watcher.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	expectClosed(t, changes)
	if !source.closed {
		t.Fatal("expected backend close")
	}

	// A closed watcher can start a fresh watch.
	if _, err := watcher.Watch(context.Background()); err != nil {
		t.Fatalf("rewatch after close: %v", err)
	}
}

func TestDirWatcher_SecondWatchRejected(t *testing.T) {
	watcher, _, _ := newTestWatcher(t, 20*time.Millisecond)

	if _, err := watcher.Watch(context.Background()); !errors.Is(err, ErrWatchActive) {
		t.Fatalf("expected ErrWatchActive, got %v", err)
	}
}

func TestDirWatcher_RequiresDir(t *testing.T) {
	watcher := New(Config{})
	if _, err := watcher.Watch(context.Background()); !errors.Is(err, ErrDirRequired) {
		t.Fatalf("expected ErrDirRequired, got %v", err)
	}
}

func TestBroadcaster_FanOut(t *testing.T) {
	broadcaster := NewBroadcaster()
	defer broadcaster.Close()

	ctx := context.Background()
	first, err := broadcaster.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	second, err := broadcaster.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	broadcaster.Broadcast(interfaces.ChangeSet{Updated: []string{"en.yml"}})

	for _, ch := range []<-chan interfaces.ChangeSet{first, second} {
		got := recvChanges(t, ch)
		if len(got.Updated) != 1 || got.Updated[0] != "en.yml" {
			t.Fatalf("expected en.yml update, got %v", got.Updated)
		}
	}
}

func TestBroadcaster_EmptyChangeSetSkipped(t *testing.T) {
	broadcaster := NewBroadcaster()
	defer broadcaster.Close()

	sub, err := broadcaster.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	broadcaster.Broadcast(interfaces.ChangeSet{})

	select {
	case changes := <-sub:
		t.Fatalf("expected no delivery, got %v", changes)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcaster_CancelledSubscription(t *testing.T) {
	broadcaster := NewBroadcaster()
	defer broadcaster.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sub, err := broadcaster.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if _, ok := <-sub; ok {
		t.Fatal("expected closed channel for cancelled context")
	}
}

func TestBroadcaster_CloseClosesSubscribers(t *testing.T) {
	broadcaster := NewBroadcaster()

	sub, err := broadcaster.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	broadcaster.Close()
	expectClosed(t, sub)

	late, err := broadcaster.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("Subscribe after close: %v", err)
	}
	if _, ok := <-late; ok {
		t.Fatal("expected closed channel after broadcaster close")
	}
}
