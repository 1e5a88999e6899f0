package watch

import (
	"context"
	"sync"

	"github.com/goliatone/go-localize/pkg/interfaces"
)

// Broadcaster fans change sets out to any number of subscribers. Slow
// subscribers drop batches instead of blocking the watcher; the next reload
// rescans the directory anyway.
type Broadcaster struct {
	mu       sync.Mutex
	watchers map[uint64]chan interfaces.ChangeSet
	nextID   uint64
	closed   bool
}

// NewBroadcaster returns an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		watchers: make(map[uint64]chan interfaces.ChangeSet),
	}
}

// Subscribe registers a change-set channel that closes when the context is
// cancelled or the broadcaster shuts down.
func (b *Broadcaster) Subscribe(ctx context.Context) (<-chan interfaces.ChangeSet, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		ch := make(chan interfaces.ChangeSet)
		close(ch)
		return ch, nil
	}
	ch := make(chan interfaces.ChangeSet, 1)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, nil
	}
	id := b.nextID
	b.nextID++
	b.watchers[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		if _, ok := b.watchers[id]; ok {
			delete(b.watchers, id)
			close(ch)
		}
		b.mu.Unlock()
	}()

	return ch, nil
}

// Broadcast delivers the change set to every live subscriber.
func (b *Broadcaster) Broadcast(changes interfaces.ChangeSet) {
	if changes.Empty() {
		return
	}

	b.mu.Lock()
	watchers := make([]chan interfaces.ChangeSet, 0, len(b.watchers))
	for _, ch := range b.watchers {
		watchers = append(watchers, ch)
	}
	b.mu.Unlock()

	for _, ch := range watchers {
		select {
		case ch <- changes:
		default:
		}
	}
}

// Close shuts the broadcaster down and closes every subscriber channel.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.watchers {
		delete(b.watchers, id)
		close(ch)
	}
}
