// Package notify provides in-process change notification for state holders.
package notify

import "sync"

// DropFunc is called when an event could not be delivered to a subscriber
// whose buffer was full.
type DropFunc func()

// Broadcaster fans events out to subscribers. Publish never blocks: a
// subscriber that is not keeping up misses events rather than stalling the
// publisher.
type Broadcaster[T any] struct {
	mu     sync.RWMutex
	subs   map[uint64]chan T
	nextID uint64
	closed bool
	onDrop DropFunc
}

// New creates a Broadcaster. onDrop may be nil.
func New[T any](onDrop DropFunc) *Broadcaster[T] {
	return &Broadcaster[T]{
		subs:   make(map[uint64]chan T),
		onDrop: onDrop,
	}
}

// Subscribe registers a subscriber with the given channel buffer. The
// returned cancel func unregisters it and closes the channel; it is safe
// to call more than once.
func (b *Broadcaster[T]) Subscribe(buffer int) (<-chan T, func()) {
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan T, buffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

// Publish delivers ev to every subscriber that has buffer room.
func (b *Broadcaster[T]) Publish(ev T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			if b.onDrop != nil {
				b.onDrop()
			}
		}
	}
}

// Close closes every subscriber channel. Later subscriptions receive an
// already-closed channel and later publishes are discarded.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
}
