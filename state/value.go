package state

import (
	"context"
	"sync"
)

// Value is an observable value. Subscribers always see the newest value;
// intermediate values are skipped for slow readers.
type Value[T any] struct {
	mu   sync.Mutex
	v    T
	subs map[chan T]struct{}
}

// NewValue creates a Value holding initial
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{v: initial, subs: make(map[chan T]struct{})}
}

// Get returns the current value
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.v
}

// Set stores x and hands it to every subscriber
func (v *Value[T]) Set(x T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.v = x
	for ch := range v.subs {
		offer(ch, x)
	}
}

// Subscribe returns a channel that first yields the current value and then
// every later one. The channel is closed once ctx is done.
func (v *Value[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	v.mu.Lock()
	v.subs[ch] = struct{}{}
	ch <- v.v
	v.mu.Unlock()

	go func() {
		<-ctx.Done()
		v.mu.Lock()
		delete(v.subs, ch)
		close(ch)
		v.mu.Unlock()
	}()

	return ch
}

// offer replaces whatever is pending in ch with x. Only Set sends, and it
// holds the lock, so the second send cannot block.
func offer[T any](ch chan T, x T) {
	select {
	case ch <- x:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- x
}
