package database

import (
	"context"
	"log/slog"
	"sync"
)

// Table names a stored table that live queries can depend on.
type Table string

const (
	TableNotes Table = "notes"
	TableUsers Table = "users"
)

// Broker fans table-change signals out to live query listeners.
// Publish never blocks: each listener has a single pending slot, so bursts
// of writes collapse into one re-query.
type Broker struct {
	mu        sync.Mutex
	listeners map[Table]map[chan struct{}]struct{}
	closed    bool
	logger    *slog.Logger
}

func NewBroker() *Broker {
	return &Broker{
		listeners: make(map[Table]map[chan struct{}]struct{}),
		logger:    slog.Default(),
	}
}

// SetLogger replaces the logger used for failed re-queries.
func (b *Broker) SetLogger(logger *slog.Logger) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if logger != nil {
		b.logger = logger
	}
}

// Listen registers a listener on table. The returned function unregisters it.
// The signal channel is closed when the broker shuts down.
func (b *Broker) Listen(table Table) (<-chan struct{}, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	signal := make(chan struct{}, 1)
	if b.closed {
		close(signal)
		return signal, func() {}
	}

	if b.listeners[table] == nil {
		b.listeners[table] = make(map[chan struct{}]struct{})
	}
	b.listeners[table][signal] = struct{}{}

	var once sync.Once
	return signal, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.listeners[table][signal]; ok {
				delete(b.listeners[table], signal)
				close(signal)
			}
		})
	}
}

// Publish marks table as changed for every current listener.
func (b *Broker) Publish(table Table) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for signal := range b.listeners[table] {
		select {
		case signal <- struct{}{}:
		default:
		}
	}
}

// Listeners returns how many listeners are registered on table.
func (b *Broker) Listeners(table Table) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners[table])
}

func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for table, set := range b.listeners {
		for signal := range set {
			close(signal)
		}
		delete(b.listeners, table)
	}
}

func (b *Broker) log() *slog.Logger {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.logger
}

// watch runs query once, then again after every change to table, and
// delivers results on the returned channel until ctx is done. A subscriber
// that falls behind only ever sees the newest result.
func watch[T any](ctx context.Context, b *Broker, table Table, query func(context.Context) (T, error)) (<-chan T, error) {
	// Register before the first read so no write can slip between them
	signal, stop := b.Listen(table)

	current, err := query(ctx)
	if err != nil {
		stop()
		return nil, err
	}

	out := make(chan T)
	go func() {
		defer close(out)
		defer stop()

		pending := true
		for {
			var send chan<- T
			if pending {
				send = out
			}

			select {
			case <-ctx.Done():
				return
			case send <- current:
				pending = false
			case _, ok := <-signal:
				if !ok {
					return
				}
				result, err := query(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					b.log().Warn("live query refresh failed", "table", string(table), "error", err)
					continue
				}
				current = result
				pending = true
			}
		}
	}()

	return out, nil
}
