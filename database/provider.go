package database

import (
	"errors"
	"log/slog"
	"sync"
)

// ErrProviderClosed is returned by Get after Close.
var ErrProviderClosed = errors.New("database provider closed")

// Provider hands out a single lazily opened DB. The first call to Get opens
// and migrates the database; concurrent callers wait for it and all receive
// the same handle (or the same error).
type Provider struct {
	path   string
	logger *slog.Logger

	once sync.Once
	db   *DB
	err  error

	mu     sync.Mutex
	closed bool
}

func NewProvider(path string, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{path: path, logger: logger}
}

func (p *Provider) Get() (*DB, error) {
	p.once.Do(func() {
		db, err := New(p.path)
		if err != nil {
			p.err = err
			return
		}

		if err := db.Migrate(); err != nil {
			db.Close()
			p.err = err
			return
		}

		db.Broker().SetLogger(p.logger)
		p.logger.Info("database initialized", "path", p.path, "schema_version", SchemaVersion)
		p.db = db
	})

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrProviderClosed
	}
	return p.db, p.err
}

// Close closes the database if it was ever opened. A provider that was never
// used is marked closed without touching the file. Get fails with
// ErrProviderClosed afterwards either way.
func (p *Provider) Close() error {
	// Waits for an in-flight open, or makes sure none will start
	p.once.Do(func() {})

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	db := p.db
	p.mu.Unlock()

	if db == nil {
		return nil
	}
	return db.Close()
}
