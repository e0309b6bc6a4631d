package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SchemaVersion is stored in PRAGMA user_version. Any mismatch with an
// existing database drops and recreates every table.
const SchemaVersion = 3

type DB struct {
	*sql.DB
	broker *Broker
}

func New(dbPath string) (*DB, error) {
	// Ensure directory exists
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Per-connection pragmas go in the DSN
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is its own database
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(8)
		db.SetMaxIdleConns(2)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &DB{DB: db, broker: NewBroker()}, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS notes (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		is_pinned INTEGER NOT NULL DEFAULT 0,
		is_archived INTEGER NOT NULL DEFAULT 0,
		tags TEXT NOT NULL DEFAULT '',
		color INTEGER NOT NULL DEFAULT 0,
		weather TEXT,
		location TEXT,
		weather_icon TEXT,
		image_url TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		email TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		password TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_notes_archived_updated ON notes(is_archived, updated_at)`,
	`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
}

var dropSchema = []string{
	`DROP TABLE IF EXISTS notes`,
	`DROP TABLE IF EXISTS users`,
}

// Migrate brings the schema to SchemaVersion. Upgrades are destructive:
// a database at any other non-zero version loses all of its data.
func (db *DB) Migrate() error {
	return db.migrateTo(SchemaVersion)
}

func (db *DB) migrateTo(version int) error {
	current, err := db.UserVersion()
	if err != nil {
		return err
	}

	if current == version {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	defer tx.Rollback()

	if current != 0 {
		for _, query := range dropSchema {
			if _, err := tx.Exec(query); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
		}
	}

	for _, query := range schema {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	// PRAGMA does not accept bound parameters
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return fmt.Errorf("failed to set schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if current != 0 {
		db.broker.Publish(TableNotes)
		db.broker.Publish(TableUsers)
	}
	return nil
}

// UserVersion reports the schema version recorded in the database file.
func (db *DB) UserVersion() (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// Reset drops every table and recreates the current schema.
func (db *DB) Reset() error {
	for _, query := range dropSchema {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
	}
	if _, err := db.Exec("PRAGMA user_version = 0"); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	if err := db.Migrate(); err != nil {
		return err
	}
	db.broker.Publish(TableNotes)
	db.broker.Publish(TableUsers)
	return nil
}

// Broker returns the change broker that live queries listen on.
func (db *DB) Broker() *Broker {
	return db.broker
}

func (db *DB) Close() error {
	db.broker.Close()
	return db.DB.Close()
}
