package database

import (
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrDuplicateUser is returned when a user with the same email already exists.
	ErrDuplicateUser = errors.New("user already exists")
	// ErrNoteNotFound is returned by narrow updates that matched no row.
	ErrNoteNotFound = errors.New("note not found")
)

// Repository is the data-access object for notes and users.
// It is created from a DB and shares its lifetime.
type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// DB returns the underlying database container.
func (r *Repository) DB() *DB {
	return r.db
}

// PasswordMatches compares a stored password with a login attempt.
// Passwords are kept in plain text; swap this for a hash check to change that.
func PasswordMatches(stored, attempt string) bool {
	return stored == attempt
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// likePattern escapes LIKE wildcards so query matches as a plain substring.
func likePattern(query string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(query) + "%"
}
