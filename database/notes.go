package database

import (
	"context"
	"database/sql"
	"everywrite/models"
	"fmt"
)

// ==================== NOTE OPERATIONS ====================

const noteColumns = `id, title, content, created_at, updated_at, is_pinned, is_archived,
	tags, color, weather, location, weather_icon, image_url`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (models.Note, error) {
	var note models.Note
	var weather, location, weatherIcon, imageURL sql.NullString

	err := row.Scan(
		&note.ID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt,
		&note.IsPinned, &note.IsArchived, &note.Tags, &note.Color,
		&weather, &location, &weatherIcon, &imageURL,
	)
	if err != nil {
		return models.Note{}, err
	}

	note.Weather = nullToPtr(weather)
	note.Location = nullToPtr(location)
	note.WeatherIcon = nullToPtr(weatherIcon)
	note.ImageURL = nullToPtr(imageURL)
	return note, nil
}

func nullToPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func ptrToNull(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func (r *Repository) queryNotes(ctx context.Context, query string, args ...any) ([]models.Note, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Initialize with empty slice to avoid returning nil
	notes := make([]models.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	return notes, rows.Err()
}

// ListActiveNotes returns unarchived notes, pinned first, then most recently updated.
func (r *Repository) ListActiveNotes(ctx context.Context) ([]models.Note, error) {
	return r.queryNotes(ctx, `
		SELECT `+noteColumns+`
		FROM notes
		WHERE is_archived = 0
		ORDER BY is_pinned DESC, updated_at DESC, id ASC
	`)
}

// ListArchivedNotes returns archived notes, most recently updated first.
func (r *Repository) ListArchivedNotes(ctx context.Context) ([]models.Note, error) {
	return r.queryNotes(ctx, `
		SELECT `+noteColumns+`
		FROM notes
		WHERE is_archived = 1
		ORDER BY updated_at DESC, id ASC
	`)
}

// SearchNotes returns notes whose title or content contains query.
// Matching is case-insensitive for ASCII letters; wildcards match literally.
func (r *Repository) SearchNotes(ctx context.Context, query string) ([]models.Note, error) {
	pattern := likePattern(query)
	return r.queryNotes(ctx, `
		SELECT `+noteColumns+`
		FROM notes
		WHERE title LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\'
		ORDER BY updated_at DESC, id ASC
	`, pattern, pattern)
}

// WatchActiveNotes is the live form of ListActiveNotes.
func (r *Repository) WatchActiveNotes(ctx context.Context) (<-chan []models.Note, error) {
	return watch(ctx, r.db.broker, TableNotes, r.ListActiveNotes)
}

// WatchArchivedNotes is the live form of ListArchivedNotes.
func (r *Repository) WatchArchivedNotes(ctx context.Context) (<-chan []models.Note, error) {
	return watch(ctx, r.db.broker, TableNotes, r.ListArchivedNotes)
}

// WatchSearch is the live form of SearchNotes.
func (r *Repository) WatchSearch(ctx context.Context, query string) (<-chan []models.Note, error) {
	return watch(ctx, r.db.broker, TableNotes, func(ctx context.Context) ([]models.Note, error) {
		return r.SearchNotes(ctx, query)
	})
}

// GetNote returns the note with id, or nil if there is none.
func (r *Repository) GetNote(ctx context.Context, id string) (*models.Note, error) {
	note, err := scanNote(r.db.QueryRowContext(ctx, `
		SELECT `+noteColumns+`
		FROM notes
		WHERE id = ?
	`, id))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &note, nil
}

// UpsertNote writes note, replacing any stored note with the same id.
func (r *Repository) UpsertNote(ctx context.Context, note *models.Note) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO notes (`+noteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		note.ID, note.Title, note.Content, note.CreatedAt, note.UpdatedAt,
		note.IsPinned, note.IsArchived, note.Tags, note.Color,
		ptrToNull(note.Weather), ptrToNull(note.Location),
		ptrToNull(note.WeatherIcon), ptrToNull(note.ImageURL),
	)
	if err != nil {
		return fmt.Errorf("failed to write note %s: %w", note.ID, err)
	}

	r.db.broker.Publish(TableNotes)
	return nil
}

// DeleteNote removes the note with id and reports whether it existed.
func (r *Repository) DeleteNote(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	if n > 0 {
		r.db.broker.Publish(TableNotes)
	}
	return n > 0, nil
}

// DeleteAllArchived removes every archived note and returns how many went.
func (r *Repository) DeleteAllArchived(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE is_archived = 1`)
	if err != nil {
		return 0, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if n > 0 {
		r.db.broker.Publish(TableNotes)
	}
	return n, nil
}

// UpdatePinStatus sets is_pinned only. updated_at is left alone.
func (r *Repository) UpdatePinStatus(ctx context.Context, id string, isPinned bool) error {
	return r.updateFlag(ctx, `UPDATE notes SET is_pinned = ? WHERE id = ?`, id, isPinned)
}

// UpdateArchiveStatus sets is_archived only. updated_at is left alone.
func (r *Repository) UpdateArchiveStatus(ctx context.Context, id string, isArchived bool) error {
	return r.updateFlag(ctx, `UPDATE notes SET is_archived = ? WHERE id = ?`, id, isArchived)
}

func (r *Repository) updateFlag(ctx context.Context, query, id string, value bool) error {
	res, err := r.db.ExecContext(ctx, query, value, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoteNotFound
	}

	r.db.broker.Publish(TableNotes)
	return nil
}

// CountArchived returns the number of archived notes.
func (r *Repository) CountArchived(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes WHERE is_archived = 1`).Scan(&count)
	return count, err
}
