package services

import (
	"context"
	"everywrite/models"
)

// NoteRepository defines the data access the note service needs
type NoteRepository interface {
	ListActiveNotes(ctx context.Context) ([]models.Note, error)
	ListArchivedNotes(ctx context.Context) ([]models.Note, error)
	SearchNotes(ctx context.Context, query string) ([]models.Note, error)
	WatchActiveNotes(ctx context.Context) (<-chan []models.Note, error)
	WatchArchivedNotes(ctx context.Context) (<-chan []models.Note, error)
	WatchSearch(ctx context.Context, query string) (<-chan []models.Note, error)
	GetNote(ctx context.Context, id string) (*models.Note, error)
	UpsertNote(ctx context.Context, note *models.Note) error
	DeleteNote(ctx context.Context, id string) (bool, error)
	DeleteAllArchived(ctx context.Context) (int64, error)
	UpdatePinStatus(ctx context.Context, id string, isPinned bool) error
	UpdateArchiveStatus(ctx context.Context, id string, isArchived bool) error
	CountArchived(ctx context.Context) (int, error)
}

// UserRepository defines the data access the user service needs
type UserRepository interface {
	InsertUser(ctx context.Context, user *models.User) error
	Login(ctx context.Context, email, password string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Notifier shows user-facing notifications. Notify reports whether the
// notification was accepted; callers treat it as best effort.
type Notifier interface {
	Notify(title, message string) bool
	CanNotify() bool
}
