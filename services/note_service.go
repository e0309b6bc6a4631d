package services

import (
	"context"
	"everywrite/metrics"
	"everywrite/models"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

const shortTitleLen = 20

// NoteService mediates between note storage and the presentation layer.
// Inserts and deletes are followed by a best-effort notification that never
// affects the outcome of the write.
type NoteService struct {
	repo     NoteRepository
	notifier Notifier
	logger   *slog.Logger
	now      func() int64
	pending  sync.WaitGroup
}

// NewNoteService creates a new note service. notifier may be nil.
func NewNoteService(repo NoteRepository, notifier Notifier, logger *slog.Logger) *NoteService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoteService{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      models.NowMillis,
	}
}

func (ns *NoteService) ListActive(ctx context.Context) ([]models.Note, error) {
	return ns.repo.ListActiveNotes(ctx)
}

func (ns *NoteService) ListArchived(ctx context.Context) ([]models.Note, error) {
	return ns.repo.ListArchivedNotes(ctx)
}

func (ns *NoteService) Search(ctx context.Context, query string) ([]models.Note, error) {
	return ns.repo.SearchNotes(ctx, query)
}

func (ns *NoteService) WatchActive(ctx context.Context) (<-chan []models.Note, error) {
	return ns.repo.WatchActiveNotes(ctx)
}

func (ns *NoteService) WatchArchived(ctx context.Context) (<-chan []models.Note, error) {
	return ns.repo.WatchArchivedNotes(ctx)
}

func (ns *NoteService) WatchSearch(ctx context.Context, query string) (<-chan []models.Note, error) {
	return ns.repo.WatchSearch(ctx, query)
}

// Get returns the note with id, or nil when it does not exist.
func (ns *NoteService) Get(ctx context.Context, id string) (*models.Note, error) {
	return ns.repo.GetNote(ctx, id)
}

// Insert writes note (replacing any note with the same id) and then
// announces it.
func (ns *NoteService) Insert(ctx context.Context, note *models.Note) error {
	if note.ID == "" {
		return ErrEmptyNoteID
	}

	if err := ns.repo.UpsertNote(ctx, note); err != nil {
		return err
	}
	metrics.TrackNoteOperation("insert")

	ns.notifyAsync("📝 Note Added", fmt.Sprintf("Your note '%s' has been saved!", ShortTitle(note.Title)))
	return nil
}

// Delete removes note and then announces it. Deleting a note that is
// already gone is not an error.
func (ns *NoteService) Delete(ctx context.Context, note *models.Note) error {
	if note.ID == "" {
		return ErrEmptyNoteID
	}

	if _, err := ns.repo.DeleteNote(ctx, note.ID); err != nil {
		return err
	}
	metrics.TrackNoteOperation("delete")

	ns.notifyAsync("🗑️ Note Deleted", fmt.Sprintf("Note '%s' has been deleted", ShortTitle(note.Title)))
	return nil
}

func (ns *NoteService) DeleteAllArchived(ctx context.Context) (int64, error) {
	n, err := ns.repo.DeleteAllArchived(ctx)
	if err != nil {
		return 0, err
	}
	metrics.TrackNoteOperation("purge")
	return n, nil
}

func (ns *NoteService) UpdatePinStatus(ctx context.Context, id string, isPinned bool) error {
	if err := ns.repo.UpdatePinStatus(ctx, id, isPinned); err != nil {
		return err
	}
	metrics.TrackNoteOperation("pin")
	return nil
}

func (ns *NoteService) UpdateArchiveStatus(ctx context.Context, id string, isArchived bool) error {
	if err := ns.repo.UpdateArchiveStatus(ctx, id, isArchived); err != nil {
		return err
	}
	metrics.TrackNoteOperation("archive")
	return nil
}

func (ns *NoteService) CountArchived(ctx context.Context) (int, error) {
	return ns.repo.CountArchived(ctx)
}

// CreateWithWeather builds a note tagged with the canned weather for city,
// stores it through Insert and returns it.
func (ns *NoteService) CreateWithWeather(ctx context.Context, title, content, city string) (*models.Note, error) {
	return ns.CreateWithImage(ctx, title, content, "", city)
}

// CreateWithImage is CreateWithWeather plus an optional image URL.
// An empty imageURL leaves the note without one.
func (ns *NoteService) CreateWithImage(ctx context.Context, title, content, imageURL, city string) (*models.Note, error) {
	if city == "" {
		city = DefaultCity
	}
	weather, icon := LookupWeather(city)

	now := ns.now()
	note := &models.Note{
		ID:          uuid.New().String(),
		Title:       title,
		Content:     content,
		CreatedAt:   now,
		UpdatedAt:   now,
		Weather:     &weather,
		Location:    &city,
		WeatherIcon: &icon,
		ImageURL:    models.StringPtr(imageURL),
	}

	if err := ns.Insert(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// QuickWeather returns the canned weather text for city without storing anything.
func (ns *NoteService) QuickWeather(city string) string {
	display, _ := LookupWeather(city)
	return display
}

// CanShowNotifications reports whether notifications are currently permitted.
func (ns *NoteService) CanShowNotifications() bool {
	if ns.notifier == nil {
		return false
	}
	return ns.notifier.CanNotify()
}

// Wait blocks until every notification started so far has been handed off.
func (ns *NoteService) Wait() {
	ns.pending.Wait()
}

func (ns *NoteService) notifyAsync(title, message string) {
	if ns.notifier == nil {
		return
	}

	ns.pending.Add(1)
	go func() {
		defer ns.pending.Done()
		defer func() {
			if r := recover(); r != nil {
				ns.logger.Debug("notification panicked", "title", title, "panic", r)
			}
		}()

		if !ns.notifier.Notify(title, message) {
			ns.logger.Debug("notification not shown", "title", title)
		}
	}()
}

// ShortTitle cuts title to 20 characters, adding an ellipsis when it was longer.
func ShortTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= shortTitleLen {
		return title
	}
	return string(runes[:shortTitleLen]) + "..."
}
