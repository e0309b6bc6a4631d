package state

import (
	"context"
	"everywrite/metrics"
	"everywrite/models"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// NoteStore is what the notes state needs from the note repository
type NoteStore interface {
	WatchActive(ctx context.Context) (<-chan []models.Note, error)
	WatchArchived(ctx context.Context) (<-chan []models.Note, error)
	WatchSearch(ctx context.Context, query string) (<-chan []models.Note, error)
	Insert(ctx context.Context, note *models.Note) error
	Delete(ctx context.Context, note *models.Note) error
	DeleteAllArchived(ctx context.Context) (int64, error)
	UpdatePinStatus(ctx context.Context, id string, isPinned bool) error
	UpdateArchiveStatus(ctx context.Context, id string, isArchived bool) error
	CountArchived(ctx context.Context) (int, error)
	CreateWithWeather(ctx context.Context, title, content, city string) (*models.Note, error)
	CreateWithImage(ctx context.Context, title, content, imageURL, city string) (*models.Note, error)
	QuickWeather(city string) string
	CanShowNotifications() bool
}

// SettingsStore persists the preferences the notes screens change
type SettingsStore interface {
	Get() models.Settings
	SetLanguage(language string) error
	SetDarkMode(enabled bool) error
	SetNotificationsEnabled(enabled bool) error
}

const (
	statusNotificationsOn  = "🔔 Notifications enabled"
	statusNotificationsOff = "🔒 Notifications disabled"

	// Every archived note is estimated at 2 KB of cache
	archivedNoteKB = 2
)

// NotesState holds the notes screens state. The active and archived lists
// follow the database until Close is called.
type NotesState struct {
	notes    NoteStore
	settings SettingsStore
	logger   *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup

	Notes                  *Value[[]models.Note]
	ArchivedNotes          *Value[[]models.Note]
	SearchQuery            *Value[string]
	CurrentNote            *Value[*models.Note]
	IsSearching            *Value[bool]
	Language               *Value[string]
	DarkMode               *Value[bool]
	NotificationPermission *Value[bool]
	Error                  *Value[string]
}

// NewNotesState starts following the active and archived lists
func NewNotesState(notes NoteStore, settings SettingsStore, logger *slog.Logger) (*NotesState, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &NotesState{
		notes:                  notes,
		settings:               settings,
		logger:                 logger,
		cancel:                 cancel,
		Notes:                  NewValue([]models.Note{}),
		ArchivedNotes:          NewValue([]models.Note{}),
		SearchQuery:            NewValue(""),
		CurrentNote:            NewValue[*models.Note](nil),
		IsSearching:            NewValue(false),
		Language:               NewValue(settings.Get().Language),
		DarkMode:               NewValue(settings.Get().DarkMode),
		NotificationPermission: NewValue(false),
		Error:                  NewValue(""),
	}

	active, err := notes.WatchActive(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to watch notes: %w", err)
	}
	archived, err := notes.WatchArchived(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to watch archived notes: %w", err)
	}

	s.follow(active, s.Notes)
	s.follow(archived, s.ArchivedNotes)
	s.RefreshNotificationStatus()

	return s, nil
}

func (s *NotesState) follow(src <-chan []models.Note, dst *Value[[]models.Note]) {
	s.wg.Add(1)
	metrics.LiveSubscriptions.Inc()
	go func() {
		defer s.wg.Done()
		defer metrics.LiveSubscriptions.Dec()
		for list := range src {
			dst.Set(list)
		}
	}()
}

// Close stops following the database
func (s *NotesState) Close() {
	s.cancel()
	s.wg.Wait()
}

// Search records query and returns a live result stream that ends with ctx
func (s *NotesState) Search(ctx context.Context, query string) (<-chan []models.Note, error) {
	s.SearchQuery.Set(query)
	s.IsSearching.Set(query != "")

	results, err := s.notes.WatchSearch(ctx, query)
	if err != nil {
		return nil, s.fail("search failed", err)
	}
	return results, nil
}

func (s *NotesState) Insert(ctx context.Context, note *models.Note) error {
	if err := s.notes.Insert(ctx, note); err != nil {
		return s.fail("failed to save note", err)
	}
	return nil
}

func (s *NotesState) Delete(ctx context.Context, note *models.Note) error {
	if err := s.notes.Delete(ctx, note); err != nil {
		return s.fail("failed to delete note", err)
	}
	return nil
}

func (s *NotesState) UpdatePinStatus(ctx context.Context, id string, isPinned bool) error {
	if err := s.notes.UpdatePinStatus(ctx, id, isPinned); err != nil {
		return s.fail("failed to update pin status", err)
	}
	return nil
}

func (s *NotesState) UpdateArchiveStatus(ctx context.Context, id string, isArchived bool) error {
	if err := s.notes.UpdateArchiveStatus(ctx, id, isArchived); err != nil {
		return s.fail("failed to update archive status", err)
	}
	return nil
}

func (s *NotesState) DeleteAllArchived(ctx context.Context) (int64, error) {
	n, err := s.notes.DeleteAllArchived(ctx)
	if err != nil {
		return 0, s.fail("failed to delete archived notes", err)
	}
	return n, nil
}

// CreateNewNote puts a blank, unsaved note into CurrentNote
func (s *NotesState) CreateNewNote() *models.Note {
	now := models.NowMillis()
	note := &models.Note{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.CurrentNote.Set(note)
	return note
}

func (s *NotesState) CreateWithWeather(ctx context.Context, title, content, city string) (*models.Note, error) {
	note, err := s.notes.CreateWithWeather(ctx, title, content, city)
	if err != nil {
		return nil, s.fail("failed to create note", err)
	}
	return note, nil
}

func (s *NotesState) CreateWithImage(ctx context.Context, title, content, imageURL, city string) (*models.Note, error) {
	note, err := s.notes.CreateWithImage(ctx, title, content, imageURL, city)
	if err != nil {
		return nil, s.fail("failed to create note", err)
	}
	return note, nil
}

// ClearCache drops every archived note
func (s *NotesState) ClearCache(ctx context.Context) error {
	_, err := s.DeleteAllArchived(ctx)
	return err
}

// CacheSize estimates the space held by archived notes
func (s *NotesState) CacheSize(ctx context.Context) (string, error) {
	count, err := s.notes.CountArchived(ctx)
	if err != nil {
		return "", s.fail("failed to count archived notes", err)
	}
	return FormatCacheSize(count), nil
}

// FormatCacheSize renders the estimate for count archived notes
func FormatCacheSize(count int) string {
	kb := count * archivedNoteKB
	if kb < 1024 {
		return fmt.Sprintf("%d KB", kb)
	}
	return fmt.Sprintf("%d MB", kb/1024)
}

func (s *NotesState) WeatherPreview(city string) string {
	return s.notes.QuickWeather(city)
}

// SetLanguage persists language and publishes it
func (s *NotesState) SetLanguage(language string) error {
	if err := s.settings.SetLanguage(language); err != nil {
		return s.fail("failed to save language", err)
	}
	s.Language.Set(language)
	return nil
}

// SetDarkMode persists the theme and publishes it
func (s *NotesState) SetDarkMode(enabled bool) error {
	if err := s.settings.SetDarkMode(enabled); err != nil {
		return s.fail("failed to save theme", err)
	}
	s.DarkMode.Set(enabled)
	return nil
}

func (s *NotesState) CanShowNotifications() bool {
	return s.notes.CanShowNotifications()
}

func (s *NotesState) NotificationStatus() string {
	if s.CanShowNotifications() {
		return statusNotificationsOn
	}
	return statusNotificationsOff
}

// RefreshNotificationStatus re-reads the permission into NotificationPermission
func (s *NotesState) RefreshNotificationStatus() {
	s.NotificationPermission.Set(s.CanShowNotifications())
}

// SetNotificationsEnabled persists the toggle and refreshes the permission
func (s *NotesState) SetNotificationsEnabled(enabled bool) error {
	if err := s.settings.SetNotificationsEnabled(enabled); err != nil {
		return s.fail("failed to save notification setting", err)
	}
	s.RefreshNotificationStatus()
	return nil
}

func (s *NotesState) fail(msg string, err error) error {
	s.logger.Error(msg, "error", err)
	s.Error.Set(fmt.Sprintf("%s: %v", msg, err))
	return fmt.Errorf("%s: %w", msg, err)
}
