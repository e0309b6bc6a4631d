package app

import (
	"context"
	"everywrite/database"
	"everywrite/notify"
	"everywrite/services"
	"everywrite/settings"
	"everywrite/state"
	"everywrite/validator"
	"fmt"
	"log/slog"
)

// App holds all application dependencies
// This struct is the central point for dependency injection
type App struct {
	DB         *database.DB
	Repo       *database.Repository
	Notes      *services.NoteService
	Users      *services.UserService
	Settings   *settings.Store
	Notifier   *notify.Worker
	Auth       *state.AuthState
	NotesState *state.NotesState
	Validator  *validator.Validator
	Logger     *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New wires the repositories and state holders on top of db. The notifier
// may be nil; when set it must already be started, and App does not stop it.
func New(db *database.DB, settingsStore *settings.Store, notifier *notify.Worker, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	repo := database.NewRepository(db)
	v := validator.New()

	var notifications services.Notifier
	if notifier != nil {
		notifications = notifier
	}
	notes := services.NewNoteService(repo, notifications, logger)
	users := services.NewUserService(repo, logger)

	notesState, err := state.NewNotesState(notes, settingsStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create notes state: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		DB:         db,
		Repo:       repo,
		Notes:      notes,
		Users:      users,
		Settings:   settingsStore,
		Notifier:   notifier,
		Auth:       state.NewAuthState(users, v, logger),
		NotesState: notesState,
		Validator:  v,
		Logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}, nil
}

// Context is cancelled by Close. Long-lived streams derive from it so they
// end before the server shuts down.
func (a *App) Context() context.Context {
	return a.ctx
}

// EndStreams cancels Context, which closes every open event stream
func (a *App) EndStreams() {
	a.cancel()
}

// Close ends open streams, stops the live lists and waits for pending
// notifications. Call it only once no request can still write notes.
func (a *App) Close() {
	a.cancel()
	a.NotesState.Close()
	a.Notes.Wait()
}
