package setup

import (
	"context"
	"everywrite/app"
	"everywrite/config"
	"everywrite/database"
	"everywrite/notify"
	"everywrite/settings"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// InitDatabase opens the database through a provider and runs migrations
func InitDatabase(dbPath string, logger *slog.Logger) (*database.Provider, *database.DB, error) {
	provider := database.NewProvider(dbPath, logger)
	db, err := provider.Get()
	if err != nil {
		provider.Close()
		return nil, nil, err
	}
	return provider, db, nil
}

// InitApp initializes the application with all dependencies
func InitApp(ctx context.Context, cfg *config.Config, db *database.DB, logger *slog.Logger) (*app.App, error) {
	settingsStore, err := settings.Open(cfg.SettingsPath, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("settings loaded", "path", cfg.SettingsPath)

	// The settings store doubles as the notification permission
	worker := notify.NewWorker(notify.LogSink{Logger: logger}, settingsStore, cfg.NotifyQueueSize, logger)
	worker.Start()

	application, err := app.New(db, settingsStore, worker, logger)
	if err != nil {
		worker.Stop()
		return nil, err
	}

	if cfg.SeedDemoUser {
		if err := application.Users.SeedDemoUser(ctx); err != nil {
			Shutdown(ctx, nil, application, nil, logger)
			return nil, fmt.Errorf("failed to seed demo user: %w", err)
		}
	}

	logger.Info("application initialized with dependency injection")
	return application, nil
}

// Shutdown performs graceful shutdown of all services. Streams are ended
// first so the server can drain; the app is closed once no handler runs.
func Shutdown(ctx context.Context, fiberApp *fiber.App, application *app.App, provider *database.Provider, logger *slog.Logger) {
	logger.Info("shutting down services...")

	if application != nil {
		application.EndStreams()
	}

	if fiberApp != nil {
		if err := fiberApp.ShutdownWithContext(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}

	if application != nil {
		application.Close()
		if application.Notifier != nil {
			application.Notifier.Stop()
			logger.Info("notification worker stopped")
		}
	}

	if provider != nil {
		provider.Close()
		logger.Info("database closed")
	}
}
