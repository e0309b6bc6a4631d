package setup

import (
	"everywrite/app"
	"everywrite/handlers"
	"everywrite/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(fiberApp *fiber.App, application *app.App) {

	// Public routes
	fiberApp.Get("/health", handlers.Health(application))
	fiberApp.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Auth routes
	fiberApp.Post("/api/auth/login", handlers.Login(application))
	fiberApp.Post("/api/auth/signup", handlers.Signup(application))
	fiberApp.Post("/api/auth/logout", handlers.Logout(application))
	fiberApp.Get("/api/auth/me", handlers.Me(application))

	// Protected API routes
	api := fiberApp.Group("/api", middleware.LoginRequired(application.Auth))

	// Fixed paths go before /notes/:id
	api.Get("/notes", handlers.ListNotes(application))
	api.Post("/notes", handlers.CreateNote(application))
	api.Get("/notes/stream", handlers.StreamNotes(application))
	api.Get("/notes/search", handlers.SearchNotes(application))
	api.Get("/notes/search/stream", handlers.StreamSearch(application))
	api.Get("/notes/archived", handlers.ListArchivedNotes(application))
	api.Get("/notes/archived/stream", handlers.StreamArchivedNotes(application))
	api.Delete("/notes/archived", handlers.DeleteAllArchived(application))
	api.Get("/notes/:id", handlers.GetNote(application))
	api.Put("/notes/:id", handlers.SaveNote(application))
	api.Delete("/notes/:id", handlers.DeleteNote(application))
	api.Put("/notes/:id/pin", handlers.UpdatePinStatus(application))
	api.Put("/notes/:id/archive", handlers.UpdateArchiveStatus(application))

	api.Get("/settings", handlers.GetSettings(application))
	api.Put("/settings/language", handlers.UpdateLanguage(application))
	api.Put("/settings/dark-mode", handlers.UpdateDarkMode(application))
	api.Put("/settings/notifications", handlers.UpdateNotifications(application))
	api.Get("/notifications/status", handlers.NotificationStatus(application))
	api.Get("/cache", handlers.CacheSize(application))
	api.Delete("/cache", handlers.ClearCache(application))

	api.Get("/weather", handlers.Weather(application))
	api.Get("/weather/cities", handlers.WeatherCities)
}
