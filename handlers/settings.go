package handlers

import (
	"everywrite/app"
	"everywrite/models"
	"everywrite/services"

	"github.com/gofiber/fiber/v2"
)

// GetSettings returns the settings screen in one payload
func GetSettings(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		size, err := a.NotesState.CacheSize(c.UserContext())
		if err != nil {
			return serverErrorWithDetails(c, "Failed to compute cache size", err)
		}

		return success(c, fiber.Map{
			"settings":            a.Settings.Get(),
			"notification_status": a.NotesState.NotificationStatus(),
			"cache_size":          size,
		})
	}
}

func UpdateLanguage(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.LanguageRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return validationFailed(c, err)
		}

		if err := a.NotesState.SetLanguage(req.Language); err != nil {
			return serverErrorWithDetails(c, "Failed to save language", err)
		}
		return success(c, fiber.Map{"settings": a.Settings.Get()})
	}
}

func UpdateDarkMode(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.UpdateFlagRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.NotesState.SetDarkMode(req.Value); err != nil {
			return serverErrorWithDetails(c, "Failed to save theme", err)
		}
		return success(c, fiber.Map{"settings": a.Settings.Get()})
	}
}

func UpdateNotifications(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.UpdateFlagRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.NotesState.SetNotificationsEnabled(req.Value); err != nil {
			return serverErrorWithDetails(c, "Failed to save notification setting", err)
		}
		return success(c, fiber.Map{
			"settings":            a.Settings.Get(),
			"notification_status": a.NotesState.NotificationStatus(),
		})
	}
}

// NotificationStatus re-checks the permission and reports it
func NotificationStatus(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a.NotesState.RefreshNotificationStatus()
		return success(c, fiber.Map{
			"enabled": a.NotesState.NotificationPermission.Get(),
			"status":  a.NotesState.NotificationStatus(),
		})
	}
}

func CacheSize(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		size, err := a.NotesState.CacheSize(c.UserContext())
		if err != nil {
			return serverErrorWithDetails(c, "Failed to compute cache size", err)
		}
		return success(c, fiber.Map{"size": size})
	}
}

func ClearCache(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := a.NotesState.ClearCache(c.UserContext()); err != nil {
			return serverErrorWithDetails(c, "Failed to clear cache", err)
		}
		return success(c, fiber.Map{"size": "0 KB"})
	}
}

// Weather previews the canned weather for a city without storing anything
func Weather(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		city := c.Query("city", services.DefaultCity)
		_, icon := services.LookupWeather(city)
		return success(c, fiber.Map{
			"city":    city,
			"weather": a.NotesState.WeatherPreview(city),
			"icon":    icon,
		})
	}
}

func WeatherCities(c *fiber.Ctx) error {
	return success(c, fiber.Map{"cities": services.KnownCities()})
}
