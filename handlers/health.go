package handlers

import (
	"everywrite/app"

	"github.com/gofiber/fiber/v2"
)

func Health(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := a.DB.PingContext(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}

		version, err := a.DB.UserVersion()
		if err != nil {
			return serverErrorWithDetails(c, "Failed to read schema version", err)
		}
		return success(c, fiber.Map{"status": "ok", "schema_version": version})
	}
}
