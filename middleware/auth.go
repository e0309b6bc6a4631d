package middleware

import (
	"everywrite/state"

	"github.com/gofiber/fiber/v2"
)

// LoginRequired rejects requests until someone has logged in through auth.
// The server runs on the user's device, so there is one login at a time.
func LoginRequired(auth *state.AuthState) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := auth.CurrentUser.Get()
		if !auth.IsLoggedIn.Get() || user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Not logged in",
			})
		}

		c.Locals("userEmail", user.Email)
		c.Locals("username", user.Username)
		return c.Next()
	}
}

func GetUserEmail(c *fiber.Ctx) string {
	email, ok := c.Locals("userEmail").(string)
	if !ok {
		return ""
	}
	return email
}
