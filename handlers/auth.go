package handlers

import (
	"everywrite/app"
	"everywrite/models"
	"everywrite/state"

	"github.com/gofiber/fiber/v2"
)

// Login logs the device in with email and password
func Login(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if !a.Auth.Login(c.UserContext(), req.Email, req.Password) {
			return unauthorized(c, a.Auth.LoginError.Get())
		}

		return success(c, fiber.Map{"user": a.Auth.CurrentUser.Get()})
	}
}

// Signup registers a new account and logs it in
func Signup(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.SignupRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if !a.Auth.Signup(c.UserContext(), req.Email, req.Username, req.Password, req.ConfirmPassword) {
			msg := a.Auth.SignupError.Get()
			if msg == state.MsgEmailTaken || msg == state.MsgUsernameTaken {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": msg})
			}
			return badRequest(c, msg)
		}

		return created(c, fiber.Map{"user": a.Auth.CurrentUser.Get()})
	}
}

func Logout(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a.Auth.Logout()
		a.Auth.ClearErrors()
		return success(c, fiber.Map{"message": "Logged out successfully"})
	}
}

// Me returns the logged-in user, if any
func Me(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return success(c, fiber.Map{
			"logged_in": a.Auth.IsLoggedIn.Get(),
			"user":      a.Auth.CurrentUser.Get(),
		})
	}
}
