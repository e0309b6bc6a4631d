package handlers

import (
	"errors"
	"everywrite/validator"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

func success(c *fiber.Ctx, data fiber.Map) error {
	return c.JSON(data)
}

func created(c *fiber.Ctx, data fiber.Map) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": message})
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": message})
}

// validationFailed reports field errors when err came from the validator
func validationFailed(c *fiber.Ctx, err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  validationErrs.Error(),
			"fields": validationErrs,
		})
	}
	return badRequest(c, err.Error())
}

func serverErrorWithDetails(c *fiber.Ctx, message string, err error) error {
	requestID := ""
	if id, ok := c.Locals("requestID").(string); ok {
		requestID = id
	}

	slog.Error("server error",
		"request_id", requestID,
		"method", c.Method(),
		"path", c.Path(),
		"message", message,
		"error", err,
	)

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": message})
}
