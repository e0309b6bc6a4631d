package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// StructuredLogger tags every request with a uuid and logs it at a level
// matching the response status. Scrapes and health checks log at debug.
func StructuredLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := c.Get("X-Request-ID")
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}

		c.Locals("requestID", requestID)
		c.Set("X-Request-ID", requestID)

		err := c.Next()

		status := c.Response().StatusCode()
		attrs := []slog.Attr{
			slog.String("request_id", requestID),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("route", c.Route().Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
		}
		if email := GetUserEmail(c); email != "" {
			attrs = append(attrs, slog.String("user_email", email))
		}

		level, msg := slog.LevelInfo, "request completed"
		switch {
		case err != nil:
			attrs = append(attrs, slog.String("error", err.Error()))
			level, msg = slog.LevelError, "request error"
		case status >= 500:
			level, msg = slog.LevelError, "server error"
		case status >= 400:
			level, msg = slog.LevelWarn, "client error"
		case c.Path() == "/metrics" || c.Path() == "/health":
			level = slog.LevelDebug
		}

		logger.LogAttrs(c.UserContext(), level, msg, attrs...)
		return err
	}
}
