package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"everywrite/app"
	"everywrite/metrics"
	"everywrite/models"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

const heartbeatInterval = 15 * time.Second

// StreamNotes pushes the active list as server-sent events whenever it changes
func StreamNotes(a *app.App) fiber.Handler {
	return stream(a, func(ctx context.Context, _ *fiber.Ctx) (<-chan []models.Note, error) {
		return a.NotesState.Notes.Subscribe(ctx), nil
	})
}

// StreamArchivedNotes pushes the archived list whenever it changes
func StreamArchivedNotes(a *app.App) fiber.Handler {
	return stream(a, func(ctx context.Context, _ *fiber.Ctx) (<-chan []models.Note, error) {
		return a.NotesState.ArchivedNotes.Subscribe(ctx), nil
	})
}

// StreamSearch pushes live results for the q query parameter
func StreamSearch(a *app.App) fiber.Handler {
	return stream(a, func(ctx context.Context, c *fiber.Ctx) (<-chan []models.Note, error) {
		return a.NotesState.Search(ctx, c.Query("q"))
	})
}

func stream(a *app.App, open func(ctx context.Context, c *fiber.Ctx) (<-chan []models.Note, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithCancel(a.Context())

		updates, err := open(ctx, c)
		if err != nil {
			cancel()
			return serverErrorWithDetails(c, "Failed to open stream", err)
		}

		c.Set("Content-Type", "text/event-stream")
		c.Set("Cache-Control", "no-cache")
		c.Set("Connection", "keep-alive")
		c.Set("X-Accel-Buffering", "no")

		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			defer cancel()
			metrics.LiveSubscriptions.Inc()
			defer metrics.LiveSubscriptions.Dec()

			heartbeat := time.NewTicker(heartbeatInterval)
			defer heartbeat.Stop()

			if err := writeEvents(w, updates, heartbeat.C); err != nil {
				a.Logger.Debug("stream closed", "error", err)
			}
		}))
		return nil
	}
}

// writeEvents writes one "notes" event per update and a comment on every
// heartbeat. It returns nil once updates is closed, or the first write error
// (normally the client going away).
func writeEvents(w *bufio.Writer, updates <-chan []models.Note, heartbeat <-chan time.Time) error {
	for {
		select {
		case notes, ok := <-updates:
			if !ok {
				return nil
			}
			data, err := json.Marshal(notes)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "event: notes\ndata: %s\n\n", data); err != nil {
				return err
			}
		case <-heartbeat:
			if _, err := w.WriteString(": ping\n\n"); err != nil {
				return err
			}
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
}
