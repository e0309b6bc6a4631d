package handlers

import (
	"errors"
	"everywrite/app"
	"everywrite/models"
	"everywrite/services"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ListNotes returns the active notes, pinned first
func ListNotes(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		notes, err := a.Notes.ListActive(c.UserContext())
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch notes", err)
		}
		return success(c, fiber.Map{"notes": notes})
	}
}

// ListArchivedNotes returns the archived notes, newest first
func ListArchivedNotes(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		notes, err := a.Notes.ListArchived(c.UserContext())
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch archived notes", err)
		}
		return success(c, fiber.Map{"notes": notes})
	}
}

// SearchNotes matches q against titles and contents of all notes, archived included
func SearchNotes(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Query("q")
		a.NotesState.SearchQuery.Set(query)
		a.NotesState.IsSearching.Set(query != "")

		notes, err := a.Notes.Search(c.UserContext(), query)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to search notes", err)
		}
		return success(c, fiber.Map{"query": query, "notes": notes})
	}
}

func GetNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		note, err := a.Notes.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch note", err)
		}
		if note == nil {
			return notFound(c, "Note not found")
		}
		return success(c, fiber.Map{"note": note})
	}
}

// CreateNote stores a new note tagged with the weather for its location
func CreateNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateNoteRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if strings.TrimSpace(req.Title) == "" && strings.TrimSpace(req.Content) == "" {
			return badRequest(c, "title or content is required")
		}

		note, err := a.NotesState.CreateWithImage(c.UserContext(), req.Title, req.Content, req.ImageURL, req.Location)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to create note", err)
		}
		return created(c, fiber.Map{"note": note})
	}
}

// SaveNote inserts or replaces the note with the id from the path
func SaveNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var note models.Note
		if err := c.BodyParser(&note); err != nil {
			return badRequest(c, "Invalid request body")
		}

		now := models.NowMillis()
		note.ID = c.Params("id")
		if note.CreatedAt == 0 {
			note.CreatedAt = now
		}
		note.UpdatedAt = now

		if err := a.NotesState.Insert(c.UserContext(), &note); err != nil {
			if errors.Is(err, services.ErrEmptyNoteID) {
				return badRequest(c, "note id is required")
			}
			return serverErrorWithDetails(c, "Failed to save note", err)
		}
		return success(c, fiber.Map{"note": note})
	}
}

func DeleteNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		note, err := a.Notes.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch note", err)
		}
		if note == nil {
			return notFound(c, "Note not found")
		}

		if err := a.NotesState.Delete(c.UserContext(), note); err != nil {
			return serverErrorWithDetails(c, "Failed to delete note", err)
		}
		return success(c, fiber.Map{"message": "Note deleted successfully"})
	}
}

func UpdatePinStatus(a *app.App) fiber.Handler {
	return updateFlag(func(c *fiber.Ctx, id string, value bool) error {
		return a.NotesState.UpdatePinStatus(c.UserContext(), id, value)
	})
}

func UpdateArchiveStatus(a *app.App) fiber.Handler {
	return updateFlag(func(c *fiber.Ctx, id string, value bool) error {
		return a.NotesState.UpdateArchiveStatus(c.UserContext(), id, value)
	})
}

func updateFlag(apply func(c *fiber.Ctx, id string, value bool) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.UpdateFlagRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := apply(c, c.Params("id"), req.Value); err != nil {
			if errors.Is(err, services.ErrNoteNotFound) {
				return notFound(c, "Note not found")
			}
			return serverErrorWithDetails(c, "Failed to update note", err)
		}
		return success(c, fiber.Map{"id": c.Params("id"), "value": req.Value})
	}
}

// DeleteAllArchived empties the archive
func DeleteAllArchived(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		n, err := a.NotesState.DeleteAllArchived(c.UserContext())
		if err != nil {
			return serverErrorWithDetails(c, "Failed to delete archived notes", err)
		}
		return success(c, fiber.Map{"deleted": n})
	}
}
