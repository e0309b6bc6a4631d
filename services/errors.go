package services

import (
	"errors"
	"everywrite/database"
)

// Common service-level errors
var (
	ErrNoteNotFound = database.ErrNoteNotFound
	ErrEmptyNoteID  = errors.New("note id is required")
)
