package models

import "time"

// Note is a single note record. Timestamps are milliseconds since the epoch.
type Note struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	CreatedAt   int64   `json:"created_at"`
	UpdatedAt   int64   `json:"updated_at"`
	IsPinned    bool    `json:"is_pinned"`
	IsArchived  bool    `json:"is_archived"`
	Tags        string  `json:"tags"`
	Color       int     `json:"color"`
	Weather     *string `json:"weather,omitempty"`
	Location    *string `json:"location,omitempty"`
	WeatherIcon *string `json:"weather_icon,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

type User struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"-"`
	CreatedAt int64  `json:"created_at"`
}

// Settings are the app-wide preferences shown on the settings screen.
type Settings struct {
	Language             string `json:"language" yaml:"language"`
	DarkMode             bool   `json:"dark_mode" yaml:"dark_mode"`
	NotificationsEnabled bool   `json:"notifications_enabled" yaml:"notifications_enabled"`
}

// DefaultSettings returns the settings used before anything was saved.
func DefaultSettings() Settings {
	return Settings{
		Language:             "English",
		DarkMode:             false,
		NotificationsEnabled: true,
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SignupRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Username        string `json:"username" validate:"required"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"eqfield=Password"`
}

type CreateNoteRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Location string `json:"location"`
	ImageURL string `json:"image_url"`
}

type UpdateFlagRequest struct {
	Value bool `json:"value"`
}

type LanguageRequest struct {
	Language string `json:"language" validate:"required,max=50"`
}

// NowMillis returns the current time in milliseconds since the epoch.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// StringPtr returns nil for an empty string, otherwise a pointer to s.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
