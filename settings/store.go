package settings

import (
	"bytes"
	"errors"
	"everywrite/models"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Store keeps the app settings in memory and persists them as YAML.
// An empty path keeps everything in memory.
type Store struct {
	path    string
	logger  *slog.Logger
	mu      sync.RWMutex
	current models.Settings
}

// Open loads settings from path. A missing file yields the defaults.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{path: path, logger: logger, current: models.DefaultSettings()}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewMemory returns a store that never touches the filesystem.
func NewMemory() *Store {
	return &Store{logger: slog.Default(), current: models.DefaultSettings()}
}

func (s *Store) load() error {
	if s.path == "" {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}

	loaded := models.DefaultSettings()
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to parse settings: %w", err)
	}
	if loaded.Language == "" {
		loaded.Language = models.DefaultSettings().Language
	}
	s.current = loaded
	return nil
}

// Get returns a copy of the current settings
func (s *Store) Get() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update applies fn to a copy of the settings and persists the result.
// On a save failure the in-memory settings are left unchanged.
func (s *Store) Update(fn func(*models.Settings)) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	fn(&next)
	if err := s.save(next); err != nil {
		return s.current, err
	}
	s.current = next
	return next, nil
}

// SetLanguage persists the selected language
func (s *Store) SetLanguage(language string) error {
	_, err := s.Update(func(st *models.Settings) { st.Language = language })
	return err
}

// SetDarkMode persists the theme toggle
func (s *Store) SetDarkMode(enabled bool) error {
	_, err := s.Update(func(st *models.Settings) { st.DarkMode = enabled })
	return err
}

// SetNotificationsEnabled persists the notification toggle
func (s *Store) SetNotificationsEnabled(enabled bool) error {
	_, err := s.Update(func(st *models.Settings) { st.NotificationsEnabled = enabled })
	return err
}

// Granted reports whether notifications are enabled, so the store can be
// handed to the notification worker as its permission.
func (s *Store) Granted() bool {
	return s.Get().NotificationsEnabled
}

func (s *Store) save(st models.Settings) error {
	if s.path == "" {
		return nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(st); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	encoder.Close()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create settings directory: %w", err)
		}
	}

	// Write then rename so a crash never leaves a half-written file
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace settings: %w", err)
	}

	s.logger.Debug("settings saved", "path", s.path)
	return nil
}
