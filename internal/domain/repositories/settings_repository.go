package repositories

import "github.com/rios0rios0/savemirror/internal/domain/entities"

// SettingsRepository loads and stores the persisted settings file.
type SettingsRepository interface {
	// Load returns the settings at path with defaults applied. A missing file
	// yields the defaults and no error.
	Load(path string) (*entities.Settings, error)
	Save(path string, settings *entities.Settings) error

	// LoadLegacy imports the JSON settings file written by the original
	// backup scripts (keys ip, port, rclone, email, local).
	LoadLegacy(path string) (*entities.Settings, error)
}
