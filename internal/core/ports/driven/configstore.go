package driven

import "github.com/meridian-labs/topiclens/internal/core/domain"

// SettingsStore loads and persists pipeline settings.
type SettingsStore interface {
	// Load returns the current settings with defaults applied.
	Load() (domain.Settings, error)

	// Save persists settings.
	Save(settings domain.Settings) error

	// Path returns the backing file path, empty if not file-backed.
	Path() string
}
