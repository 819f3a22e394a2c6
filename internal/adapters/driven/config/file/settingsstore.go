// Package file provides the TOML-backed settings store.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/meridian-labs/topiclens/internal/core/domain"
	"github.com/meridian-labs/topiclens/internal/core/ports/driven"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

// SettingsStore persists pipeline settings in a TOML file.
// A missing file means default settings; the file is created on first Save.
type SettingsStore struct {
	mu       sync.Mutex
	filePath string
}

// NewSettingsStore creates a TOML-based settings store.
// If configDir is empty, defaults to ~/.topiclens/config.toml.
func NewSettingsStore(configDir string) (*SettingsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".topiclens")
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &SettingsStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// Load returns the current settings with defaults applied. Unknown keys in
// the file are ignored; absent keys fall back to defaults.
func (s *SettingsStore) Load() (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.DefaultSettings(), nil
		}
		return domain.Settings{}, fmt.Errorf("reading settings: %w", err)
	}

	var settings domain.Settings
	if err := toml.Unmarshal(data, &settings); err != nil {
		return domain.Settings{}, fmt.Errorf("parsing settings: %w", err)
	}
	settings.ApplyDefaults()
	if err := settings.Validate(); err != nil {
		return domain.Settings{}, fmt.Errorf("settings file %s: %w", s.filePath, err)
	}
	return settings, nil
}

// Save persists settings to disk.
func (s *SettingsStore) Save(settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings.ApplyDefaults()
	if err := settings.Validate(); err != nil {
		return err
	}

	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshalling settings: %w", err)
	}

	// Write with restricted permissions
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

// Path returns the configuration file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}
