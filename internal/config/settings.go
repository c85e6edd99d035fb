package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"played-together/internal/domain"

	"github.com/pelletier/go-toml/v2"
)

var userConfigDir = os.UserConfigDir

// Settings is the small on-disk record the CLI keeps between runs.
type Settings struct {
	Self   *domain.RiotID `toml:"self,omitempty"`
	APIKey string         `toml:"api_key,omitempty"`
}

type SettingsStore struct {
	path string
}

func NewSettingsStore(cfg *Config) (*SettingsStore, error) {
	path, err := cfg.SettingsPath()
	if err != nil {
		return nil, err
	}
	return &SettingsStore{path: path}, nil
}

func (s *SettingsStore) Path() string {
	return s.path
}

// Load returns empty settings when the file does not exist yet.
func (s *SettingsStore) Load() (*Settings, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Settings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	var settings Settings
	if err := toml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parse settings file %s: %w", s.path, err)
	}
	if settings.Self != nil && (settings.Self.GameName == "" || settings.Self.TagLine == "") {
		settings.Self = nil
	}
	return &settings, nil
}

func (s *SettingsStore) Save(settings *Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// the file may hold an API key
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}
