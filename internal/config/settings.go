// Package config loads and persists the client's settings and credentials.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	dirName      = "jorik-cli"
	settingsFile = "settings.yaml"
	authFile     = "auth.yaml"
)

// Settings represents the user-editable client settings.
type Settings struct {
	BaseURL string `yaml:"base_url" default:"https://jorik.xserv.pp.ua" validate:"required,url"`
	// VisualizerOffsetMs shifts which spectrogram frame is shown for a given
	// position. Positive values show later frames.
	VisualizerOffsetMs int `yaml:"visualizer_offset" default:"200" validate:"gte=-10000,lte=10000"`
}

// VisualizerOffset returns the offset as a duration.
func (s Settings) VisualizerOffset() time.Duration {
	return time.Duration(s.VisualizerOffsetMs) * time.Millisecond
}

// Validate validates the settings.
func (s Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return errors.Wrap(err, "invalid settings")
	}
	return nil
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	var s Settings
	_ = defaults.Set(&s)
	return s
}

// Dir returns the per-user configuration directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to locate config directory")
	}
	return filepath.Join(base, dirName), nil
}

// SettingsPath returns the settings file inside dir.
func SettingsPath(dir string) string { return filepath.Join(dir, settingsFile) }

// AuthPath returns the credentials file inside dir.
func AuthPath(dir string) string { return filepath.Join(dir, authFile) }

// LoadSettings reads settings from path. A missing file yields defaults.
// Defaults are applied before decoding so an explicit zero in the file
// is kept.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, errors.Wrap(err, "failed to read settings file")
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), errors.Wrap(err, "failed to parse settings file")
	}
	if err := s.Validate(); err != nil {
		return DefaultSettings(), err
	}
	return s, nil
}

// SaveSettings validates and writes settings to path.
func SaveSettings(path string, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "failed to encode settings")
	}
	return writeFile(path, data, 0o644)
}

func writeFile(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return errors.Wrapf(err, "failed to write %s", filepath.Base(path))
	}
	return nil
}
