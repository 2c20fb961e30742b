package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Credentials is the persisted login.
type Credentials struct {
	Token     string `yaml:"token" validate:"required"`
	AvatarURL string `yaml:"avatar_url,omitempty"`
	Username  string `yaml:"username,omitempty"`
}

// LoadCredentials reads credentials from path. It returns nil without an
// error when nobody is logged in.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read credentials")
	}
	var c Credentials
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(err, "failed to parse credentials")
	}
	if c.Token == "" {
		return nil, nil
	}
	return &c, nil
}

// SaveCredentials writes credentials readable by the owner only.
func SaveCredentials(path string, c Credentials) error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid credentials")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to encode credentials")
	}
	return writeFile(path, data, 0o600)
}

// RemoveCredentials deletes the credentials file if present.
func RemoveCredentials(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "failed to remove credentials")
	}
	return nil
}
