package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const DefaultAPIURL = "http://localhost:8080"

// Config is the CLI configuration file.
type Config struct {
	APIURL string `toml:"api_url"`
	// Token is a Firebase ID token sent as a bearer token.
	Token string `toml:"token"`
	// UserID is sent as X-User-Id to servers running without Firebase.
	UserID string `toml:"user_id"`
}

// ConfigPath returns ~/.config/nutrifit/config.toml.
func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "nutrifit", "config.toml"), nil
}

// LoadConfig reads the config at path. A missing file yields an empty
// config.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	return &cfg, nil
}
