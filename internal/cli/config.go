package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultServer is the API address used when neither the config file nor a
// flag names one.
const DefaultServer = "http://127.0.0.1:3000"

// Config is the client-side settings file.
type Config struct {
	Server  string `toml:"server"`
	Profile string `toml:"profile"`
}

// DefaultConfigPath returns ~/.config/trainload/config.toml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "~"
	}
	return filepath.Join(home, ".config", "trainload", "config.toml")
}

// LoadConfig reads path. A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := Config{Server: DefaultServer, Profile: "desktop"}

	_, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}
	return cfg, nil
}
