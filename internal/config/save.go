package config

import (
	"os"
	"path/filepath"
)

// Save writes the config to the user's config directory.
func (c *Config) Save() error {
	return c.SaveTo(DefaultPath())
}

// DefaultPath returns the config file Save writes.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// SaveRequestedTo writes the config where --save-config points and
// returns the path written.
func (c *Config) SaveRequestedTo() (string, error) {
	path := *flagSaveConfig
	if path == "default" {
		return DefaultPath(), c.Save()
	}
	return path, c.SaveTo(path)
}

// SaveTo writes the config to a specific path. A .toml extension selects
// TOML, anything else YAML.
func (c *Config) SaveTo(path string) error {
	// Create parent directory if needed
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := marshal(c, path)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
