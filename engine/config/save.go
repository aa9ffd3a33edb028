package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Save writes the config to the user's config directory.
func (c *Config) Save() error {
	dir := ConfigDir()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return c.SaveTo(filepath.Join(dir, "ember.yaml"))
}

// SaveTo writes the config to a specific path, creating parent directories as needed.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
