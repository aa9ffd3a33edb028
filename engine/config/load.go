package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file.
// The file is searched in the standard locations returned by findConfigFile;
// if no file exists the defaults are returned unchanged.
func Load() (*Config, error) {
	cfg := Default()

	if path := findConfigFile(); path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	return cfg, nil
}

// LoadFrom loads configuration from an explicit file path on top of defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./ember.yaml",
		filepath.Join(ConfigDir(), "ember.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ember")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "ember")
}

// loadFromFile unmarshals YAML from path into cfg, overriding present fields only.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
