package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if cfg.Window.Title != "Ember" {
		t.Errorf("expected title Ember, got %s", cfg.Window.Title)
	}

	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}
	if cfg.Graphics.TickRate != 60 {
		t.Errorf("expected tick rate 60, got %d", cfg.Graphics.TickRate)
	}
	if cfg.Graphics.ClearColor.A != 1.0 {
		t.Errorf("expected opaque clear color, got alpha %f", cfg.Graphics.ClearColor.A)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level info, got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ember.yaml")

	yamlContent := `
window:
  title: "Test Game"
  width: 1920
graphics:
  vsync: false
  fps_limit: 144
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Window.Title != "Test Game" {
		t.Errorf("expected title 'Test Game', got %s", cfg.Window.Title)
	}
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Window.Width)
	}
	// Height not in file — default must survive.
	if cfg.Window.Height != 720 {
		t.Errorf("expected default height 720, got %d", cfg.Window.Height)
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync false from file")
	}
	if cfg.Graphics.FPSLimit != 144 {
		t.Errorf("expected fps_limit 144, got %d", cfg.Graphics.FPSLimit)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "ember.yaml")

	cfg := Default()
	cfg.Window.Title = "Round Trip"
	cfg.Graphics.ClearColor = ColorConfig{R: 0.5, G: 0.25, B: 0.125, A: 1.0}

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if loaded.Window.Title != "Round Trip" {
		t.Errorf("expected title 'Round Trip', got %s", loaded.Window.Title)
	}
	if loaded.Graphics.ClearColor != cfg.Graphics.ClearColor {
		t.Errorf("clear color mismatch: got %+v, want %+v", loaded.Graphics.ClearColor, cfg.Graphics.ClearColor)
	}
}
