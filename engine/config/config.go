// Package config handles engine configuration loading and management.
package config

// Config holds all engine settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Graphics GraphicsConfig `yaml:"graphics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds window creation settings.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	VSync    bool `yaml:"vsync"`
	FPSLimit int  `yaml:"fps_limit"`
	TickRate int  `yaml:"tick_rate"`

	// ClearColor is the frame clear color as normalized RGBA channels.
	ClearColor ColorConfig `yaml:"clear_color"`
}

// ColorConfig is a normalized RGBA color in YAML form.
type ColorConfig struct {
	R float32 `yaml:"r"`
	G float32 `yaml:"g"`
	B float32 `yaml:"b"`
	A float32 `yaml:"a"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Ember",
			Width:  1280,
			Height: 720,
		},
		Graphics: GraphicsConfig{
			VSync:      true,
			FPSLimit:   0,
			TickRate:   60,
			ClearColor: ColorConfig{R: 0.1, G: 0.1, B: 0.2, A: 1.0},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
