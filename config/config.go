package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// Reader settings
type ReaderConfig struct {
	VerticalPadding   int `toml:"vertical_padding"`
	HorizontalPadding int `toml:"horizontal_padding"`
	LineSpacing       int `toml:"line_spacing"`
}

// Backend settings
type APIConfig struct {
	BaseURL string `toml:"base_url"`
}

// Root config
type Config struct {
	API      APIConfig    `toml:"api"`
	Reader   ReaderConfig `toml:"reader"`
	LogLevel string       `toml:"log_level"`
}

// env holds deployment overrides: which backend to talk to depends on where
// the binary runs, not on what the user configured in the settings file.
type env struct {
	APIURL   string `envconfig:"API_URL"`
	LogLevel string `envconfig:"LOG_LEVEL"`
}

func defaults() Config {
	return Config{
		API: APIConfig{BaseURL: "http://localhost:5000"},
		Reader: ReaderConfig{
			VerticalPadding:   1,
			HorizontalPadding: 2,
			LineSpacing:       0,
		},
		LogLevel: "info",
	}
}

// Dir returns the application config directory, creating it if needed.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".config", "bookquest")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// Load reads config.toml from the config dir, falling back to defaults for
// anything missing, then applies BOOKQUEST_* environment overrides.
func Load() (Config, error) {
	cfg := defaults()

	dir, err := Dir()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	var e env
	if err := envconfig.Process("bookquest", &e); err != nil {
		return cfg, err
	}
	if e.APIURL != "" {
		cfg.API.BaseURL = e.APIURL
	}
	if e.LogLevel != "" {
		cfg.LogLevel = e.LogLevel
	}

	if cfg.Reader.VerticalPadding < 0 {
		cfg.Reader.VerticalPadding = 0
	}
	if cfg.Reader.HorizontalPadding < 0 {
		cfg.Reader.HorizontalPadding = 0
	}
	if cfg.Reader.LineSpacing < 0 {
		cfg.Reader.LineSpacing = 0
	}

	return cfg, nil
}

// Save writes cfg back to config.toml.
func Save(cfg Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.toml"), data, 0644)
}
