// Package config loads adgen configuration: a YAML file for tunables, a JSON
// user config for the provider credential, and environment overrides on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all adgen configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Generation provider configuration
	Provider ProviderConfig `yaml:"provider"`

	// History persistence
	History HistoryConfig `yaml:"history"`

	// Export output
	Export ExportConfig `yaml:"export"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ProviderConfig configures the generation provider client.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`

	// Model per asset family
	TextModel   string `yaml:"text_model"`
	ImageModel  string `yaml:"image_model"`  // generateContent image output
	ImagenModel string `yaml:"imagen_model"` // predict batch images
	VideoModel  string `yaml:"video_model"`
	SpeechModel string `yaml:"speech_model"`
	LiveModel   string `yaml:"live_model"`

	Timeout           string `yaml:"timeout"`
	VideoPollInterval string `yaml:"video_poll_interval"`
	VideoTimeout      string `yaml:"video_timeout"`
}

// HistoryConfig configures the campaign history store.
type HistoryConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// ExportConfig configures bundle output.
type ExportConfig struct {
	Directory string `yaml:"directory"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "adgen",
		Version: "1.0.0",

		Provider: ProviderConfig{
			BaseURL:           "https://generativelanguage.googleapis.com/v1beta",
			TextModel:         "gemini-2.5-flash",
			ImageModel:        "gemini-3-pro-image-preview",
			ImagenModel:       "imagen-4.0-generate-001",
			VideoModel:        "veo-3.1-generate-preview",
			SpeechModel:       "gemini-2.5-flash-preview-tts",
			LiveModel:         "gemini-2.5-flash-native-audio-preview",
			Timeout:           "120s",
			VideoPollInterval: "10s",
			VideoTimeout:      "5m",
		},

		History: HistoryConfig{
			DatabasePath: ".adgen/history.db",
		},

		Export: ExportConfig{
			Directory: ".",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file, then applies the user config
// credential and environment overrides. A missing file yields defaults.
func Load(path string) (*Config, error) {
	// Pick up a local .env before reading the environment. Missing file is
	// the normal case.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyUserCredential()
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyUserCredential()
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyUserCredential fills the API key from .adgen/config.json when the
// YAML file does not carry one.
func (c *Config) applyUserCredential() {
	if c.Provider.APIKey != "" {
		return
	}
	uc, err := LoadUserConfig(DefaultUserConfigPath())
	if err != nil {
		return
	}
	if uc.APIKey != "" {
		c.Provider.APIKey = uc.APIKey
	}
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Provider.APIKey = key
	}
	if key := os.Getenv("API_KEY"); key != "" && c.Provider.APIKey == "" {
		c.Provider.APIKey = key
	}
	if url := os.Getenv("ADGEN_BASE_URL"); url != "" {
		c.Provider.BaseURL = url
	}
	if path := os.Getenv("ADGEN_DB"); path != "" {
		c.History.DatabasePath = path
	}
	if dir := os.Getenv("ADGEN_EXPORT_DIR"); dir != "" {
		c.Export.Directory = dir
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Provider.APIKey == "" {
		return fmt.Errorf("provider API key not configured (set GEMINI_API_KEY or run `adgen config set-key`)")
	}
	if c.Provider.BaseURL == "" {
		return fmt.Errorf("provider base URL not configured")
	}
	return nil
}

// GetTimeout returns the per-request provider timeout as a duration.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Provider.Timeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}

// GetVideoPollInterval returns the video job poll interval as a duration.
func (c *Config) GetVideoPollInterval() time.Duration {
	d, err := time.ParseDuration(c.Provider.VideoPollInterval)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetVideoTimeout returns the video job wall-clock budget as a duration.
func (c *Config) GetVideoTimeout() time.Duration {
	d, err := time.ParseDuration(c.Provider.VideoTimeout)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}
