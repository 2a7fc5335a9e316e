package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// UserConfig holds user-specific settings from .adgen/config.json: the
// provider credential plus the debug-logging switches read by the logging
// package.
type UserConfig struct {
	// Provider API key (the single opaque credential this tool stores)
	APIKey string `json:"api_key,omitempty"`

	// Logging switches (mirrored by internal/logging)
	Logging *UserLogging `json:"logging,omitempty"`
}

// UserLogging is the logging section of the user config.
type UserLogging struct {
	DebugMode  bool            `json:"debug_mode"`
	Level      string          `json:"level,omitempty"`
	Categories map[string]bool `json:"categories,omitempty"`
}

// DefaultUserConfigPath returns the default path to .adgen/config.json.
func DefaultUserConfigPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return filepath.Join(".adgen", "config.json")
	}
	return filepath.Join(cwd, ".adgen", "config.json")
}

// LoadUserConfig loads configuration from .adgen/config.json.
// A missing file yields an empty config.
func LoadUserConfig(path string) (*UserConfig, error) {
	cfg := &UserConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config: %w", err)
	}
	return cfg, nil
}

// Save saves configuration to the given path.
func (c *UserConfig) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}
	return nil
}
