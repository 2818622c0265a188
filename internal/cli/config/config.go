// Package config stores equipvizctl settings and the cached access token.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const defaultServer = "http://localhost:8080"

// Config stores CLI configuration.
type Config struct {
	Server      string `json:"server"`
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
}

// Path returns the configuration file path (~/.equipvizctl/config.json).
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".equipvizctl", "config.json"), nil
}

// Load loads configuration from file, returning defaults when none exists.
func Load() (*Config, error) {
	configFile, err := Path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return &Config{Server: defaultServer}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Server == "" {
		cfg.Server = defaultServer
	}

	return &cfg, nil
}

// Save writes the configuration to file with user-only permissions.
func (c *Config) Save() error {
	configFile, err := Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// IsAuthenticated reports whether a token is cached.
func (c *Config) IsAuthenticated() bool {
	return c.AccessToken != ""
}
