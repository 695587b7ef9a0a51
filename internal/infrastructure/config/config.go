// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "fanbase.yaml"
	// DefaultDataDir is the directory holding the SQLite database.
	DefaultDataDir = "data"
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	Server ServerConfig `yaml:"server,omitempty"`
	SQLite SQLiteConfig `yaml:"sqlite,omitempty"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `yaml:"port,omitempty"`
	// Env selects logger and router modes: "development" or "production".
	Env string `yaml:"env,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite database.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database.
	Path string `yaml:"path,omitempty"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
			Env:  "development",
		},
		SQLite: SQLiteConfig{
			Path: filepath.Join(DefaultDataDir, "fanbase.db"),
		},
	}
}

// Load loads configuration from the config file in the given path, falling
// back to defaults when the file is absent. A .env file in the same
// directory is read first so the env overrides below see it.
func Load(basePath string) (*Config, error) {
	_ = godotenv.Load(filepath.Join(basePath, ".env"))

	cfg := Default()

	configFile := filepath.Join(basePath, DefaultConfigFile)
	data, err := os.ReadFile(configFile)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if port := os.Getenv("FANBASE_PORT"); port != "" {
		c.Server.Port = port
	}
	if env := os.Getenv("FANBASE_ENV"); env != "" {
		c.Server.Env = env
	}
	if path := os.Getenv("FANBASE_DB_PATH"); path != "" {
		c.SQLite.Path = path
	}
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigFile)
}

// Exists checks if a config file exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}
