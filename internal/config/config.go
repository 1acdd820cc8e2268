// Package config provides application configuration management.
// Configuration is loaded once at startup from environment variables and an
// optional local YAML file, then passed explicitly to the components that need it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	// Application settings
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	Port   int    `env:"PORT" envDefault:"8080"`

	// Database (PostgreSQL). Either a postgres:// URL or a key=value string.
	DatabaseURL string `env:"DATABASE_URL"`

	// ConfigFile is the local configuration file holding the fallback
	// connection string.
	ConfigFile string `env:"CONFIG_FILE" envDefault:"config.yaml"`

	// DefaultConnection is the fallback connection string used when
	// DATABASE_URL is absent. The environment value wins over the file.
	DefaultConnection string `env:"CONNECTIONSTRINGS__DEFAULTCONNECTION"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// fileConfig mirrors the layout of the local configuration file.
type fileConfig struct {
	ConnectionStrings struct {
		DefaultConnection string `yaml:"default_connection"`
	} `yaml:"connection_strings"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads the process environment and the local configuration file.
func Load() (*Config, error) {
	return LoadFrom(env.ToMap(os.Environ()))
}

// LoadFrom builds a Config from the given environment map instead of the
// process environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.DefaultConnection == "" && cfg.ConfigFile != "" {
		fc, err := readFile(cfg.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg.DefaultConnection = fc.ConnectionStrings.DefaultConnection
	}

	return cfg, nil
}

// readFile parses the local configuration file. A missing file yields an
// empty configuration.
func readFile(path string) (*fileConfig, error) {
	fc := &fileConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fc, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return fc, nil
}
