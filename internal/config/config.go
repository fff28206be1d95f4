// Package config loads application configuration from PP_-prefixed
// environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"PP_DB_PATH" envDefault:"./data/planpals.db"`
	ServerHost string `env:"PP_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"PP_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"PP_ENV" envDefault:"development"`
	LogLevel   string `env:"PP_LOG_LEVEL" envDefault:"info"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// SlogLevel maps the configured log level onto a slog.Level,
// defaulting to info for unknown values.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.ServerPort < 1 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("PP_SERVER_PORT out of range: %d", cfg.ServerPort)
	}
	return cfg, nil
}
