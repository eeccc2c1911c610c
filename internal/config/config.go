// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds everything the binary needs to start.
type Config struct {
	Addr            string        `env:"TODO_ADDR" env-default:":8080"`
	DBPath          string        `env:"TODO_DB_PATH" env-default:"data/todo.db"`
	Seed            bool          `env:"TODO_SEED" env-default:"true"`
	LogLevel        string        `env:"TODO_LOG_LEVEL" env-default:"info"`
	CORSOrigins     []string      `env:"TODO_CORS_ORIGINS" env-separator:"," env-default:"*"`
	ShutdownTimeout time.Duration `env:"TODO_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// Load reads the environment, applying defaults for unset variables.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that cleanenv cannot.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("TODO_DB_PATH must not be empty")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("TODO_SHUTDOWN_TIMEOUT must be positive")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel converts a level name such as "debug" or "warn" to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return 0, fmt.Errorf("TODO_LOG_LEVEL: %w", err)
	}
	return level, nil
}

// Origins returns the CORS origins with blanks removed.
func (c Config) Origins() []string {
	var out []string
	for _, o := range c.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
