// Package config reads forumdb settings from the environment.
//
// Variables use the FORUM_ prefix; the rest of the name, lowercased, is the
// koanf key. A .env file in the working directory is loaded first when
// present. Unset values fall back to the defaults below, and the final
// struct is checked with go-playground/validator.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	// Loads .env into the process environment before anything reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Prefix is stripped from every environment variable that is read.
const Prefix = "FORUM_"

const (
	DefaultDBPath     = "data/forum.db"
	DefaultLogLevel   = "info"
	DefaultBcryptCost = 12
)

// Config holds everything the forumdb tool needs to reach its database.
type Config struct {
	DBPath     string `koanf:"db_path" validate:"required"`
	LogLevel   string `koanf:"log_level" validate:"required,oneof=debug info warn error"`
	BcryptCost int    `koanf:"bcrypt_cost" validate:"min=4,max=31"`
}

// Load reads the environment, applies defaults and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(Prefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, Prefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("config: loading environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}
	cfg.applyDefaults()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: invalid: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DBPath == "" {
		c.DBPath = DefaultDBPath
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
	if c.BcryptCost == 0 {
		c.BcryptCost = DefaultBcryptCost
	}
}

// Level returns LogLevel as a slog level.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}
