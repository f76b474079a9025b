// Package config loads the application configuration from a YAML file,
// environment variables and command-line flags, in that order of
// increasing precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// envPrefix namespaces the environment variables, e.g.
// PREPANOTE_LISTEN or PREPANOTE_REVIEW__PULL_LIMIT ("__" nests keys).
const envPrefix = "PREPANOTE_"

// Review holds the due-set selection policy. The 14/7/10 defaults come
// from the scheduling policy and are deliberately tunable; there is no
// derivation behind them.
type Review struct {
	// DeadlineHorizonDays is how far ahead calendar events are scanned
	// when deciding which subjects get a priority boost.
	DeadlineHorizonDays int `koanf:"deadline_horizon_days" validate:"gte=1"`
	// PullForwardDays bounds how far ahead of their due date flashcards
	// may be pulled into a session for a boosted subject.
	PullForwardDays int `koanf:"pull_forward_days" validate:"gte=1"`
	// PullForwardLimit caps pulled-forward flashcards per subject.
	PullForwardLimit int `koanf:"pull_forward_limit" validate:"gte=1"`
}

// AI configures the text-generation client.
type AI struct {
	BaseURL     string        `koanf:"base_url" validate:"required,url"`
	APIKey      string        `koanf:"api_key"`
	Model       string        `koanf:"model" validate:"required"`
	MaxTokens   int           `koanf:"max_tokens" validate:"gte=1"`
	Timeout     time.Duration `koanf:"timeout" validate:"gt=0"`
	MaxAttempts int           `koanf:"max_attempts" validate:"gte=1"`
	RetryDelay  time.Duration `koanf:"retry_delay" validate:"gt=0"`
	RetryFactor float64       `koanf:"retry_factor" validate:"gte=1"`
}

// Config is the root configuration.
type Config struct {
	DBPath   string `koanf:"db_path" validate:"required"`
	Listen   string `koanf:"listen" validate:"required,hostname_port"`
	ReposDir string `koanf:"repos_dir" validate:"required"`
	Review   Review `koanf:"review"`
	AI       AI     `koanf:"ai"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		DBPath:   "prepanote.db",
		Listen:   "127.0.0.1:8484",
		ReposDir: "repos",
		Review: Review{
			DeadlineHorizonDays: 14,
			PullForwardDays:     7,
			PullForwardLimit:    10,
		},
		AI: AI{
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o-mini",
			MaxTokens:   4096,
			Timeout:     60 * time.Second,
			MaxAttempts: 3,
			RetryDelay:  2 * time.Second,
			RetryFactor: 2,
		},
	}
}

// Load builds the configuration from the optional YAML file at path,
// then PREPANOTE_* environment variables, then the given flag set.
// A missing file is only an error when its path was set explicitly.
func Load(path string, explicit bool, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		err := k.Load(file.Provider(path), yaml.Parser())
		if err != nil {
			if !os.IsNotExist(err) || explicit {
				return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(key string) string {
		key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load environment: %w", err)
	}

	if flags != nil {
		// Flag names use dashes (--db-path); config keys use underscores.
		provider := posflag.ProviderWithValue(flags, ".", k, func(key, value string) (string, interface{}) {
			return strings.ReplaceAll(key, "-", "_"), value
		})
		if err := k.Load(provider, nil); err != nil {
			return Config{}, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
