package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"played-together/internal/constants"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

var ErrMissingAPIKey = errors.New("RGAPI_KEY environment variable not found, set it or store a key with --api-key")

type Config struct {
	APIKey        string        `env:"RGAPI_KEY"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"warn"`
	LogFormat     string        `env:"LOG_FORMAT" envDefault:"console"`
	ConfigDir     string        `env:"PLAYEDTOGETHER_CONFIG_DIR"`
	RateLimit     float64       `env:"PLAYEDTOGETHER_RATE_LIMIT" envDefault:"20"`
	APIHostFormat string        `env:"PLAYEDTOGETHER_API_HOST_FORMAT" envDefault:"https://%s.api.riotgames.com"`
	APITimeout    time.Duration `env:"PLAYEDTOGETHER_API_TIMEOUT" envDefault:"10s"`
	ServerAddr    string        `env:"PLAYEDTOGETHER_ADDR" envDefault:":8080"`
}

// Load reads a .env file when one exists and then parses the environment.
// The API key is not required here; see ResolveAPIKey.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = constants.APIDefaultRateLimit
	}
	if cfg.APITimeout <= 0 {
		cfg.APITimeout = constants.ExternalAPITimeout
	}
	return cfg, nil
}

// ResolveAPIKey prefers RGAPI_KEY and falls back to the stored key.
func (c *Config) ResolveAPIKey(settings *Settings) error {
	if c.APIKey != "" {
		return nil
	}
	if settings != nil && settings.APIKey != "" {
		c.APIKey = settings.APIKey
		return nil
	}
	return ErrMissingAPIKey
}

// SettingsPath is where the persisted settings file lives.
func (c *Config) SettingsPath() (string, error) {
	dir := c.ConfigDir
	if dir == "" {
		var err error
		dir, err = userConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not find configuration directory: %w", err)
		}
		dir = filepath.Join(dir, constants.AppName)
	}
	return filepath.Join(dir, constants.SettingsFileName), nil
}

func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.WarnLevel
	}
	return level
}

func (c *Config) LogFields(logger zerolog.Logger) {
	logger.Debug().
		Str("log_level", c.LogLevel).
		Str("config_dir", c.ConfigDir).
		Float64("rate_limit", c.RateLimit).
		Dur("api_timeout", c.APITimeout).
		Bool("api_key_set", c.APIKey != "").
		Msg("configuration loaded")
}
