package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load,
// e.g. CLASSIFIEDS_DATABASE_URL for database.url.
const EnvPrefix = "CLASSIFIEDS"

// legacyEnvNames are unprefixed variable names honoured for compatibility with
// existing deployments. The prefixed form always wins.
var legacyEnvNames = map[string]string{
	"database.url":    "DATABASE_URL",
	"auth.jwt_secret": "JWT_SECRET",
	"server.port":     "PORT",
}

// defaults lists every configuration key with its default value. Keys without
// a sensible default map to nil and are only bound to the environment.
var defaults = map[string]any{
	"server.port":                        4000,
	"server.log_level":                   "info",
	"server.allowed_origins":             []string{"*"},
	"server.shutdown_timeout_seconds":    10,
	"database.url":                       nil,
	"database.max_open_conns":            10,
	"database.max_idle_conns":            5,
	"database.conn_max_lifetime_minutes": 5,
	"database.auto_migrate":              false,
	"auth.jwt_secret":                    nil,
	"auth.token_lifetime_minutes":        1440,
	"auth.bcrypt_cost":                   12,
	"metrics.enabled":                    true,
	"metrics.path":                       "/metrics",
}

// Load configuration from a .env file, an optional config.yaml and environment
// variables. Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	// A missing .env file is the normal case outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	v := viper.New()

	for key, value := range defaults {
		if value != nil {
			v.SetDefault(key, value)
		}
		envName := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		names := []string{key, envName}
		if legacy, ok := legacyEnvNames[key]; ok {
			names = append(names, legacy)
		}
		if err := v.BindEnv(names...); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
