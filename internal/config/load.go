package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load,
// e.g. TODO_AUTH_JWT_SECRET for auth.jwt_secret.
const EnvPrefix = "TODO"

// Default values applied before any file or environment source.
const (
	DefaultPort                 = 8080
	DefaultLogLevel             = "info"
	DefaultRequestTimeout       = "15s"
	DefaultDriver               = "postgres"
	DefaultMaxOpenConns         = 10
	DefaultMaxIdleConns         = 5
	DefaultConnMaxLifetime      = "5m"
	DefaultQueryTimeout         = "5s"
	DefaultTokenLifetimeMinutes = 30
	DefaultBcryptCost           = 12
)

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadWithViper(viper.New())
}

// LoadWithViper loads configuration using the provided viper instance. It lets
// callers (mainly tests) point viper at an explicit config file.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about, so every
	// key without a default has to be bound explicitly.
	for _, key := range []string{"database.url", "auth.jwt_secret"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks a Config against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.log_level", DefaultLogLevel)
	v.SetDefault("server.request_timeout", DefaultRequestTimeout)

	v.SetDefault("database.driver", DefaultDriver)
	v.SetDefault("database.max_open_conns", DefaultMaxOpenConns)
	v.SetDefault("database.max_idle_conns", DefaultMaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", DefaultConnMaxLifetime)
	v.SetDefault("database.query_timeout", DefaultQueryTimeout)

	v.SetDefault("auth.token_lifetime_minutes", DefaultTokenLifetimeMinutes)
	v.SetDefault("auth.bcrypt_cost", DefaultBcryptCost)
}
