package config

import "time"

// Config holds all application configuration.
// It is built once at process start and passed explicitly to every component
// that needs a setting; nothing reads configuration from globals.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// RequestTimeout bounds the whole handling of a single HTTP request.
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"required,gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	// Driver selects the storage backend: "postgres" for deployments,
	// "sqlite" for a single-file embedded database.
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`

	// URL is a postgres connection URL or, for sqlite, a file path.
	URL string `mapstructure:"url" validate:"required"`

	MaxOpenConns    int           `mapstructure:"max_open_conns"    validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`

	// QueryTimeout bounds every repository call made on behalf of a request.
	QueryTimeout time.Duration `mapstructure:"query_timeout" validate:"required,gt=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lte=1440"`
	BcryptCost           int    `mapstructure:"bcrypt_cost"            validate:"required,gte=4,lte=31"`
}

// TokenLifetime returns the access token validity window as a duration.
func (c AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenLifetimeMinutes) * time.Minute
}
