package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	Env      string `mapstructure:"env"       validate:"required,oneof=development test production"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// RequestTimeoutSeconds bounds how long a single request may run.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`

	// RateLimitRequests caps the number of requests processed concurrently;
	// RateLimitBacklog requests beyond the cap wait in line before being
	// rejected.
	RateLimitRequests int `mapstructure:"rate_limit_requests" validate:"required,gt=0"`
	RateLimitBacklog  int `mapstructure:"rate_limit_backlog"  validate:"gte=0"`
}

// IsProduction reports whether the server runs in production mode.
// Non-production responses may carry diagnostic detail.
func (c ServerConfig) IsProduction() bool {
	return c.Env == "production"
}

// RequestTimeout returns the request timeout as a duration.
func (c ServerConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`

	// Connection pool sizing. The pool is the only shared mutable resource
	// between requests.
	MaxOpenConns           int `mapstructure:"max_open_conns"            validate:"required,gt=0"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"            validate:"required,gt=0"`
	ConnMaxLifetimeMinutes int `mapstructure:"conn_max_lifetime_minutes" validate:"required,gt=0"`
	ConnTimeoutSeconds     int `mapstructure:"conn_timeout_seconds"      validate:"required,gt=0"`
}

// ConnMaxLifetime returns the connection lifetime as a duration.
func (c DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetimeMinutes) * time.Minute
}

// ConnTimeout returns the connection acquisition timeout as a duration.
func (c DatabaseConfig) ConnTimeout() time.Duration {
	return time.Duration(c.ConnTimeoutSeconds) * time.Second
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// TokenLifetimeMinutes is how long issued tokens stay valid.
	// Defaults to 7 days.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`

	Issuer   string `mapstructure:"issuer"   validate:"required"`
	Audience string `mapstructure:"audience" validate:"required"`
}

// TokenLifetime returns the token lifetime as a duration.
func (c AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenLifetimeMinutes) * time.Minute
}
