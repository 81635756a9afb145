package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Default values applied when neither the environment nor a config file
// provides a setting.
const (
	defaultPort                  = 8080
	defaultEnv                   = "development"
	defaultLogLevel              = "info"
	defaultRequestTimeoutSeconds = 30
	defaultRateLimitRequests     = 100
	defaultRateLimitBacklog      = 50

	defaultMaxOpenConns           = 10
	defaultMaxIdleConns           = 5
	defaultConnMaxLifetimeMinutes = 5
	defaultConnTimeoutSeconds     = 5

	// 7 days
	defaultTokenLifetimeMinutes = 10080
	defaultIssuer               = "taskvault"
	defaultAudience             = "taskvault-api"
)

// Load reads configuration from environment variables and optionally a
// config.yaml in the working directory. Environment variables take
// precedence over file values; they use the TASKVAULT_ prefix with dots
// replaced by underscores (e.g. TASKVAULT_AUTH_JWT_SECRET).
// Returns a populated Config struct or an error if loading or validation
// fails.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", defaultPort)
	v.SetDefault("server.env", defaultEnv)
	v.SetDefault("server.log_level", defaultLogLevel)
	v.SetDefault("server.request_timeout_seconds", defaultRequestTimeoutSeconds)
	v.SetDefault("server.rate_limit_requests", defaultRateLimitRequests)
	v.SetDefault("server.rate_limit_backlog", defaultRateLimitBacklog)

	v.SetDefault("database.max_open_conns", defaultMaxOpenConns)
	v.SetDefault("database.max_idle_conns", defaultMaxIdleConns)
	v.SetDefault("database.conn_max_lifetime_minutes", defaultConnMaxLifetimeMinutes)
	v.SetDefault("database.conn_timeout_seconds", defaultConnTimeoutSeconds)

	v.SetDefault("auth.token_lifetime_minutes", defaultTokenLifetimeMinutes)
	v.SetDefault("auth.issuer", defaultIssuer)
	v.SetDefault("auth.audience", defaultAudience)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TASKVAULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; the environment can carry
		// everything. Anything else (unreadable, malformed) is fatal.
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
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
