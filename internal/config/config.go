// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Storage backends for identities and notes.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Session table backends.
const (
	SessionRedis    = "redis"
	SessionPostgres = "postgres"
	SessionMemory   = "memory"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Backends
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"postgres"`
	SessionBackend string `env:"SESSION_BACKEND" envDefault:"redis"`

	// Database (PostgreSQL), required when either backend is postgres
	DatabaseURL string `env:"DATABASE_URL"`

	// Cache (Redis), required when SESSION_BACKEND=redis
	RedisURL string `env:"REDIS_URL"`

	// Sessions. A zero TTL means sessions live until logout.
	SessionTTL           time.Duration `env:"SESSION_TTL" envDefault:"0s"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`
	SessionCookieSecure  bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`

	// Startup
	AutoMigrate    bool   `env:"AUTO_MIGRATE" envDefault:"true"`
	ConnectRetries uint64 `env:"CONNECT_RETRIES" envDefault:"5"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// NeedsPostgres reports whether any backend is postgres.
func (c *Config) NeedsPostgres() bool {
	return c.StorageBackend == StoragePostgres || c.SessionBackend == SessionPostgres
}

// NeedsRedis reports whether sessions are kept in Redis.
func (c *Config) NeedsRedis() bool {
	return c.SessionBackend == SessionRedis
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Validate checks backend choices and the URLs they depend on.
func (c *Config) Validate() error {
	var errs []error

	switch c.StorageBackend {
	case StoragePostgres, StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND %q: must be postgres or memory", c.StorageBackend))
	}

	switch c.SessionBackend {
	case SessionRedis, SessionPostgres, SessionMemory:
	default:
		errs = append(errs, fmt.Errorf("SESSION_BACKEND %q: must be redis, postgres or memory", c.SessionBackend))
	}

	if c.SessionBackend == SessionPostgres && c.StorageBackend != StoragePostgres {
		// Session rows reference identities by foreign key.
		errs = append(errs, errors.New("SESSION_BACKEND=postgres requires STORAGE_BACKEND=postgres"))
	}

	if c.NeedsPostgres() && c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required for the postgres backend"))
	}
	if c.NeedsRedis() && c.RedisURL == "" {
		errs = append(errs, errors.New("REDIS_URL is required for the redis session backend"))
	}

	if c.SessionTTL < 0 {
		errs = append(errs, errors.New("SESSION_TTL must not be negative"))
	}
	if c.SessionSweepInterval <= 0 {
		errs = append(errs, errors.New("SESSION_SWEEP_INTERVAL must be positive"))
	}
	if c.AppPort <= 0 || c.AppPort > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT %d out of range", c.AppPort))
	}

	return errors.Join(errs...)
}

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
