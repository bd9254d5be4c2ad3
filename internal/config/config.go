// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Storage drivers accepted in STORE_DRIVER.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"3003"`

	// Storage
	StoreDriver    string `env:"STORE_DRIVER" envDefault:"mongo"`
	MongoDBURI     string `env:"MONGODB_URI"`
	TestMongoDBURI string `env:"TEST_MONGODB_URI"`
	MongoDatabase  string `env:"MONGODB_DATABASE" envDefault:"bloglist"`
	DatabaseURL    string `env:"DATABASE_URL"`
	// DBConnectRetry keeps the server up when the store is unreachable at startup.
	DBConnectRetry bool `env:"DB_CONNECT_RETRY" envDefault:"false"`

	// Cache (Redis). Optional; backs the shared login limiter.
	RedisURL string `env:"REDIS_URL"`

	// Tokens
	Secret   string        `env:"SECRET,required,notEmpty"`
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"1h"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"20s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`

	// Login rate limiting
	LoginRatePerMinute int `env:"LOGIN_RATE_PER_MINUTE" envDefault:"10"`
	LoginRateBurst     int `env:"LOGIN_RATE_BURST" envDefault:"5"`

	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// IsTest returns true if running against the test database.
func (c *Config) IsTest() bool {
	return c.AppEnv == "test"
}

// MongoURI returns the connection string for the current environment.
func (c *Config) MongoURI() string {
	if c.IsTest() && c.TestMongoDBURI != "" {
		return c.TestMongoDBURI
	}
	return c.MongoDBURI
}

// LoginRateLimitEnabled reports whether login attempts are throttled.
func (c *Config) LoginRateLimitEnabled() bool {
	return c.LoginRatePerMinute > 0 && c.LoginRateBurst > 0
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

// Validate checks settings that depend on each other.
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI() == "" {
			errs = append(errs, errors.New("MONGODB_URI is required for the mongo store"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	if c.TokenTTL < 0 {
		errs = append(errs, errors.New("TOKEN_TTL must not be negative"))
	}

	return errors.Join(errs...)
}

// Load reads an optional .env file, parses environment variables and
// returns a validated Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
