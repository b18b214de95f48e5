package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// AllowedOrigins is a comma separated list of SPA origins for CORS.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS, default=http://localhost:5173"`
	// DemoMode seeds and accepts the demo accounts shown on the login page.
	DemoMode  bool   `env:"DEMO_MODE,  default=false"`
	LoginRate string `env:"LOGIN_RATE, default=20-M"`

	Session SessionConfig
	Backend BackendConfig
	Scratch ScratchConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type SessionConfig struct {
	Secret string `env:"SESSION_SECRET"`
	// Store is "redis" or "memory".
	Store        string        `env:"SESSION_BACKEND,       default=redis"`
	DurableTTL   time.Duration `env:"SESSION_DURABLE_TTL,   default=720h"`
	EphemeralTTL time.Duration `env:"SESSION_EPHEMERAL_TTL, default=12h"`
}

type BackendConfig struct {
	// Env selects which of the URLs below is used: production, local or ngrok.
	Env           string        `env:"BACKEND_ENV,            default=production"`
	URLProduction string        `env:"BACKEND_URL_PRODUCTION, default=https://migrate-all-in-one.onrender.com"`
	URLLocal      string        `env:"BACKEND_URL_LOCAL,      default=http://localhost:8000"`
	URLNgrok      string        `env:"BACKEND_URL_NGROK"`
	Timeout       time.Duration `env:"BACKEND_TIMEOUT,        default=60s"`
}

// BaseURL returns the URL of the selected backend environment.
func (b BackendConfig) BaseURL() string {
	switch b.Env {
	case "local":
		return b.URLLocal
	case "ngrok":
		return b.URLNgrok
	default:
		return b.URLProduction
	}
}

type ScratchConfig struct {
	Size int           `env:"PROJECT_SCRATCH_SIZE, default=10000"`
	TTL  time.Duration `env:"PROJECT_SCRATCH_TTL,  default=2h"`
}

type MongoConfig struct {
	// URI may be empty, which disables the call log and demo accounts.
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=quotemate_gateway"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IsProduction reports whether the gateway runs in production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that have no safe default.
func (c *Config) Validate() error {
	var errs []error
	if c.Session.Secret == "" {
		if c.IsProduction() {
			errs = append(errs, errors.New("SESSION_SECRET is required in production"))
		} else {
			c.Session.Secret = "dev-session-secret"
		}
	}
	switch c.Session.Store {
	case "redis", "memory":
	default:
		errs = append(errs, fmt.Errorf("SESSION_BACKEND must be redis or memory, got %q", c.Session.Store))
	}
	switch c.Backend.Env {
	case "production", "local", "ngrok":
	default:
		errs = append(errs, fmt.Errorf("BACKEND_ENV must be production, local or ngrok, got %q", c.Backend.Env))
	}
	if c.Backend.BaseURL() == "" {
		errs = append(errs, fmt.Errorf("no backend URL configured for BACKEND_ENV=%s", c.Backend.Env))
	}
	if c.DemoMode && c.Mongo.URI == "" {
		errs = append(errs, errors.New("DEMO_MODE requires MONGO_URI"))
	}
	return errors.Join(errs...)
}
