package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	SessionStoreSQLite = "sqlite"
	SessionStoreRedis  = "redis"
)

// Config holds runtime configuration for userhub.
type Config struct {
	AppEnv  string `envconfig:"APP_ENV" default:"development"`
	AppAddr string `envconfig:"APP_ADDR" default:":3000"`

	// APIBaseURL is the REST backend every page talks to.
	APIBaseURL     string        `envconfig:"API_BASE_URL" default:"http://localhost:8080"`
	BackendTimeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"0s"`

	SessionStore  string        `envconfig:"SESSION_STORE" default:"sqlite"`
	SQLitePath    string        `envconfig:"SQLITE_PATH" default:"userhub.db"`
	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	SessionSecret string        `envconfig:"SESSION_SECRET" required:"true"`
	SessionSalt   string        `envconfig:"SESSION_SALT" default:"userhub-session-v1"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"12h"`
	SecureCookies bool          `envconfig:"SECURE_COOKIES" default:"false"`

	// LoginRateLimit caps POST /login and /register per client IP per minute.
	LoginRateLimit int `envconfig:"LOGIN_RATE_LIMIT" default:"10"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot express.
func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return errors.New("session secret must be provided")
	}
	if len(c.SessionSecret) < 16 {
		return errors.New("session secret must be at least 16 characters")
	}
	if c.SessionSalt == "" {
		return errors.New("session salt must be provided")
	}
	switch c.SessionStore {
	case SessionStoreSQLite, SessionStoreRedis:
	default:
		return fmt.Errorf("unknown session store %q", c.SessionStore)
	}
	if c.SessionTTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	return nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
