package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Netflix/go-env"

	wiki "github.com/micro-hygiene/wiki"
)

// Config is resolved once at startup; the API base URL is never re-read during the life of the server
type Config struct {
	Environment      string        `env:"ENVIRONMENT,default=dev"`
	Host             string        `env:"HOST,default=0.0.0.0"`
	Port             int           `env:"PORT,default=3000"`
	LogLevel         string        `env:"LOG_LEVEL,default=debug"`
	ReadTimeout      time.Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout     time.Duration `env:"WRITE_TIMEOUT,default=15s"`
	IdleTimeout      time.Duration `env:"IDLE_TIMEOUT,default=60s"`
	APIBaseURL       string        `env:"API_BASE_URL,default=http://localhost:8000/api"`
	APITimeout       time.Duration `env:"API_TIMEOUT,default=10s"`
	TurnstileSiteKey string        `env:"TURNSTILE_SITE_KEY"` // empty = static dev widget (not allowed in prod)
	MaxFormSize      int64         `env:"MAX_FORM_SIZE,default=65536"`
	RateLimitRPS     int32         `env:"RATE_LIMIT_RPS,default=10"` // applies to form posts, <= 0 disables
	RateLimitBurst   int32         `env:"RATE_LIMIT_BURST,default=5"`
}

// NewConfig loads the configuration from the environment
func NewConfig() (*Config, error) {
	var cfg Config

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	if !wiki.ValidEnvs[cfg.Environment] {
		return fmt.Errorf("invalid environment '%s'. Valid environments: dev, test, perf, staging, prod", cfg.Environment)
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Port)
	}

	if cfg.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive, got %v", cfg.ReadTimeout)
	}
	if cfg.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive, got %v", cfg.WriteTimeout)
	}
	if cfg.IdleTimeout <= 0 {
		return fmt.Errorf("idle timeout must be positive, got %v", cfg.IdleTimeout)
	}
	if cfg.APITimeout <= 0 {
		return fmt.Errorf("api timeout must be positive, got %v", cfg.APITimeout)
	}

	if cfg.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL cannot be empty")
	}
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute http(s) URL, got %q", cfg.APIBaseURL)
	}

	if cfg.MaxFormSize <= 0 {
		return fmt.Errorf("max form size must be positive, got %d", cfg.MaxFormSize)
	}

	if cfg.TurnstileSiteKey == "" && cfg.Environment == "prod" {
		return fmt.Errorf("TURNSTILE_SITE_KEY is required in prod")
	}

	return nil
}

// Addr is the listen address of the ui server
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DefaultConfig returns the configuration used when no environment variables are set
func DefaultConfig() *Config {
	return &Config{
		Environment:    "dev",
		Host:           "0.0.0.0",
		Port:           3000,
		LogLevel:       "debug",
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		APIBaseURL:     "http://localhost:8000/api",
		APITimeout:     wiki.DefaultAPITimeout,
		MaxFormSize:    wiki.DefaultMaxFormSize,
		RateLimitRPS:   10,
		RateLimitBurst: 5,
	}
}
