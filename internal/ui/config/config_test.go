package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"ENVIRONMENT", "HOST", "PORT", "LOG_LEVEL", "READ_TIMEOUT", "WRITE_TIMEOUT",
		"IDLE_TIMEOUT", "API_BASE_URL", "API_TIMEOUT", "TURNSTILE_SITE_KEY", "MAX_FORM_SIZE",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	} {
		unsetEnv(t, key)
	}

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, "http://localhost:8000/api", cfg.APIBaseURL)
	assert.Equal(t, "0.0.0.0:3000", cfg.Addr())
}

// unsetEnv removes key for the duration of the test
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	prev, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	require.NoError(t, os.Unsetenv(key))
	t.Cleanup(func() { os.Setenv(key, prev) })
}

func TestNewConfigFromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "staging")
	t.Setenv("PORT", "8081")
	t.Setenv("API_BASE_URL", "https://api.example.com/api/")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("TURNSTILE_SITE_KEY", "0x4AAA")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, "https://api.example.com/api", cfg.APIBaseURL, "trailing slash is trimmed")
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.Equal(t, "0x4AAA", cfg.TurnstileSiteKey)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"invalid environment", func(c *Config) { c.Environment = "qa" }, true},
		{"port too high", func(c *Config) { c.Port = 70000 }, true},
		{"zero read timeout", func(c *Config) { c.ReadTimeout = 0 }, true},
		{"zero api timeout", func(c *Config) { c.APITimeout = 0 }, true},
		{"empty base url", func(c *Config) { c.APIBaseURL = "" }, true},
		{"relative base url", func(c *Config) { c.APIBaseURL = "/api" }, true},
		{"ftp base url", func(c *Config) { c.APIBaseURL = "ftp://example.com/api" }, true},
		{"prod without site key", func(c *Config) { c.Environment = "prod" }, true},
		{"prod with site key", func(c *Config) { c.Environment = "prod"; c.TurnstileSiteKey = "key" }, false},
		{"zero form size", func(c *Config) { c.MaxFormSize = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := validateConfig(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
