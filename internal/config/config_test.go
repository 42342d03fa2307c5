package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OTTER_DATABASE_URL", "postgres://localhost/otter")
	t.Setenv("OTTER_JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8089", cfg.ListenAddr)
	assert.Equal(t, "/api/mcp", cfg.MCPPath)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 10*time.Second, cfg.ScrapeTimeout)
	assert.Equal(t, 10, cfg.RateLimitPerSecond)
	assert.Equal(t, "local", cfg.InstanceID)
	assert.Equal(t, "otter-dev", cfg.AppName())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OTTER_DATABASE_URL", "postgres://db/otter")
	t.Setenv("OTTER_JWKS_URL", "https://auth.example.com/.well-known/jwks.json")
	t.Setenv("OTTER_LISTEN_ADDR", ":9000")
	t.Setenv("OTTER_RATE_LIMIT", "0")
	t.Setenv("OTTER_SCRAPE_TIMEOUT", "3s")
	t.Setenv("GRAFANA_LOKI_URL", "https://loki.example.com")
	t.Setenv("OTTER_GRAFANA_LOKI_USER", "42")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, 0, cfg.RateLimitPerSecond)
	assert.Equal(t, 3*time.Second, cfg.ScrapeTimeout)
	assert.Equal(t, "https://loki.example.com", cfg.LokiURL)
	assert.Equal(t, "42", cfg.LokiUser)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			DatabaseURL:   "postgres://localhost/otter",
			JWTSecret:     "secret",
			ScrapeTimeout: time.Second,
			MCPPath:       "/api/mcp",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"jwks only", func(c *Config) { c.JWTSecret = ""; c.JWKSURL = "https://x/jwks" }, false},
		{"no database", func(c *Config) { c.DatabaseURL = "" }, true},
		{"no key source", func(c *Config) { c.JWTSecret = "" }, true},
		{"zero scrape timeout", func(c *Config) { c.ScrapeTimeout = 0 }, true},
		{"relative path", func(c *Config) { c.MCPPath = "mcp" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadRequiresDatabase(t *testing.T) {
	t.Setenv("OTTER_DATABASE_URL", "")
	t.Setenv("OTTER_JWT_SECRET", "secret")

	_, err := Load()
	assert.Error(t, err)
}

// unsetenv removes key for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoadUnprefixedFallback(t *testing.T) {
	unsetenv(t, "OTTER_DATABASE_URL")
	unsetenv(t, "OTTER_JWT_SECRET")
	t.Setenv("DATABASE_URL", "postgres://fallback/otter")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://fallback/otter", cfg.DatabaseURL)
	assert.Equal(t, "secret", cfg.JWTSecret)
}
