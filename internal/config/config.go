// Package config loads the server configuration from the environment.
package config

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix, e.g. OTTER_DATABASE_URL.
const Prefix = "otter"

// Config holds the server configuration. Every field is read from
// OTTER_<NAME> and falls back to the unprefixed <NAME>, so the shared
// GRAFANA_LOKI_* variables work without the prefix.
type Config struct {
	ListenAddr      string        `envconfig:"LISTEN_ADDR" default:":8089"`
	MCPPath         string        `envconfig:"MCP_PATH" default:"/api/mcp"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	InstanceID      string        `envconfig:"INSTANCE_ID" default:"local"`
	InstanceRegion  string        `envconfig:"INSTANCE_REGION" default:"local"`

	DatabaseURL string `envconfig:"DATABASE_URL"`

	JWTSecret string `envconfig:"JWT_SECRET"`
	JWKSURL   string `envconfig:"JWKS_URL"`
	JWTIssuer string `envconfig:"JWT_ISSUER"`

	RateLimitPerSecond int `envconfig:"RATE_LIMIT" default:"10"`

	ScrapeTimeout   time.Duration `envconfig:"SCRAPE_TIMEOUT" default:"10s"`
	ScrapeUserAgent string        `envconfig:"SCRAPE_USER_AGENT" default:"Mozilla/5.0 (compatible; OtterBot/1.0)"`

	LokiURL    string `envconfig:"GRAFANA_LOKI_URL"`
	LokiUser   string `envconfig:"GRAFANA_LOKI_USER"`
	LokiAPIKey string `envconfig:"GRAFANA_LOKI_API_KEY"`
	AppEnv     string `envconfig:"APP_ENV" default:"dev"`
}

// Load reads and validates the configuration.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, errors.Wrap(err, "process environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that have no usable default.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("OTTER_DATABASE_URL is required")
	}
	if c.JWTSecret == "" && c.JWKSURL == "" {
		return errors.New("one of OTTER_JWT_SECRET or OTTER_JWKS_URL is required")
	}
	if c.ScrapeTimeout <= 0 {
		return errors.New("OTTER_SCRAPE_TIMEOUT must be positive")
	}
	if c.MCPPath == "" || c.MCPPath[0] != '/' {
		return errors.Errorf("OTTER_MCP_PATH must start with /, got %q", c.MCPPath)
	}
	return nil
}

// AppName is the Loki app label for this environment.
func (c *Config) AppName() string {
	return "otter-" + c.AppEnv
}
