package config

import (
	"errors"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds configuration for the data-API gateway module.
type Config struct {
	// Remote CRUD backend serving items, coupons, payments, history and
	// ratings. The gateway treats it as an opaque HTTP dependency.
	DataAPIBaseURL string `env:"DATA_API_BASE_URL" envDefault:"https://reuse-lwju.onrender.com"`

	// Bound on every outbound call
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"15s"`
}

// LoadConfig loads gateway configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load gateway configuration from environment: " + err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks invariants that env tags cannot express.
func (cfg *Config) Validate() error {
	if cfg.DataAPIBaseURL == "" {
		return errors.New("DATA_API_BASE_URL is required")
	}
	if cfg.UpstreamTimeout <= 0 {
		return errors.New("UPSTREAM_TIMEOUT must be positive")
	}
	cfg.DataAPIBaseURL = strings.TrimSuffix(cfg.DataAPIBaseURL, "/")
	return nil
}
