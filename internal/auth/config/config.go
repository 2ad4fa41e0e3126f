package config

import (
	"errors"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds all configuration for the auth module.
type Config struct {
	// Credential store
	MongoDBURI   string `env:"MONGODB_URI"`
	DatabaseName string `env:"DATABASE_NAME" envDefault:"reuse_auth_db"`

	// JWT
	JWTSecretKey string        `env:"JWT_SECRET" envDefault:""`
	JWTIssuer    string        `env:"JWT_ISSUER" envDefault:"reuse-gateway"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" envDefault:"1h"`

	// Cookie
	CookieName     string `env:"COOKIE_NAME" envDefault:"jwt_token"`
	CookiePath     string `env:"COOKIE_PATH" envDefault:"/"`
	CookieDomain   string `env:"COOKIE_DOMAIN" envDefault:""`
	CookieSecure   bool   `env:"COOKIE_SECURE" envDefault:"false"`
	CookieHTTPOnly bool   `env:"COOKIE_HTTP_ONLY" envDefault:"true"`
	CookieSameSite string `env:"COOKIE_SAME_SITE" envDefault:"Lax"`

	// Environment ("production" turns on the Secure cookie flag)
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// Demo user seeding for local development
	SeedDemoUser bool `env:"SEED_DEMO_USER" envDefault:"false"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load auth configuration from environment: " + err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks invariants that env tags cannot express. A missing signing
// secret is a fatal configuration error: the gateway must never fall back to
// issuing unsigned tokens.
func (cfg *Config) Validate() error {
	if cfg.JWTSecretKey == "" {
		return errors.New("JWT_SECRET is required")
	}
	if cfg.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}

	cfg.CookieSameSite = normalizeSameSite(cfg.CookieSameSite)
	if cfg.CookieSameSite == "" {
		return errors.New("COOKIE_SAME_SITE must be one of 'Lax', 'Strict', or 'None'")
	}

	if cfg.IsProduction() {
		cfg.CookieSecure = true
	}
	return nil
}

// IsProduction reports whether the gateway runs with production settings
func (cfg *Config) IsProduction() bool {
	env := strings.ToLower(cfg.Environment)
	return env == "production" || env == "prod"
}

func normalizeSameSite(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "lax":
		return "Lax"
	case "strict":
		return "Strict"
	case "none":
		return "None"
	default:
		return ""
	}
}
