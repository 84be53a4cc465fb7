package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds process-level settings
type Config struct {
	Port        string        `env:"PORT" envDefault:"8080"`
	PublicURL   string        `env:"PUBLIC_URL" envDefault:"http://localhost:8080"`
	RedisURI    string        `env:"REDIS_URI"`
	MongoURI    string        `env:"MONGO_URI"`
	MongoDB     string        `env:"MONGO_DB" envDefault:"brainstorm"`
	CacheTTL    time.Duration `env:"QUESTION_CACHE_TTL" envDefault:"1h"`
	CORSOrigins string        `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
	OTelEnabled bool          `env:"OTEL_ENABLED" envDefault:"true"`
	OTelURL     string        `env:"OTEL_ENDPOINT"`

	Auth AuthConfig
	AI   AIConfig
}

// AuthConfig holds operator credentials for the admin endpoints
type AuthConfig struct {
	Username string        `env:"HOST_USERNAME" envDefault:"admin"`
	Password string        `env:"HOST_PASSWORD" envDefault:"password123"`
	Secret   string        `env:"JWT_SECRET" envDefault:"super-secret-key-change-in-production"`
	TokenTTL time.Duration `env:"JWT_TTL" envDefault:"12h"`
}

// Load reads the full configuration from the environment
func Load() (*Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.RedisURI = strings.TrimPrefix(cfg.RedisURI, "redis://")
	cfg.PublicURL = strings.TrimSuffix(cfg.PublicURL, "/")
	return &cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
