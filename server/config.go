package server

import (
	"fmt"
	"time"

	"github.com/kbukum/recq/security"
)

// Config holds HTTP server configuration.
type Config struct {
	Addr         string        `yaml:"addr" mapstructure:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	// MaxRecords caps records (and previous records) per query. Zero is no limit.
	MaxRecords int `yaml:"max_records" mapstructure:"max_records"`
	// MaxConcurrent caps plans executing at once; further queries queue for
	// up to QueueTimeout and are then rejected with 503.
	MaxConcurrent int           `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	QueueTimeout  time.Duration `yaml:"queue_timeout" mapstructure:"queue_timeout"`
	// RateLimit is requests per second accepted on /v1 routes. Zero disables it.
	RateLimit float64    `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst int        `yaml:"rate_burst" mapstructure:"rate_burst"`
	Auth      AuthConfig `yaml:"auth" mapstructure:"auth"`
	// TLS serves HTTPS when a certificate is configured.
	TLS security.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// AuthConfig configures Bearer token checks on /v1 routes.
type AuthConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Secret  string        `yaml:"secret" mapstructure:"secret"`
	Issuer  string        `yaml:"issuer" mapstructure:"issuer"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 30 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60 * time.Second
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = 10 << 20
	}
	if c.MaxRecords == 0 {
		c.MaxRecords = 100_000
	}
	if c.MaxConcurrent == 0 {
		c.MaxConcurrent = 64
	}
	if c.QueueTimeout == 0 {
		c.QueueTimeout = 2 * time.Second
	}
	if c.Auth.Issuer == "" {
		c.Auth.Issuer = "recq"
	}
	if c.Auth.TTL == 0 {
		c.Auth.TTL = time.Hour
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.IdleTimeout < 0 {
		return fmt.Errorf("server timeouts must be non-negative")
	}
	if c.MaxBodyBytes < 0 {
		return fmt.Errorf("server.max_body_bytes must be non-negative (got: %d)", c.MaxBodyBytes)
	}
	if c.MaxRecords < 0 {
		return fmt.Errorf("server.max_records must be non-negative (got: %d)", c.MaxRecords)
	}
	if c.MaxConcurrent < 0 || c.QueueTimeout < 0 {
		return fmt.Errorf("server.max_concurrent and server.queue_timeout must be non-negative")
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		return fmt.Errorf("server.rate_limit and server.rate_burst must be non-negative")
	}
	if c.Auth.Enabled && len(c.Auth.Secret) < 32 {
		return fmt.Errorf("server.auth.secret must be at least 32 bytes when auth is enabled")
	}
	return c.TLS.Validate()
}
