package cli

import (
	"fmt"

	"github.com/kbukum/recq/config"
	"github.com/kbukum/recq/server"
)

const serviceName = "recq"

// AppConfig is the recq configuration file layout. Every key can be
// overridden with a RECQ_ prefixed environment variable, e.g.
// RECQ_SERVER_ADDR or RECQ_LOGGING_LEVEL.
type AppConfig struct {
	config.ServiceConfig `mapstructure:",squash"`
	Server               server.Config `yaml:"server" mapstructure:"server"`
	Tracing              TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Source               SourceConfig  `yaml:"source" mapstructure:"source"`
}

// TracingConfig controls OTLP export of traces and metrics.
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// SourceConfig names the default record source.
type SourceConfig struct {
	// SQLite is a database DSN used by run --sql and reported by /health.
	SQLite string `yaml:"sqlite" mapstructure:"sqlite"`
}

// ApplyDefaults fills unset fields.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	if c.Tracing.Endpoint == "" {
		c.Tracing.Endpoint = "localhost:4318"
	}
	if c.Tracing.SampleRate == 0 {
		c.Tracing.SampleRate = 1.0
	}
}

// Validate checks the configuration.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate must be between 0 and 1 (got: %v)", c.Tracing.SampleRate)
	}
	return nil
}

func loadAppConfig(path string) (*AppConfig, error) {
	var opts []config.LoaderOption
	if path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	cfg := &AppConfig{}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
