package main

import (
	"time"

	"github.com/kbukum/streamkit/config"
	"github.com/kbukum/streamkit/flow"
	"github.com/kbukum/streamkit/server"
	"github.com/kbukum/streamkit/validation"
)

// AppConfig is the streamkit binary's configuration.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Pipeline      PipelineConfig      `yaml:"pipeline" mapstructure:"pipeline"`
	Server        server.Config       `yaml:"server" mapstructure:"server"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
}

// PipelineConfig sets the defaults of the run command.
type PipelineConfig struct {
	Format  string `yaml:"format" mapstructure:"format"`
	Trace   bool   `yaml:"trace" mapstructure:"trace"`
	Capture int    `yaml:"capture" mapstructure:"capture"`
}

// ObservabilityConfig switches the OTLP exporters on.
type ObservabilityConfig struct {
	Tracing    bool          `yaml:"tracing" mapstructure:"tracing"`
	Metrics    bool          `yaml:"metrics" mapstructure:"metrics"`
	Endpoint   string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64       `yaml:"sample_rate" mapstructure:"sample_rate"`
	Interval   time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ApplyDefaults fills every section.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "streamkit"
	}
	c.ServiceConfig.ApplyDefaults()
	c.Pipeline.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks every section.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Pipeline.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	return c.Observability.Validate()
}

func (c *PipelineConfig) ApplyDefaults() {
	if c.Format == "" {
		c.Format = string(flow.FormatAuto)
	}
}

func (c *PipelineConfig) Validate() error {
	return validation.New().Section("pipeline").
		OneOf("format", c.Format, flow.Formats()).
		Min("capture", c.Capture, 0).
		Err()
}

func (c *ObservabilityConfig) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.Interval == 0 {
		c.Interval = 15 * time.Second
	}
}

func (c *ObservabilityConfig) Validate() error {
	v := validation.New().Section("observability").
		Between("sample_rate", c.SampleRate, 0, 1).
		Custom(c.Interval > 0, "interval", "must be positive")
	if c.Tracing || c.Metrics {
		v.Required("endpoint", c.Endpoint)
	}
	return v.Err()
}

// loadConfig reads the config file (explicit or discovered), the .env file
// and STREAMKIT_* variables, then applies defaults and validates.
func loadConfig(path string) (*AppConfig, error) {
	var opts []config.LoaderOption
	if path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	cfg := &AppConfig{}
	if err := config.LoadConfig("streamkit", cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}
