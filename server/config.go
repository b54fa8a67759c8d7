package server

import (
	"fmt"
	"runtime"
	"time"

	"github.com/kbukum/streamkit/server/middleware"
	"github.com/kbukum/streamkit/validation"
)

// Config holds HTTP server configuration.
type Config struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	// RunTimeout bounds a single POST /v1/runs. Unbounded sources make this
	// the only guarantee a request ends.
	RunTimeout  time.Duration `yaml:"run_timeout" mapstructure:"run_timeout"`
	MaxBodySize string        `yaml:"max_body_size" mapstructure:"max_body_size"` // e.g. "64KB"
	// Capture is the default number of terminal values returned per run;
	// MaxCapture caps the capture query parameter.
	Capture    int `yaml:"capture" mapstructure:"capture"`
	MaxCapture int `yaml:"max_capture" mapstructure:"max_capture"`
	// MaxConcurrentRuns caps runs in flight; 0 means twice the CPU count.
	// A run that finds no free slot within QueueWait is refused with 503.
	MaxConcurrentRuns int           `yaml:"max_concurrent_runs" mapstructure:"max_concurrent_runs"`
	QueueWait         time.Duration `yaml:"queue_wait" mapstructure:"queue_wait"`
}

// ApplyDefaults sets sensible default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
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
	if c.RunTimeout == 0 {
		c.RunTimeout = 10 * time.Second
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "64KB"
	}
	if c.MaxCapture == 0 {
		c.MaxCapture = 10000
	}
	if c.MaxConcurrentRuns == 0 {
		c.MaxConcurrentRuns = 2 * runtime.NumCPU()
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	v := validation.New().Section("server").
		Range("port", c.Port, 0, 65535).
		Custom(c.ReadTimeout >= 0, "read_timeout", "must be non-negative").
		Custom(c.WriteTimeout >= 0, "write_timeout", "must be non-negative").
		Custom(c.IdleTimeout >= 0, "idle_timeout", "must be non-negative").
		Custom(c.RunTimeout > 0, "run_timeout", "must be positive").
		Custom(middleware.ParseSize(c.MaxBodySize, 0) > 0, "max_body_size", "must be a size such as 64KB").
		Min("max_capture", c.MaxCapture, 0).
		Range("capture", c.Capture, 0, c.MaxCapture).
		Min("max_concurrent_runs", c.MaxConcurrentRuns, 1).
		Custom(c.QueueWait >= 0, "queue_wait", "must be non-negative")
	if c.RunTimeout > 0 && c.WriteTimeout > 0 && c.RunTimeout >= c.WriteTimeout {
		v.AddError("run_timeout", fmt.Sprintf("must be shorter than write_timeout (%s)", c.WriteTimeout))
	}
	return v.Err()
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
