package logger

import (
	"fmt"

	"github.com/kbukum/streamkit/validation"
)

// Accepted values for Config.
var (
	Levels  = []string{"trace", "debug", "info", "warn", "error", "fatal", "disabled"}
	Formats = []string{"json", "console", "pretty"}
	Outputs = []string{"stdout", "stderr"}
)

// Config is the logging section of the application config.
type Config struct {
	Level       string `yaml:"level" mapstructure:"level"`
	Format      string `yaml:"format" mapstructure:"format"`
	Output      string `yaml:"output" mapstructure:"output"`
	NoColor     bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp   bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller      bool   `yaml:"caller" mapstructure:"caller"`
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
}

// ApplyDefaults fills unset fields. Log lines always carry a timestamp.
// Output defaults to stderr so `streamkit run` keeps stdout for the report.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = "stderr"
	}
	c.Timestamp = true
}

// Validate rejects values New would not understand.
func (c *Config) Validate() error {
	err := validation.New().
		Required("level", c.Level).
		Required("format", c.Format).
		Required("output", c.Output).
		OneOf("level", c.Level, Levels).
		OneOf("format", c.Format, Formats).
		OneOf("output", c.Output, Outputs).
		Err()
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}
