package config

import (
	"fmt"
	"time"
)

// Accept policies understood by the line parser
const (
	AcceptPositive    = "positive"
	AcceptNonNegative = "non_negative"
	AcceptAny         = "any"
)

// Config represents the complete application configuration
type Config struct {
	Device  DeviceConfig  `mapstructure:"device"`
	Series  SeriesConfig  `mapstructure:"series"`
	Log     LogConfig     `mapstructure:"log"`
	Render  RenderConfig  `mapstructure:"render"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// DeviceConfig describes the serial link
type DeviceConfig struct {
	Candidates  []string      `mapstructure:"candidates"`   // Device paths, the first existing one is used
	Baud        int           `mapstructure:"baud"`         // Baud rate (default: 9600)
	ReadTimeout time.Duration `mapstructure:"read_timeout"` // Per read timeout (default: 1s)
}

// SeriesConfig controls retention and the rolling window
type SeriesConfig struct {
	MaxCount       int    `mapstructure:"max_count"`       // Retention window (default: 1000)
	RollingDivisor int    `mapstructure:"rolling_divisor"` // Rolling window = max_count / divisor (default: 10)
	Accept         string `mapstructure:"accept"`          // positive, non_negative, any
}

// LogConfig controls the sample log written next to the chart
type LogConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`
	BufferSize int    `mapstructure:"buffer_size"` // Pending records before dropping
}

// RenderConfig controls the render cadence
type RenderConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Headless bool          `mapstructure:"headless"` // Log summaries instead of opening a window
}

// LoggingConfig represents diagnostic logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Device.Validate(); err != nil {
		return fmt.Errorf("device config: %w", err)
	}

	if err := c.Series.Validate(); err != nil {
		return fmt.Errorf("series config: %w", err)
	}

	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log config: %w", err)
	}

	if err := c.Render.Validate(); err != nil {
		return fmt.Errorf("render config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates device configuration
func (c *DeviceConfig) Validate() error {
	if len(c.Candidates) == 0 {
		return fmt.Errorf("at least one device candidate is required")
	}

	if c.Baud <= 0 {
		return fmt.Errorf("invalid baud: %d", c.Baud)
	}

	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read_timeout must be positive")
	}

	return nil
}

// Validate validates series configuration
func (c *SeriesConfig) Validate() error {
	if c.MaxCount <= 0 {
		return fmt.Errorf("max_count must be positive, got %d", c.MaxCount)
	}

	if c.RollingDivisor <= 0 {
		return fmt.Errorf("rolling_divisor must be positive, got %d", c.RollingDivisor)
	}

	switch c.Accept {
	case AcceptPositive, AcceptNonNegative, AcceptAny:
	default:
		return fmt.Errorf("invalid accept policy: %q", c.Accept)
	}

	return nil
}

// Validate validates log configuration
func (c *LogConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.Path == "" {
		return fmt.Errorf("path is required when logging is enabled")
	}

	if c.BufferSize <= 0 {
		return fmt.Errorf("buffer_size must be positive")
	}

	return nil
}

// Validate validates render configuration
func (c *RenderConfig) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid level: %s", c.Level)
	}

	switch c.Format {
	case "json", "console", "pretty":
	default:
		return fmt.Errorf("invalid format: %s", c.Format)
	}

	return nil
}
