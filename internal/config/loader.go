package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variable overrides, e.g. SERIAL_HUD_SERIES_MAX_COUNT
const EnvPrefix = "SERIAL_HUD"

// FlagKeys maps command line flag names to configuration keys
var FlagKeys = map[string]string{
	"device":    "device.candidates",
	"baud":      "device.baud",
	"max-count": "series.max_count",
	"accept":    "series.accept",
	"log":       "log.enabled",
	"log-path":  "log.path",
	"interval":  "render.interval",
	"headless":  "render.headless",
	"log-level": "logging.level",
}

// Load loads configuration from file, environment and the given flags.
// Flags may be nil.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("serial-hud")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/serial-hud")
		v.AddConfigPath("/etc/serial-hud")
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range FlagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return parseConfig(v)
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("device.candidates", d.Device.Candidates)
	v.SetDefault("device.baud", d.Device.Baud)
	v.SetDefault("device.read_timeout", d.Device.ReadTimeout)

	v.SetDefault("series.max_count", d.Series.MaxCount)
	v.SetDefault("series.rolling_divisor", d.Series.RollingDivisor)
	v.SetDefault("series.accept", d.Series.Accept)

	v.SetDefault("log.enabled", d.Log.Enabled)
	v.SetDefault("log.path", d.Log.Path)
	v.SetDefault("log.buffer_size", d.Log.BufferSize)

	v.SetDefault("render.interval", d.Render.Interval)
	v.SetDefault("render.headless", d.Render.Headless)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output_path", d.Logging.OutputPath)
}

func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			Candidates:  []string{"/dev/ttyACM0", "/dev/ttyACM1"},
			Baud:        9600,
			ReadTimeout: time.Second,
		},
		Series: SeriesConfig{
			MaxCount:       1000,
			RollingDivisor: 10,
			Accept:         AcceptPositive,
		},
		Log: LogConfig{
			Enabled:    false,
			Path:       "/run/shm/serial-hud.txt",
			BufferSize: 256,
		},
		Render: RenderConfig{
			Interval: 100 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stderr",
		},
	}
}
