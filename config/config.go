// Package config loads and validates server configuration from file,
// environment, and built-in defaults, and watches the config file for
// changes that are safe to apply at runtime (currently: log level).
package config

import (
	"errors"
	"os"
	"strings"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	rerr "github.com/sabouaram/rdiskv/errors"
	"github.com/sabouaram/rdiskv/logger"
)

// Config holds every tunable the server reads at startup. Fields are kept
// flat and small: this core has no nested subsystems worth a tree of
// structs. ReadBufferInitialBytes is loaded and validated but not passed
// on: every session starts with a fixed 4096-byte read buffer.
type Config struct {
	ListenAddr             string `mapstructure:"listen_addr" validate:"required"`
	ChannelCapacity        int    `mapstructure:"channel_capacity" validate:"min=4096"`
	ReadBufferInitialBytes int    `mapstructure:"read_buffer_initial_bytes" validate:"min=64"`
	MetricsAddr            string `mapstructure:"metrics_addr" validate:"required"`
	LogLevel               string `mapstructure:"log_level" validate:"oneof=error warn info debug"`
}

// Defaults returns the configuration used when no file, flag, or
// environment variable overrides a field.
func Defaults() Config {
	return Config{
		ListenAddr:             "127.0.0.1:6379",
		ChannelCapacity:        4096,
		ReadBufferInitialBytes: 4096,
		MetricsAddr:            "127.0.0.1:9121",
		LogLevel:               "info",
	}
}

// Load reads configuration from path (if non-empty), environment variables
// prefixed RDISKV_, and falls back to Defaults for anything unset. The
// result is validated before being returned.
func Load(path string) (Config, error) {
	v := viper.New()
	def := Defaults()
	v.SetDefault("listen_addr", def.ListenAddr)
	v.SetDefault("channel_capacity", def.ChannelCapacity)
	v.SetDefault("read_buffer_initial_bytes", def.ReadBufferInitialBytes)
	v.SetDefault("metrics_addr", def.MetricsAddr)
	v.SetDefault("log_level", def.LogLevel)

	v.SetEnvPrefix("RDISKV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, rerr.Wrap(rerr.CodeConfig, "reading config file "+path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, rerr.Wrap(rerr.CodeConfig, "decoding config", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks struct tags against cfg and returns a CodeConfig error
// describing every violation.
func Validate(cfg Config) error {
	if err := goValidator.New().Struct(cfg); err != nil {
		return rerr.Wrap(rerr.CodeConfig, "invalid configuration", err)
	}
	return nil
}

// ParsedLogLevel converts cfg's textual log level into the level type the
// logger package understands. Validate guarantees the value is one of the
// accepted tokens by the time this is called.
func (c Config) ParsedLogLevel() logger.Level {
	return logger.ParseLevel(c.LogLevel)
}

// Watch reloads the file at path whenever it changes and invokes onChange
// with the newly validated configuration. Invalid reloads are reported on
// the returned error channel and leave the previous configuration in
// effect. Watch returns immediately; the watch runs until the process exits
// (there is no unwatch — config files are not expected to move).
func Watch(path string, onChange func(Config)) (<-chan error, error) {
	if path == "" {
		return nil, errors.New("config: cannot watch without a config file path")
	}

	if err := stat(path); err != nil {
		return nil, rerr.Wrap(rerr.CodeConfig, "locating config file "+path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, rerr.Wrap(rerr.CodeConfig, "reading config file "+path, err)
	}

	errs := make(chan error, 1)
	v.OnConfigChange(func(_ fsnotify.Event) {
		var cfg Config
		if err := v.Unmarshal(&cfg); err != nil {
			select {
			case errs <- rerr.Wrap(rerr.CodeConfig, "reloading config", err):
			default:
			}
			return
		}
		if err := Validate(cfg); err != nil {
			select {
			case errs <- err:
			default:
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return errs, nil
}

// stat confirms the config file is reachable before WatchConfig is armed,
// surfacing a clearer error than fsnotify's if the path is simply wrong.
func stat(path string) error {
	_, err := os.Stat(path)
	return err
}
