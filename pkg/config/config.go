// Package config loads rekall settings from defaults, an optional YAML file
// and REKALL_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/gitrdm/gorekall/pkg/rekall"
	"github.com/gitrdm/gorekall/pkg/runtime"
)

// EnvPrefix is prepended to every environment override, e.g.
// REKALL_RUNTIME_WORKERS.
const EnvPrefix = "REKALL"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = fmt.Errorf("invalid configuration")

// Config holds all configuration for the engine and the CLI
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Algebra AlgebraConfig `mapstructure:"algebra"`
	Runtime RuntimeConfig `mapstructure:"runtime"`
	Match   MatchConfig   `mapstructure:"match"`
}

// LogConfig selects the slog level and handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text, json or color
}

// AlgebraConfig tunes the binary operators.
type AlgebraConfig struct {
	// Window overrides the per-set optimization window when non-negative.
	Window          float64 `mapstructure:"window"`
	WindowAudit     int     `mapstructure:"window_audit"`
	CoalesceEpsilon float64 `mapstructure:"coalesce_epsilon"`
	Trace           bool    `mapstructure:"trace"`
}

// RuntimeConfig sizes the batch runtime.
type RuntimeConfig struct {
	Workers   int  `mapstructure:"workers"`
	ChunkSize int  `mapstructure:"chunk_size"`
	Randomize bool `mapstructure:"randomize"`
	QueueSize int  `mapstructure:"queue_size"`
}

// MatchConfig bounds pattern search.
type MatchConfig struct {
	MaxSolutions int `mapstructure:"max_solutions"`
}

// New returns a viper instance with defaults and environment overrides
// registered. Callers may bind flags to it before passing it to LoadWith.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration with a fresh viper instance. An empty path skips
// the file layer.
func Load(path string) (*Config, error) {
	return LoadWith(New(), path)
}

// LoadWith reads the optional YAML file at path into v and decodes the
// result.
func LoadWith(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("algebra.window", -1.0)
	v.SetDefault("algebra.window_audit", 0)
	v.SetDefault("algebra.coalesce_epsilon", 0.0)
	v.SetDefault("algebra.trace", false)

	v.SetDefault("runtime.workers", 0)
	v.SetDefault("runtime.chunk_size", 1)
	v.SetDefault("runtime.randomize", false)
	v.SetDefault("runtime.queue_size", 0)

	v.SetDefault("match.max_solutions", 0)
}

// Validate reports every out-of-range setting at once.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}
	switch c.Log.Format {
	case "text", "json", "color":
	default:
		check(false, "log.format %q", c.Log.Format)
	}
	check(c.Algebra.WindowAudit >= 0, "algebra.window_audit %d", c.Algebra.WindowAudit)
	check(c.Algebra.CoalesceEpsilon >= 0, "algebra.coalesce_epsilon %g", c.Algebra.CoalesceEpsilon)
	check(c.Runtime.Workers >= 0, "runtime.workers %d", c.Runtime.Workers)
	check(c.Runtime.ChunkSize >= 0, "runtime.chunk_size %d", c.Runtime.ChunkSize)
	check(c.Runtime.QueueSize >= 0, "runtime.queue_size %d", c.Runtime.QueueSize)
	check(c.Match.MaxSolutions >= 0, "match.max_solutions %d", c.Match.MaxSolutions)
	return errors.Join(errs...)
}

// OpOptions translates the algebra section into operator options.
func (a AlgebraConfig) OpOptions() []rekall.OpOption {
	var opts []rekall.OpOption
	if a.Window >= 0 {
		opts = append(opts, rekall.WithWindow(a.Window))
	}
	if a.WindowAudit > 0 {
		opts = append(opts, rekall.WithWindowAudit(a.WindowAudit))
	}
	return opts
}

// Options returns the runtime.Options for this section.
func (r RuntimeConfig) Options() runtime.Options {
	return runtime.Options{Workers: r.Workers, QueueSize: r.QueueSize}
}

// RunOptions returns the per-run options for this section.
func RunOptions[R any](r RuntimeConfig) runtime.RunOptions[R] {
	return runtime.RunOptions[R]{ChunkSize: r.ChunkSize, Randomize: r.Randomize}
}

// MatchOptions returns the search limits for this section.
func (m MatchConfig) MatchOptions(exact bool) rekall.MatchOptions {
	return rekall.MatchOptions{Exact: exact, MaxSolutions: m.MaxSolutions}
}
