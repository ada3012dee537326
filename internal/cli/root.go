package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/gitrdm/gorekall/pkg/config"
	"github.com/gitrdm/gorekall/pkg/logger"
	"github.com/gitrdm/gorekall/pkg/rekall"
)

// Version is reported by the version command.
const Version = "0.1.0"

// RootOptions holds global flags and the state derived from them before any
// subcommand runs.
type RootOptions struct {
	ConfigFile string
	LogLevel   string
	Format     string // "text" | "json" | "yaml"

	Config *config.Config
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for the rekall CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "rekall",
		Short: "rekall - spatiotemporal interval algebra",
		Long: `Query interval files with the rekall algebra.

Interval files are YAML documents (.yaml, .yml) or Parquet tables (.parquet)
of key, t1, t2, optional x1/x2/y1/y2 and payload columns.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (YAML)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")

	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewCoalesceCommand(opts))
	cmd.AddCommand(NewMinusCommand(opts))
	cmd.AddCommand(NewJoinCommand(opts))
	cmd.AddCommand(NewMatchCommand(opts))
	cmd.AddCommand(NewConvertCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// setup loads configuration, builds the logger and routes library
// diagnostics to it.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	if !slices.Contains(ValidFormats, o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	v := config.New()
	if err := v.BindPFlag("log.level", cmd.Root().PersistentFlags().Lookup("log-level")); err != nil {
		return err
	}
	cfg, err := config.LoadWith(v, o.ConfigFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "load configuration", err)
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return WrapExitError(ExitCommandError, "load configuration", err)
	}
	log, err := logger.NewLogger(logger.Options{Level: level, Format: cfg.Log.Format, Writer: cmd.ErrOrStderr()})
	if err != nil {
		return WrapExitError(ExitCommandError, "load configuration", err)
	}

	o.Config, o.Logger = cfg, log
	rekall.SetLogger(log)
	if cfg.Algebra.Trace {
		rekall.EnableTrace(true)
	}
	return nil
}
