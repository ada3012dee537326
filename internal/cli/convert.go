package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitrdm/gorekall/pkg/ingest"
)

// NewConvertCommand creates the convert command.
func NewConvertCommand(_ *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert an interval file between YAML and Parquet",
		Long: `Read <in> and write the same records to <out>. Both formats are chosen by
file extension (.yaml, .yml or .parquet). Records are validated first.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := ingest.ReadFile(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "read input", err)
			}
			for _, r := range records {
				if err := r.Validate(); err != nil {
					return WrapExitError(ExitCommandError, "read input", err)
				}
			}
			if err := ingest.WriteFile(args[1], records); err != nil {
				return WrapExitError(ExitCommandError, "write output", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s to %s\n", count(len(records), "interval", "intervals"), args[1])
			return nil
		},
	}
	return cmd
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the rekall version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "rekall %s\n", Version)
			return nil
		},
	}
}
