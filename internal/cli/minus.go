package cli

import (
	"github.com/spf13/cobra"

	"github.com/gitrdm/gorekall/pkg/rekall"
)

// NewMinusCommand creates the minus command.
func NewMinusCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		axis   string
		output string
	)
	cmd := &cobra.Command{
		Use:   "minus <file> <other>",
		Short: "Subtract the intervals of one file from another, per key",
		Long: `Remove from every interval of <file> the parts covered by intervals of
<other> with the same key, along --axis. Fragments keep their payload.

When subtracting along x or y, every interval of <other> must cover the
full frame on the remaining spatial axis.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ax, err := rekall.ParseAxis(axis)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --axis", err)
			}
			left, err := loadInputs(cmd.Context(), rootOpts, args[:1])
			if err != nil {
				return err
			}
			right, err := loadInputs(cmd.Context(), rootOpts, args[1:])
			if err != nil {
				return err
			}
			opts := append(rootOpts.Config.Algebra.OpOptions(), rekall.WithAxis(ax))
			out, err := left.Minus(right, opts...)
			if err != nil {
				return WrapExitError(ExitCommandError, "minus", err)
			}
			return writeMapping(cmd.OutOrStdout(), rootOpts.Format, output, out)
		},
	}
	cmd.Flags().StringVar(&axis, "axis", "t", "axis to subtract along (t, x or y)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result to a .yaml or .parquet file")
	return cmd
}
