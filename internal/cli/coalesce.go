package cli

import (
	"github.com/spf13/cobra"

	"github.com/gitrdm/gorekall/pkg/rekall"
)

// NewCoalesceCommand creates the coalesce command.
func NewCoalesceCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		epsilon float64
		axis    string
		output  string
	)
	cmd := &cobra.Command{
		Use:   "coalesce <file>...",
		Short: "Merge overlapping or nearby intervals per key",
		Long: `Merge intervals of the same key that overlap, or that follow each other
with a gap of at most --epsilon, along --axis. Payload labels of merged
intervals are joined with "|".

--epsilon defaults to algebra.coalesce_epsilon from the configuration.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ax, err := rekall.ParseAxis(axis)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --axis", err)
			}
			if !cmd.Flags().Changed("epsilon") {
				epsilon = rootOpts.Config.Algebra.CoalesceEpsilon
			}
			m, err := loadInputs(cmd.Context(), rootOpts, args)
			if err != nil {
				return err
			}
			out, err := m.Coalesce(ax, rekall.SpanAll, mergeLabels, epsilon)
			if err != nil {
				return WrapExitError(ExitCommandError, "coalesce", err)
			}
			return writeMapping(cmd.OutOrStdout(), rootOpts.Format, output, out)
		},
	}
	cmd.Flags().Float64Var(&epsilon, "epsilon", 0, "largest gap bridged between intervals")
	cmd.Flags().StringVar(&axis, "axis", "t", "axis to coalesce along (t, x or y)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result to a .yaml or .parquet file")
	return cmd
}
