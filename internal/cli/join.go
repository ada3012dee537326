package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/gitrdm/gorekall/pkg/rekall"
)

// NewJoinCommand creates the join command.
func NewJoinCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		relName  string
		params   relationParams
		filter   bool
		output   string
	)
	cmd := &cobra.Command{
		Use:   "join <file> <other>",
		Short: "Pair intervals of two files that satisfy a relation",
		Long: `For every key, pair each interval of <file> with the intervals of <other>
that satisfy --relation. Each pair becomes one interval spanning both, with
the payload labels joined by "|". With --filter, the intervals of <file>
that have at least one partner are kept unchanged instead.

Only pairs the relation can accept are searched: overlap relations look at
touching intervals, starts/finishes/meets within --epsilon, before/after
within --max-dist and spatial relations at every pair. algebra.window in the
configuration replaces this search window.

Relations: ` + strings.Join(relationNames(), ", "),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rel, err := lookupRelation(relName, params)
			if err != nil {
				return err
			}
			left, err := loadInputs(cmd.Context(), rootOpts, args[:1])
			if err != nil {
				return err
			}
			right, err := loadInputs(cmd.Context(), rootOpts, args[1:])
			if err != nil {
				return err
			}
			ivPred := rekall.OnBounds[string](rel.pred)
			opts := rel.opOptions(rootOpts)
			var out mapping
			if filter {
				out = left.FilterAgainst(right, ivPred, opts...)
			} else {
				out = left.Merge(right, ivPred, mergeLabels, opts...)
			}
			return writeMapping(cmd.OutOrStdout(), rootOpts.Format, output, out)
		},
	}
	cmd.Flags().StringVar(&relName, "relation", "overlaps", "relation between the two intervals")
	cmd.Flags().Float64Var(&params.minDist, "min-dist", 0, "smallest gap for before/after")
	cmd.Flags().Float64Var(&params.maxDist, "max-dist", -1, "largest gap for before/after (negative: unbounded)")
	cmd.Flags().Float64Var(&params.epsilon, "epsilon", 0, "tolerance for starts/finishes/meets/same-area")
	cmd.Flags().BoolVar(&filter, "filter", false, "keep matching intervals of <file> instead of merging pairs")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result to a .yaml or .parquet file")
	return cmd
}
