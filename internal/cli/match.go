package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gitrdm/gorekall/pkg/csp"
	"github.com/gitrdm/gorekall/pkg/ingest"
	"github.com/gitrdm/gorekall/pkg/rekall"
)

// MatchRow is one solution in json and yaml output.
type MatchRow struct {
	Key string        `json:"key" yaml:"key"`
	A   ingest.Record `json:"a" yaml:"a"`
	B   ingest.Record `json:"b" yaml:"b"`
}

// NewMatchCommand creates the match command.
func NewMatchCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		relName      string
		params       relationParams
		concurrent   bool
		exact        bool
		maxSolutions int
	)
	cmd := &cobra.Command{
		Use:   "match <file>...",
		Short: "Find pairs of intervals of the same key that satisfy a relation",
		Long: `Search every key for two distinct intervals a and b such that
"a <relation> b" holds. With --concurrent (the default) a and b must also
overlap in time. The command exits with status 1 when nothing matches.

Relations: ` + strings.Join(relationNames(), ", "),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rel, err := lookupRelation(relName, params)
			if err != nil {
				return err
			}
			pred := rel.pred
			if concurrent {
				pred = rekall.And2(rekall.Overlaps(), pred)
			}
			m, err := loadInputs(cmd.Context(), rootOpts, args)
			if err != nil {
				return err
			}

			pattern := []rekall.PatternEntry[string]{
				rekall.Edge("a", "b", rekall.OnBounds[string](pred)),
			}
			mo := rootOpts.Config.Match.MatchOptions(exact)
			if cmd.Flags().Changed("max-solutions") {
				mo.MaxSolutions = maxSolutions
			}

			var pairs []pair
			for _, k := range rekall.SortedKeys(m) {
				mo.Monitor = csp.NewSolverMonitor()
				sols, err := m.Get(k).MatchContext(cmd.Context(), pattern, mo)
				if err != nil {
					return WrapExitError(ExitCommandError, "match key "+k, err)
				}
				rootOpts.Logger.Debug("matched", slog.String("key", k), slog.String("stats", mo.Monitor.GetStats().String()))
				for _, sol := range sols {
					pairs = append(pairs, pair{key: k, a: sol["a"], b: sol["b"]})
				}
			}

			w := cmd.OutOrStdout()
			if rootOpts.Format != "text" {
				rows := make([]MatchRow, len(pairs))
				for i, f := range pairs {
					rows[i] = MatchRow{Key: f.key, A: ingest.RecordOf(f.key, f.a), B: ingest.RecordOf(f.key, f.b)}
				}
				if err := encode(w, rootOpts.Format, rows); err != nil {
					return err
				}
			} else {
				writeMatches(w, m, pairs)
			}
			if len(pairs) == 0 {
				return NewExitError(ExitFailure, "no matches")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&relName, "relation", "left-of", "relation a must have to b")
	cmd.Flags().Float64Var(&params.minDist, "min-dist", 0, "smallest gap for before/after")
	cmd.Flags().Float64Var(&params.maxDist, "max-dist", -1, "largest gap for before/after (negative: unbounded)")
	cmd.Flags().Float64Var(&params.epsilon, "epsilon", 0, "tolerance for starts/finishes/meets/same-area")
	cmd.Flags().BoolVar(&concurrent, "concurrent", true, "require a and b to overlap in time")
	cmd.Flags().BoolVar(&exact, "exact", false, "only match keys with exactly two intervals")
	cmd.Flags().IntVar(&maxSolutions, "max-solutions", 0, "stop after this many matches per key (0: all)")
	return cmd
}

type pair struct {
	key  string
	a, b rekall.Interval[string]
}

func writeMatches(w io.Writer, m mapping, pairs []pair) {
	for _, f := range pairs {
		fmt.Fprintf(w, "%s a=%s b=%s\n", f.key, formatInterval(f.a), formatInterval(f.b))
	}
	fmt.Fprintf(w, "%s in %s\n", count(len(pairs), "match", "matches"), count(m.Len(), "key", "keys"))
}
