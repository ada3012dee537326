package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gitrdm/gorekall/pkg/rekall"
)

// KeyStats summarises the intervals of one key.
type KeyStats struct {
	Key       string  `json:"key" yaml:"key"`
	Intervals int     `json:"intervals" yaml:"intervals"`
	Start     float64 `json:"start" yaml:"start"`
	End       float64 `json:"end" yaml:"end"`
	Duration  float64 `json:"duration" yaml:"duration"` // sum of lengths
	Covered   float64 `json:"covered" yaml:"covered"`   // length of the union
}

// Stats summarises a mapping.
type Stats struct {
	Keys      int        `json:"keys" yaml:"keys"`
	Intervals int        `json:"intervals" yaml:"intervals"`
	Duration  float64    `json:"duration" yaml:"duration"`
	Covered   float64    `json:"covered" yaml:"covered"`
	PerKey    []KeyStats `json:"per_key" yaml:"per_key"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <file>...",
		Short: "Summarise interval files",
		Long: `Summarise interval files per key: interval count, time extent, summed
duration and covered time (the length of the union of all intervals).

Several files are loaded concurrently and merged per key.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadInputs(cmd.Context(), rootOpts, args)
			if err != nil {
				return err
			}
			st, err := computeStats(m)
			if err != nil {
				return err
			}
			if rootOpts.Format != "text" {
				return encode(cmd.OutOrStdout(), rootOpts.Format, st)
			}
			writeStats(cmd.OutOrStdout(), st)
			return nil
		},
	}
	return cmd
}

func length(acc float64, iv rekall.Interval[string]) float64 {
	return acc + iv.Size(rekall.AxisT)
}

func computeStats(m mapping) (Stats, error) {
	covered, err := m.Coalesce(rekall.AxisT, nil, nil, 0)
	if err != nil {
		return Stats{}, err
	}
	durations := rekall.FoldMapping(m, length, 0.0)
	coverage := rekall.FoldMapping(covered, length, 0.0)

	st := Stats{Keys: m.Len(), Intervals: m.TotalSize()}
	for _, k := range rekall.SortedKeys(m) {
		s := m.Get(k)
		ks := KeyStats{
			Key:       k,
			Intervals: s.Len(),
			Start:     rekall.Fold(s, func(acc float64, iv rekall.Interval[string]) float64 { return min(acc, iv.Get(rekall.T1)) }, s.At(0).Get(rekall.T1)),
			End:       rekall.Fold(s, func(acc float64, iv rekall.Interval[string]) float64 { return max(acc, iv.Get(rekall.T2)) }, s.At(0).Get(rekall.T2)),
			Duration:  durations[k],
			Covered:   coverage[k],
		}
		st.Duration += ks.Duration
		st.Covered += ks.Covered
		st.PerKey = append(st.PerKey, ks)
	}
	return st, nil
}

func writeStats(w io.Writer, st Stats) {
	fmt.Fprintf(w, "%s, %s, duration %s, covered %s\n",
		count(st.Keys, "key", "keys"), count(st.Intervals, "interval", "intervals"),
		number(st.Duration), number(st.Covered))
	for _, ks := range st.PerKey {
		fmt.Fprintf(w, "%s: %s in [%s, %s], duration %s, covered %s\n",
			ks.Key, count(ks.Intervals, "interval", "intervals"),
			number(ks.Start), number(ks.End), number(ks.Duration), number(ks.Covered))
	}
}
