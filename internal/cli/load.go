package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/gitrdm/gorekall/pkg/config"
	"github.com/gitrdm/gorekall/pkg/ingest"
	"github.com/gitrdm/gorekall/pkg/rekall"
	"github.com/gitrdm/gorekall/pkg/runtime"
)

// loadInputs reads every path on the runtime's worker pool and unions the
// results per key. Any unreadable file fails the command.
func loadInputs(ctx context.Context, opts *RootOptions, paths []string) (mapping, error) {
	rt := runtime.New(runtime.Options{
		Workers:   opts.Config.Runtime.Workers,
		QueueSize: opts.Config.Runtime.QueueSize,
		Logger:    opts.Logger,
	})
	query := func(_ context.Context, files []string) (mapping, error) {
		out := rekall.NewIntervalSetMapping[string, string](nil)
		for _, f := range files {
			m, err := ingest.LoadFile(f)
			if err != nil {
				return nil, err
			}
			out = out.Union(m)
		}
		return out, nil
	}

	m, failed, err := runtime.Run(ctx, rt, query, paths, config.RunOptions[mapping](opts.Config.Runtime))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load inputs", err)
	}
	if len(failed) > 0 {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("could not load %s", strings.Join(failed, ", ")))
	}
	return m, nil
}

// mergeLabels unions two "|"-separated payload labels.
func mergeLabels(a, b string) string {
	var labels []string
	for _, s := range []string{a, b} {
		for l := range strings.SplitSeq(s, "|") {
			if l != "" {
				labels = append(labels, l)
			}
		}
	}
	slices.Sort(labels)
	return strings.Join(slices.Compact(labels), "|")
}
