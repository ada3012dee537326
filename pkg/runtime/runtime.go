// Package runtime runs a query over a long list of keys by splitting the keys
// into batches, executing the batches on a worker pool and combining the
// partial results. Failed batches do not stop the run; their keys are
// reported back to the caller.
//
// A query is any function that can answer for a batch of keys:
//
//	query := func(ctx context.Context, videos []int) (*rekall.IntervalSetMapping[int, Face], error) {
//		...
//	}
//	faces, failed, err := runtime.Run(ctx, runtime.New(runtime.Options{Workers: 8}), query, videos,
//		runtime.RunOptions[*rekall.IntervalSetMapping[int, Face]]{ChunkSize: 5})
package runtime

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/gitrdm/gorekall/internal/parallel"
)

// Query answers for one batch of keys.
type Query[K, R any] func(ctx context.Context, keys []K) (R, error)

// Options configures a Runtime.
type Options struct {
	// Workers is the number of goroutines. Zero means one per CPU.
	Workers int

	// QueueSize bounds the batches waiting for a worker. Zero means twice
	// the worker count.
	QueueSize int

	// Logger receives per-batch failures and run summaries. Nil means
	// slog.Default().
	Logger *slog.Logger
}

// Runtime dispatches batches. A Runtime holds no goroutines between runs and
// may be shared.
type Runtime struct {
	opts   Options
	inline bool
}

// New returns a Runtime that executes batches on a worker pool.
func New(opts Options) *Runtime {
	return &Runtime{opts: opts}
}

// Inline returns a Runtime that executes batches one after another on the
// calling goroutine.
func Inline() *Runtime {
	return &Runtime{inline: true}
}

func (rt *Runtime) logger() *slog.Logger {
	if rt.opts.Logger != nil {
		return rt.opts.Logger
	}
	return slog.Default()
}

// RunOptions configures one Run or Iterate call.
type RunOptions[R any] struct {
	// ChunkSize is the number of keys per batch. Zero means 1.
	ChunkSize int

	// Randomize shuffles the keys before batching.
	Randomize bool

	// Combiner merges partial results in Run. Nil means the result's own
	// Union method.
	Combiner Combiner[R]

	// DispatchAhead bounds how many finished batches Iterate may hold for a
	// slow consumer before it stops submitting. Zero means twice the
	// worker count.
	DispatchAhead int
}

type batchResult[K, R any] struct {
	index  int
	keys   []K
	result R
	err    error
}

// execute runs query on one batch and turns a panic into an error.
func execute[K, R any](ctx context.Context, query Query[K, R], index int, keys []K) (res batchResult[K, R]) {
	res.index, res.keys = index, keys
	defer func() {
		if p := recover(); p != nil {
			res.err = fmt.Errorf("%w: panic: %v", ErrTaskFailed, p)
		}
	}()
	r, err := query(ctx, keys)
	if err != nil {
		res.err = fmt.Errorf("%w: %w", ErrTaskFailed, err)
		return res
	}
	res.result = r
	return res
}

func prepare[K, R any](keys []K, opts RunOptions[R]) [][]K {
	keys = slices.Clone(keys)
	if opts.Randomize {
		rand.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
	}
	return chunk(keys, opts.ChunkSize)
}

// stream executes every batch and yields the results as they finish. Inline
// runtimes yield in batch order. ahead bounds the finished results a pooled
// stream holds for a slow consumer; zero means twice the worker count and a
// negative value disables the bound.
func stream[K, R any](ctx context.Context, rt *Runtime, query Query[K, R], batches [][]K, ahead int) iter.Seq[batchResult[K, R]] {
	if rt.inline {
		return func(yield func(batchResult[K, R]) bool) {
			for i, b := range batches {
				if ctx.Err() != nil || !yield(execute(ctx, query, i, b)) {
					return
				}
			}
		}
	}
	return func(yield func(batchResult[K, R]) bool) {
		pool := parallel.NewWorkerPool(rt.opts.Workers, rt.opts.QueueSize)
		defer pool.Shutdown()
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		var bc *parallel.BackpressureController
		if ahead >= 0 {
			if ahead == 0 {
				ahead = 2 * pool.Workers()
			}
			bc = parallel.NewBackpressureController(ahead)
		}

		out := make(chan batchResult[K, R], len(batches))
		submitted := make(chan int, 1)
		go func() {
			n := 0
			defer func() { submitted <- n }()
			for i, b := range batches {
				if bc != nil {
					if bc.CheckBackpressure(ctx) != nil {
						return
					}
					bc.AddLoad(1)
				}
				if pool.Submit(ctx, func() { out <- execute(ctx, query, i, b) }) != nil {
					return
				}
				n++
			}
		}()

		received, total := 0, -1
		for total < 0 || received < total {
			select {
			case res := <-out:
				received++
				if !yield(res) {
					return
				}
				if bc != nil {
					bc.RemoveLoad(1)
				}
			case total = <-submitted:
			}
		}
	}
}

// Run executes query over every key and combines the successful partial
// results in batch order. It returns the keys of failed batches; when every
// batch fails the error wraps ErrAllTasksFailed. An empty key list yields the
// zero result.
func Run[K, R any](ctx context.Context, rt *Runtime, query Query[K, R], keys []K, opts RunOptions[R]) (R, []K, error) {
	var zero R
	combine := opts.Combiner
	if combine == nil {
		c, err := defaultCombiner[R]()
		if err != nil {
			return zero, nil, err
		}
		combine = c
	}

	batches := prepare(keys, opts)
	if len(batches) == 0 {
		return zero, nil, nil
	}
	runID := uuid.NewString()
	log := rt.logger().With(slog.String("run_id", runID))
	start := time.Now()

	results := make([]batchResult[K, R], 0, len(batches))
	for res := range stream(ctx, rt, query, batches, -1) {
		results = append(results, res)
	}
	if err := ctx.Err(); err != nil {
		return zero, nil, fmt.Errorf("run %s: %w", runID, err)
	}
	slices.SortFunc(results, func(a, b batchResult[K, R]) int { return a.index - b.index })

	var (
		combined R
		have     bool
		failed   []K
		errs     []error
	)
	for _, res := range results {
		if res.err != nil {
			failed = append(failed, res.keys...)
			errs = append(errs, &BatchError[K]{Batch: res.index, Keys: res.keys, Err: res.err})
			log.Warn("batch failed", slog.Int("batch", res.index), slog.Any("keys", res.keys), slog.Any("error", res.err))
			continue
		}
		if !have {
			combined, have = res.result, true
			continue
		}
		c, err := combine(combined, res.result)
		if err != nil {
			return zero, failed, fmt.Errorf("run %s: combine batch %d: %w", runID, res.index, err)
		}
		combined = c
	}

	log.Info("run finished",
		slog.Int("batches", len(batches)),
		slog.Int("failed_batches", len(errs)),
		slog.Duration("elapsed", time.Since(start)))
	if !have {
		return zero, failed, allFailed(runID, errs)
	}
	return combined, failed, nil
}

// Iterate yields each successful batch result as soon as it is ready, so
// callers can consume a large run incrementally. Batches are submitted only
// as fast as results are consumed (see RunOptions.DispatchAhead). If any
// batch failed, the final element carries a *PartialError listing the failed
// keys. Cancelling ctx ends the sequence with ctx's error. Combiner is
// ignored.
func Iterate[K, R any](ctx context.Context, rt *Runtime, query Query[K, R], keys []K, opts RunOptions[R]) iter.Seq2[R, error] {
	return func(yield func(R, error) bool) {
		var zero R
		runID := uuid.NewString()
		log := rt.logger().With(slog.String("run_id", runID))

		var (
			failed []K
			errs   []error
		)
		for res := range stream(ctx, rt, query, prepare(keys, opts), opts.DispatchAhead) {
			if res.err != nil {
				failed = append(failed, res.keys...)
				errs = append(errs, &BatchError[K]{Batch: res.index, Keys: res.keys, Err: res.err})
				log.Warn("batch failed", slog.Int("batch", res.index), slog.Any("keys", res.keys), slog.Any("error", res.err))
				continue
			}
			if !yield(res.result, nil) {
				return
			}
		}
		if err := ctx.Err(); err != nil {
			yield(zero, fmt.Errorf("run %s: %w", runID, err))
			return
		}
		if len(errs) > 0 {
			yield(zero, &PartialError[K]{RunID: runID, Failed: failed, Errs: errs})
		}
	}
}
