package runtime

import (
	"errors"
	"fmt"
)

var (
	// ErrAllTasksFailed is returned by Run when no batch produced a result.
	ErrAllTasksFailed = fmt.Errorf("all tasks failed")

	// ErrTaskFailed wraps every error or panic raised by a query.
	ErrTaskFailed = fmt.Errorf("task failed")

	// ErrKeyCollision is returned by DisjointKeyCombiner when two partial
	// results share a key.
	ErrKeyCollision = fmt.Errorf("partial results share keys")

	// ErrNoCombiner is returned when RunOptions has no Combiner and the
	// result type does not implement Union.
	ErrNoCombiner = fmt.Errorf("result type has no Union method and no combiner was given")
)

// BatchError reports one failed batch.
type BatchError[K any] struct {
	Batch int
	Keys  []K
	Err   error
}

func (e *BatchError[K]) Error() string {
	return fmt.Sprintf("batch %d (%d keys): %v", e.Batch, len(e.Keys), e.Err)
}

func (e *BatchError[K]) Unwrap() error { return e.Err }

// PartialError is reported by Iterate after the last successful result when
// some batches failed.
type PartialError[K any] struct {
	RunID  string
	Failed []K
	Errs   []error
}

func (e *PartialError[K]) Error() string {
	return fmt.Sprintf("run %s: %d batches failed, %d keys affected", e.RunID, len(e.Errs), len(e.Failed))
}

// Unwrap exposes the batch errors to errors.Is and errors.As.
func (e *PartialError[K]) Unwrap() []error { return e.Errs }

func allFailed(runID string, errs []error) error {
	return fmt.Errorf("run %s: %w: %w", runID, ErrAllTasksFailed, errors.Join(errs...))
}
