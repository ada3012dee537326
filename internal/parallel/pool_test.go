package parallel

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPool_RunsEverySubmittedTask(t *testing.T) {
	pool := NewWorkerPool(4, 0)
	assert.Equal(t, 4, pool.Workers())

	var done atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		require.NoError(t, pool.Submit(context.Background(), func() {
			defer wg.Done()
			done.Add(1)
		}))
	}
	wg.Wait()
	pool.Shutdown()
	assert.Equal(t, int64(100), done.Load())
}

func TestWorkerPool_ShutdownDrainsQueue(t *testing.T) {
	pool := NewWorkerPool(1, 10)
	release := make(chan struct{})
	var done atomic.Int64

	require.NoError(t, pool.Submit(context.Background(), func() { <-release }))
	for i := 0; i < 5; i++ {
		require.NoError(t, pool.Submit(context.Background(), func() { done.Add(1) }))
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		close(release)
	}()
	pool.Shutdown()
	assert.Equal(t, int64(5), done.Load())

	err := pool.Submit(context.Background(), func() {})
	assert.ErrorIs(t, err, ErrPoolShutdown)
	pool.Shutdown()
}

func TestWorkerPool_SubmitHonoursContext(t *testing.T) {
	pool := NewWorkerPool(1, 1)
	defer pool.Shutdown()

	release := make(chan struct{})
	defer close(release)
	require.NoError(t, pool.Submit(context.Background(), func() { <-release }))
	// The single worker may not have picked up the first task yet, so fill
	// until the queue is certainly full.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	var err error
	for i := 0; i < 3 && err == nil; i++ {
		err = pool.Submit(ctx, func() { <-release })
	}
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	assert.Error(t, pool.Submit(context.Background(), nil))
}

func TestBackpressureController(t *testing.T) {
	bc := NewBackpressureController(10)
	ctx := context.Background()

	bc.AddLoad(7)
	assert.False(t, bc.Paused())
	require.NoError(t, bc.CheckBackpressure(ctx))

	bc.AddLoad(1)
	assert.True(t, bc.Paused())
	assert.Equal(t, int64(8), bc.CurrentLoad())

	released := make(chan error, 1)
	go func() { released <- bc.CheckBackpressure(ctx) }()

	bc.RemoveLoad(5)
	assert.True(t, bc.Paused(), "still above the low water mark")
	bc.RemoveLoad(1)
	require.NoError(t, <-released)
	assert.False(t, bc.Paused())

	bc.RemoveLoad(100)
	assert.Zero(t, bc.CurrentLoad())
}

func TestBackpressureController_Cancel(t *testing.T) {
	bc := NewBackpressureController(1)
	bc.AddLoad(1)
	require.True(t, bc.Paused())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, bc.CheckBackpressure(ctx), context.Canceled)
}
