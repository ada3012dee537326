// Package parallel provides the bounded execution primitives behind the
// task runtime: a fixed-size worker pool that applies backpressure to
// submitters, and a high/low water-mark controller that keeps producers
// from running too far ahead of a slow consumer.
package parallel

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// WorkerPool runs submitted tasks on a fixed set of goroutines. The task
// queue is bounded, so Submit blocks while every worker is busy and the
// queue is full.
type WorkerPool struct {
	maxWorkers   int
	taskChan     chan func()
	workerWg     sync.WaitGroup
	shutdownChan chan struct{}
	once         sync.Once
}

// NewWorkerPool creates a pool with maxWorkers goroutines and room for
// queueSize pending tasks. maxWorkers <= 0 means one worker per CPU;
// queueSize <= 0 means twice the worker count.
func NewWorkerPool(maxWorkers, queueSize int) *WorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}
	if queueSize <= 0 {
		queueSize = maxWorkers * 2
	}

	pool := &WorkerPool{
		maxWorkers:   maxWorkers,
		taskChan:     make(chan func(), queueSize),
		shutdownChan: make(chan struct{}),
	}

	for i := 0; i < maxWorkers; i++ {
		pool.workerWg.Add(1)
		go pool.worker()
	}

	return pool
}

// Workers returns the number of worker goroutines.
func (wp *WorkerPool) Workers() int { return wp.maxWorkers }

func (wp *WorkerPool) worker() {
	defer wp.workerWg.Done()

	for {
		select {
		case task := <-wp.taskChan:
			task()
		case <-wp.shutdownChan:
			// Drain what was accepted before shutdown.
			for {
				select {
				case task := <-wp.taskChan:
					task()
				default:
					return
				}
			}
		}
	}
}

// Submit queues task for execution. It blocks while the queue is full and
// returns ctx.Err() or ErrPoolShutdown if it gives up.
func (wp *WorkerPool) Submit(ctx context.Context, task func()) error {
	if task == nil {
		return fmt.Errorf("nil task")
	}
	select {
	case <-wp.shutdownChan:
		return ErrPoolShutdown
	default:
	}
	select {
	case wp.taskChan <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-wp.shutdownChan:
		return ErrPoolShutdown
	}
}

// Shutdown stops accepting tasks and waits for every accepted task to
// finish. It is safe to call more than once.
func (wp *WorkerPool) Shutdown() {
	wp.once.Do(func() {
		close(wp.shutdownChan)
		wp.workerWg.Wait()
	})
}

// ErrPoolShutdown is returned when trying to submit tasks to a shutdown pool.
var ErrPoolShutdown = fmt.Errorf("worker pool has been shutdown")

// BackpressureController pauses a producer once its outstanding load
// reaches the high water mark and releases it when the load falls back to
// the low water mark.
type BackpressureController struct {
	maxQueueSize  int
	currentLoad   int64
	highWaterMark int
	lowWaterMark  int
	paused        bool
	resumeChan    chan struct{}
	mu            sync.Mutex
}

// NewBackpressureController pauses at 80% of maxQueueSize and resumes at 20%.
// maxQueueSize <= 0 defaults to 1000.
func NewBackpressureController(maxQueueSize int) *BackpressureController {
	if maxQueueSize <= 0 {
		maxQueueSize = 1000
	}

	return &BackpressureController{
		maxQueueSize:  maxQueueSize,
		highWaterMark: max(1, int(float64(maxQueueSize)*0.8)),
		lowWaterMark:  int(float64(maxQueueSize) * 0.2),
		resumeChan:    make(chan struct{}),
	}
}

// CheckBackpressure blocks while the controller is paused.
func (bc *BackpressureController) CheckBackpressure(ctx context.Context) error {
	bc.mu.Lock()
	paused, resume := bc.paused, bc.resumeChan
	bc.mu.Unlock()

	if !paused {
		return nil
	}
	select {
	case <-resume:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AddLoad records amount units of outstanding work.
func (bc *BackpressureController) AddLoad(amount int) {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	bc.currentLoad += int64(amount)
	if !bc.paused && int(bc.currentLoad) >= bc.highWaterMark {
		bc.paused = true
	}
}

// RemoveLoad records that amount units were consumed.
func (bc *BackpressureController) RemoveLoad(amount int) {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	bc.currentLoad -= int64(amount)
	if bc.currentLoad < 0 {
		bc.currentLoad = 0
	}

	if bc.paused && int(bc.currentLoad) <= bc.lowWaterMark {
		bc.paused = false
		close(bc.resumeChan)
		bc.resumeChan = make(chan struct{})
	}
}

// CurrentLoad returns the outstanding load.
func (bc *BackpressureController) CurrentLoad() int64 {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return bc.currentLoad
}

// Paused reports whether producers are currently held.
func (bc *BackpressureController) Paused() bool {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return bc.paused
}
