package renderer

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// RowTask represents a row rendering task for the worker pool
type RowTask struct {
	Row int
}

// RowResult contains the rendered pixels of one row
type RowResult struct {
	Row    int
	Pixels []core.Vec3
}

// WorkerPool manages parallel row rendering
type WorkerPool struct {
	ctx         context.Context
	group       *errgroup.Group
	raytracer   *Raytracer
	seed        int64
	taskQueue   chan RowTask
	resultQueue chan RowResult
	numWorkers  int
	err         error
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// Queues are buffered for every row so submission never blocks.
func NewWorkerPool(ctx context.Context, raytracer *Raytracer, seed int64, numWorkers, rows int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	group, groupCtx := errgroup.WithContext(ctx)
	return &WorkerPool{
		ctx:         groupCtx,
		group:       group,
		raytracer:   raytracer,
		seed:        seed,
		taskQueue:   make(chan RowTask, rows),
		resultQueue: make(chan RowResult, rows),
		numWorkers:  numWorkers,
	}
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.numWorkers; i++ {
		wp.group.Go(wp.work)
	}
}

// SubmitTask adds a row to the task queue
func (wp *WorkerPool) SubmitTask(task RowTask) {
	wp.taskQueue <- task
}

// Finish closes the task queue. The result channel is closed once every worker has returned.
func (wp *WorkerPool) Finish() {
	close(wp.taskQueue)
	go func() {
		wp.err = wp.group.Wait()
		close(wp.resultQueue)
	}()
}

// Results returns the channel of completed rows, in completion order
func (wp *WorkerPool) Results() <-chan RowResult {
	return wp.resultQueue
}

// Err returns the first worker error. Only valid after Results has been drained.
func (wp *WorkerPool) Err() error {
	return wp.err
}

// GetNumWorkers returns the number of workers
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

func (wp *WorkerPool) work() error {
	for task := range wp.taskQueue {
		if err := wp.ctx.Err(); err != nil {
			return err
		}

		pixels := wp.raytracer.RenderRow(task.Row, rowSampler(wp.seed, task.Row))

		select {
		case wp.resultQueue <- RowResult{Row: task.Row, Pixels: pixels}:
		case <-wp.ctx.Done():
			return wp.ctx.Err()
		}
	}
	return nil
}
