package renderer

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// RowTask represents a row rendering task for the worker pool
type RowTask struct {
	Y int // Image row, 0 = top
}

// WorkerPool manages parallel row rendering
type WorkerPool struct {
	raytracer  *Raytracer
	numWorkers int
	rowsDone   atomic.Int64
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(rt *Raytracer, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	// No point in idle goroutines
	if numWorkers > rt.height {
		numWorkers = rt.height
	}
	return &WorkerPool{
		raytracer:  rt,
		numWorkers: numWorkers,
	}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Run renders every row of img and returns the merged statistics.
// Each row is written by exactly one worker, so the image needs no locking.
// Cancelling ctx stops dispatch and Run returns ctx.Err().
func (wp *WorkerPool) Run(ctx context.Context, img *Image) (RenderStats, error) {
	rt := wp.raytracer
	g, gctx := errgroup.WithContext(ctx)
	taskQueue := make(chan RowTask)

	// Dispatcher
	g.Go(func() error {
		defer close(taskQueue)
		for y := 0; y < img.Height; y++ {
			select {
			case taskQueue <- RowTask{Y: y}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	workerStats := make([]RenderStats, wp.numWorkers)
	for i := 0; i < wp.numWorkers; i++ {
		g.Go(func() error {
			for task := range taskQueue {
				if err := gctx.Err(); err != nil {
					return err
				}
				sampler := rt.samplerFactory(task.Y)
				workerStats[i].Merge(rt.RenderRow(task.Y, img, sampler))
				wp.reportProgress(img.Height)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return RenderStats{}, err
	}
	// errgroup swallows a cancellation that lands after the last row was dispatched
	if err := ctx.Err(); err != nil {
		return RenderStats{}, err
	}

	stats := RenderStats{Workers: wp.numWorkers}
	for _, ws := range workerStats {
		stats.Merge(ws)
	}
	return stats, nil
}

// reportProgress logs roughly every tenth of the image, counting scanlines down
func (wp *WorkerPool) reportProgress(totalRows int) {
	done := int(wp.rowsDone.Add(1))
	step := max(1, totalRows/10)
	if done%step == 0 || done == totalRows {
		wp.raytracer.logger.Printf("Scanlines remaining: %d\n", totalRows-done)
	}
}
