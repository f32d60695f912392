package jobs

import (
	"context"
	"log"
	"sync"
)

// Task is a unit of background work owned by exactly one worker
type Task func(ctx context.Context)

// Runner executes submitted tasks on a fixed pool of workers. Tasks left
// in the queue at shutdown are dropped; job state is in-memory only and
// does not survive a restart.
type Runner struct {
	tasks    chan Task
	workers  int
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewRunner creates a Runner with the given worker count and queue depth
func NewRunner(workers, queueSize int) *Runner {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = workers * 4
	}
	return &Runner{
		tasks:    make(chan Task, queueSize),
		workers:  workers,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start runs the worker pool until the context is cancelled or Stop is
// called. Blocks; run it on its own goroutine.
func (r *Runner) Start(ctx context.Context) {
	defer close(r.doneChan)

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case <-r.stopChan:
					return
				case task := <-r.tasks:
					task(ctx)
				}
			}
		}()
	}

	log.Printf("ingest runner started with %d workers", r.workers)
	wg.Wait()
}

// Submit enqueues a task for execution. Blocks when the queue is full.
func (r *Runner) Submit(task Task) {
	r.tasks <- task
}

// Stop gracefully stops the runner
func (r *Runner) Stop() {
	close(r.stopChan)
	<-r.doneChan
	log.Println("ingest runner shutdown complete")
}
