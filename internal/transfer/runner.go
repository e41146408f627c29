package transfer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/westy/filemaster/internal/constants"
	"github.com/westy/filemaster/internal/fsops"
	"github.com/westy/filemaster/internal/logging"
)

// RunnerOptions tunes the worker pool.
type RunnerOptions struct {
	// Workers is the number of concurrent transfers. Out-of-range values
	// fall back to the default.
	Workers int

	// PreserveAttrs carries mode and mtime to the destination.
	PreserveAttrs bool

	// Verify compares source and destination checksums after each copy.
	Verify bool
}

// Runner executes queued tasks with a semaphore-bounded worker pool.
// One goroutine runs per in-flight transfer; the queue observes and the
// front ends watch the bus.
type Runner struct {
	queue *Queue
	log   *logging.Logger
	opts  RunnerOptions

	sem chan struct{}
	wg  sync.WaitGroup
}

// NewRunner creates a runner draining into the given queue.
func NewRunner(queue *Queue, logger *logging.Logger, opts RunnerOptions) *Runner {
	if opts.Workers < 1 || opts.Workers > constants.MaxTransferWorkers {
		opts.Workers = constants.DefaultTransferWorkers
	}
	r := &Runner{
		queue: queue,
		log:   logger,
		opts:  opts,
		sem:   make(chan struct{}, opts.Workers),
	}
	queue.SetRetryExecutor(r)
	return r
}

// Submit tracks a new transfer and starts executing it when a worker
// slot frees up. Returns the task for status queries.
func (r *Runner) Submit(taskType TaskType, source, dest string) (*Task, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory; expand directories before queueing", source)
	}

	task := r.queue.Track(taskType, filepath.Base(source), source, dest, info.Size())
	r.queue.SetCancel(task.ID, task.Cancel)

	r.wg.Add(1)
	go r.run(task)
	return task, nil
}

// ExecuteRetry implements RetryExecutor.
func (r *Runner) ExecuteRetry(task *Task) {
	r.queue.SetCancel(task.ID, task.Cancel)
	r.wg.Add(1)
	r.run(task)
}

// Wait blocks until all submitted transfers finish.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) run(task *Task) {
	defer r.wg.Done()

	ctx := task.Context()

	// Wait for a worker slot, bailing out if cancelled while queued
	select {
	case r.sem <- struct{}{}:
	case <-ctx.Done():
		return
	}
	defer func() { <-r.sem }()

	if task.GetState() != TaskQueued {
		return
	}
	r.queue.Activate(task.ID)

	if r.log != nil {
		r.log.Debugf("%s %s -> %s (%d bytes)", task.Type, task.Source, task.Dest, task.Size)
	}

	var transferred int64
	started := false
	onBytes := func(n int64) {
		if !started {
			r.queue.Start(task.ID)
			started = true
		}
		transferred += n
		if task.Size > 0 {
			r.queue.UpdateProgress(task.ID, float64(transferred)/float64(task.Size))
		}
	}

	// Zero-byte files never hit onBytes
	r.queue.Start(task.ID)

	if _, err := fsops.CopyFile(ctx, task.Source, task.Dest, r.opts.PreserveAttrs, onBytes); err != nil {
		if ctx.Err() != nil {
			// Cancel already moved the task to its terminal state
			return
		}
		r.queue.Fail(task.ID, err)
		return
	}

	if r.opts.Verify {
		if err := r.verify(ctx, task); err != nil {
			os.Remove(task.Dest)
			r.queue.Fail(task.ID, err)
			return
		}
	}

	if task.Type == TaskTypeMove {
		if err := os.Remove(task.Source); err != nil {
			r.queue.Fail(task.ID, fmt.Errorf("copied but could not remove source: %w", err))
			return
		}
	}

	r.queue.Complete(task.ID)
}

func (r *Runner) verify(ctx context.Context, task *Task) error {
	srcSum, err := fsops.Checksum(ctx, task.Source, fsops.MD5)
	if err != nil {
		return fmt.Errorf("verify %s: %w", task.Name, err)
	}
	dstSum, err := fsops.Checksum(ctx, task.Dest, fsops.MD5)
	if err != nil {
		return fmt.Errorf("verify %s: %w", task.Name, err)
	}
	if srcSum != dstSum {
		return fmt.Errorf("verify %s: checksum mismatch after copy", task.Name)
	}
	return nil
}
