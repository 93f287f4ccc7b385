package mapreduce

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
)

// Executor runs independent tasks on a bounded pool of worker goroutines.
type Executor struct {
	workers int
	logger  *slog.Logger
}

// NewExecutor creates an Executor with at most workers concurrent goroutines.
// A non-positive workers value uses runtime.NumCPU().
func NewExecutor(workers int, logger *slog.Logger) *Executor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Executor{workers: workers, logger: logger}
}

// Workers returns the pool size.
func (ex *Executor) Workers() int {
	return ex.workers
}

// TaskError reports the task that stopped a RunAll call.
type TaskError struct {
	Index int
	Err   error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %d failed: %v", e.Index, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// Is makes every TaskError match ErrWorkerFailure.
func (e *TaskError) Is(target error) bool {
	return target == ErrWorkerFailure
}

type job[I any] struct {
	index int
	item  I
}

// RunAll applies fn to every item on the executor's pool and returns the
// outputs in input order. The first failing task cancels the remaining work
// and its error is returned as a *TaskError.
func RunAll[I, O any](ctx context.Context, ex *Executor, items []I, fn func(I) (O, error)) ([]O, error) {
	results := make([]O, len(items))
	if len(items) == 0 {
		return results, ctx.Err()
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	workerCount := min(ex.workers, len(items))

	var (
		wg       sync.WaitGroup
		failOnce sync.Once
		runErr   error
	)
	fail := func(err error) {
		failOnce.Do(func() {
			runErr = err
			cancel()
		})
	}

	jobs := make(chan job[I], workerCount)
	for w := 1; w <= workerCount; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			ex.logger.Debug("Worker started", "worker_id", id)
			for j := range jobs {
				// Drain without working once the run has been cancelled.
				if runCtx.Err() != nil {
					continue
				}
				out, err := call(fn, j.item)
				if err != nil {
					ex.logger.Error("Task failed", "worker_id", id, "task", j.index, "error", err)
					fail(&TaskError{Index: j.index, Err: err})
					continue
				}
				results[j.index] = out
			}
			ex.logger.Debug("Worker finished", "worker_id", id)
		}(w)
	}

dispatch:
	for i, item := range items {
		select {
		case jobs <- job[I]{index: i, item: item}:
		case <-runCtx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if runErr != nil {
		return nil, runErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// call runs fn and converts a panic into an error.
func call[I, O any](fn func(I) (O, error), item I) (out O, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(item)
}
