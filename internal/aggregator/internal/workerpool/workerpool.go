package workerpool

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Mrudul2k/yeet-magic-scanner/internal/model"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/serviceerrs"
)

type ClaimReader interface {
	ReadClaimState(ctx context.Context, tokenID uint64) (model.ClaimState, error)
}

type ReadSemaphore interface {
	AcquireWithTimeout(timeout time.Duration) error
	Release()
}

// Job assigns one token ID to a fixed slot in the result array.
type Job struct {
	Slot    int
	TokenID uint64
}

// Result is written exactly once, by the worker that took the job.
// Done stays false for jobs the pool never reached before cancellation.
type Result struct {
	State model.ClaimState
	Err   error
	Done  bool
}

type WorkerPool struct {
	Reader         ClaimReader
	Sema           ReadSemaphore
	WorkerCount    int
	RetryAttempts  uint64
	RetryInterval  time.Duration
	AcquireTimeout time.Duration
}

func New(reader ClaimReader, sema ReadSemaphore, workerCount int) *WorkerPool {
	return &WorkerPool{
		Reader:         reader,
		Sema:           sema,
		WorkerCount:    workerCount,
		RetryAttempts:  model.DefaultRetryAttempts,
		RetryInterval:  model.DefaultRetryInterval,
		AcquireTimeout: model.DefaultReadTimeout,
	}
}

// Run drains the jobs channel into slots and blocks until all workers
// exit. Slot indices never collide, so no locking is needed beyond the
// semaphore gating in-flight reads.
func (pool *WorkerPool) Run(ctx context.Context, jobs <-chan Job, slots []Result) {
	wg := &sync.WaitGroup{}
	for i := 0; i < pool.WorkerCount; i++ {
		wg.Add(1)
		go pool.worker(ctx, wg, jobs, slots)
	}
	wg.Wait()
}

func (pool *WorkerPool) worker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan Job, slots []Result) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if ctx.Err() != nil {
				return
			}
			slots[job.Slot] = pool.process(ctx, job)
		}
	}
}

func (pool *WorkerPool) process(ctx context.Context, job Job) Result {
	if err := pool.Sema.AcquireWithTimeout(pool.AcquireTimeout); err != nil {
		return Result{Err: err, Done: true}
	}
	defer pool.Sema.Release()

	state, err := pool.readWithRetry(ctx, job.TokenID)
	return Result{State: state, Err: err, Done: true}
}

// readWithRetry retries transient chain errors with exponential
// backoff; permanent errors (reverts, decode failures) fail at once.
func (pool *WorkerPool) readWithRetry(ctx context.Context, tokenID uint64) (model.ClaimState, error) {
	var state model.ClaimState
	op := func() error {
		var err error
		state, err = pool.Reader.ReadClaimState(ctx, tokenID)
		if err == nil {
			return nil
		}
		var readErr *serviceerrs.ChainReadError
		if errors.As(err, &readErr) && readErr.Transient() {
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = pool.RetryInterval
	err := backoff.Retry(op, backoff.WithContext(
		backoff.WithMaxRetries(policy, pool.RetryAttempts), ctx))
	return state, err
}
