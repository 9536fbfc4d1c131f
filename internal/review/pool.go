package review

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Pool bounds the number of blob fetches running at once across every phase
// of every review in the process.
type Pool struct {
	sem  *semaphore.Weighted
	size int
}

// NewPool creates a pool with the given number of slots. Sizes below one are
// raised to one.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size)), size: size}
}

func (p *Pool) Size() int {
	return p.size
}

// NewBatch starts a phase. Tasks submitted to the batch run with a context
// detached from ctx's cancellation, so a phase that was entered always settles.
func (p *Pool) NewBatch(ctx context.Context) *Batch {
	return &Batch{pool: p, ctx: context.WithoutCancel(ctx)}
}

// Batch is one phase's set of tasks. Wait is its join barrier.
type Batch struct {
	pool *Pool
	ctx  context.Context
	wg   sync.WaitGroup

	mu   sync.Mutex
	errs []error
}

// Go blocks until a pool slot is free, then runs fn on its own goroutine.
// Tasks must not call Go on any batch themselves.
func (b *Batch) Go(fn func(ctx context.Context) error) {
	if err := b.pool.sem.Acquire(b.ctx, 1); err != nil {
		b.record(fmt.Errorf("acquire worker slot: %w", err))
		return
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer b.pool.sem.Release(1)
		if err := fn(b.ctx); err != nil {
			b.record(err)
		}
	}()
}

// Wait blocks until every submitted task has settled and returns the errors
// of the failed ones in completion order.
func (b *Batch) Wait() []error {
	b.wg.Wait()
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]error(nil), b.errs...)
}

func (b *Batch) record(err error) {
	b.mu.Lock()
	b.errs = append(b.errs, err)
	b.mu.Unlock()
}
