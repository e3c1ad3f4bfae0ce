// File path: internal/workerpool/pool.go
// Package workerpool runs CPU-bound normalization/hashing work on a fixed
// pool of goroutines separate from the store's I/O connection pool, per
// §5's "CPU-bound hashing on a worker pool distinct from the I/O task
// set." Built on golang.org/x/sync/errgroup and golang.org/x/sync/semaphore,
// the same pairing the rest of the example pack reaches for to bound
// concurrent fan-out.
package workerpool

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Pool bounds concurrent execution of Run and Map work to a fixed width.
type Pool struct {
	sem *semaphore.Weighted
}

// New builds a Pool sized to GOMAXPROCS if width <= 0.
func New(width int) *Pool {
	if width <= 0 {
		width = runtime.GOMAXPROCS(0)
	}
	return &Pool{sem: semaphore.NewWeighted(int64(width))}
}

// Run executes fn(item) for every item concurrently, bounded by the pool's
// width, and returns the first error encountered (if any), cancelling the
// remaining work via the errgroup-derived context.
func Run[T any](ctx context.Context, p *Pool, items []T, fn func(context.Context, T) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, item := range items {
		item := item
		if err := p.sem.Acquire(gctx, 1); err != nil {
			if werr := g.Wait(); werr != nil {
				return werr
			}
			return err
		}
		g.Go(func() error {
			defer p.sem.Release(1)
			return fn(gctx, item)
		})
	}
	return g.Wait()
}

// Map runs fn over every item concurrently and collects results in input
// order, short-circuiting on the first error.
func Map[T, R any](ctx context.Context, p *Pool, items []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	g, gctx := errgroup.WithContext(ctx)
	for i, item := range items {
		i, item := i, item
		if err := p.sem.Acquire(gctx, 1); err != nil {
			if werr := g.Wait(); werr != nil {
				return nil, werr
			}
			return nil, err
		}
		g.Go(func() error {
			defer p.sem.Release(1)
			r, err := fn(gctx, item)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
