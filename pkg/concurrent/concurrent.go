package concurrent

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// limitOrDefault maps a non-positive worker count to GOMAXPROCS.
func limitOrDefault(workers int) int {
	if workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return workers
}

// ForEach runs action for each element with at most workers goroutines.
// It returns the first error encountered; the context passed to action is
// cancelled once any action fails.
func ForEach[T any](ctx context.Context, items []T, workers int, action func(context.Context, T) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limitOrDefault(workers))

	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return action(ctx, item)
		})
	}

	return g.Wait()
}

// Map applies mapFn to each element in parallel, preserving order. On the
// first error the remaining work is cancelled and the error returned.
func Map[T any, R any](ctx context.Context, items []T, workers int, mapFn func(context.Context, T) (R, error)) ([]R, error) {
	out := make([]R, len(items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limitOrDefault(workers))

	for idx, item := range items {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			r, err := mapFn(ctx, item)
			if err != nil {
				return err
			}
			out[idx] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Outcome is the per-element result of MapSettled.
type Outcome[R any] struct {
	Value R
	Err   error
}

// MapSettled applies mapFn to every element regardless of failures and
// returns the outcomes in input order.
func MapSettled[T any, R any](ctx context.Context, items []T, workers int, mapFn func(context.Context, T) (R, error)) []Outcome[R] {
	out := make([]Outcome[R], len(items))
	g := errgroup.Group{}
	g.SetLimit(limitOrDefault(workers))

	for idx, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				out[idx].Err = err
				return nil
			}
			out[idx].Value, out[idx].Err = mapFn(ctx, item)
			return nil
		})
	}

	_ = g.Wait()
	return out
}
