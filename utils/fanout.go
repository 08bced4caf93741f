package utils

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// MapOrdered resolves every item with fn, keeping at most limit calls in flight.
// out[i] always holds the result for items[i], whatever order the calls finish in.
// The first error cancels the context handed to the remaining calls; MapOrdered
// returns only after every started call has returned.
func MapOrdered[T, R any](ctx context.Context, items []T, limit int, fn func(context.Context, T) (R, error)) ([]R, error) {
	if limit < 1 {
		limit = 1
	}
	out := make([]R, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, item := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			r, err := fn(gctx, item)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
