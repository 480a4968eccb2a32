package count

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Parallel runs counter once per window size in ns, concurrently. Each run
// owns its result map; nothing is shared between goroutines.
func Parallel(ctx context.Context, text []byte, ns []int, counter Counter) (map[int]map[string]int, error) {
	results := make([]map[string]int, len(ns))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, n := range ns {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			counts, err := counter(text, n)
			if err != nil {
				return err
			}
			results[i] = counts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byN := make(map[int]map[string]int, len(ns))
	for i, n := range ns {
		byN[n] = results[i]
	}
	return byN, nil
}
