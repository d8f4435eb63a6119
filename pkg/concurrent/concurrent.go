package concurrent

import (
	"context"
	"sync"

	"github.com/zeusync/spatial/pkg/sequence"
	"golang.org/x/sync/errgroup"
)

// Concurrent runs action for each element of the iterator in its own goroutine,
// at most limit at a time (limit <= 0 means unbounded). It waits for all of
// them and returns the first error encountered. The context passed to action is
// cancelled as soon as one action fails.
func Concurrent[T any](ctx context.Context, i *sequence.Iterator[T], limit int, action func(context.Context, T) error) error {
	group, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		group.SetLimit(limit)
	}

	next, stop := i.Pull()
	defer stop()

	for {
		value, valid := next()
		if !valid {
			break
		}
		if gctx.Err() != nil {
			break
		}

		group.Go(func() error {
			return action(gctx, value)
		})
	}

	return group.Wait()
}

// Batch splits the iterator into chunks of batchSize and processes each chunk
// in a separate goroutine.
func Batch[T any](i *sequence.Iterator[T], batchSize int, action func([]T)) {
	if batchSize <= 0 {
		batchSize = 1
	}
	in := i.Collect()
	var wg sync.WaitGroup
	for idx := 0; idx < len(in); idx += batchSize {
		end := idx + batchSize
		if end > len(in) {
			end = len(in)
		}
		wg.Add(1)
		go func(chunk []T) {
			defer wg.Done()
			action(chunk)
		}(in[idx:end])
	}
	wg.Wait()
}
