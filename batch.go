package jsonfix

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"charm.land/jsonfix/normalize"
)

// RepairBatch runs ParsePartialJSON over inputs on a pool of workers and
// returns the results in input order. A failed item yields a Result in
// ParseStateFailed rather than an error. workers < 1 picks a size from the
// number of CPUs.
//
// Cancelling ctx stops items that have not started yet; RepairBatch then
// returns ctx.Err().
func RepairBatch(ctx context.Context, inputs []string, opts normalize.Options, workers int) ([]*Result, error) {
	if workers < 1 {
		workers = max(runtime.NumCPU()/2, 1)
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	results := make([]*Result, len(inputs))
	var wg sync.WaitGroup
	for i, input := range inputs {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			res, err := ParsePartialJSON(input, opts)
			if err != nil {
				slog.Warn("batch item failed", "index", i, "id", res.ID, "err", err)
			}
			results[i] = res
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
