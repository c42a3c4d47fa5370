package reflow

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// ReconstructPages reconstructs every page using a bounded worker pool and
// returns results in input order.
func (e *Engine) ReconstructPages(pages []Page) []*Result {
	return e.ReconstructPagesCtx(context.Background(), pages)
}

// ReconstructPagesCtx is ReconstructPages with cancellation. Cancelling the
// context stops dispatching new pages; a page already being reconstructed
// runs to completion. Skipped pages yield a placeholder Result carrying a
// warning at their original index, so page numbering never shifts.
func (e *Engine) ReconstructPagesCtx(ctx context.Context, pages []Page) []*Result {
	results := make([]*Result, len(pages))
	if len(pages) == 0 {
		return results
	}

	workers := e.options.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(pages) {
		workers = len(pages)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = e.ReconstructPage(pages[i])
			}
		}()
	}

dispatch:
	for i := range pages {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	for i := range results {
		if results[i] == nil {
			results[i] = &Result{
				Page: pages[i].Number,
				Warnings: []string{
					fmt.Sprintf("page %d: reconstruction skipped: %v", pages[i].Number, ctx.Err()),
				},
			}
		}
	}
	return results
}
