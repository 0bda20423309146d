package crawl

import (
	"context"
	"sync"
	"time"
)

// drainTimeout bounds how long the coordinator waits for in-flight
// workers after it stops dispatching.
const drainTimeout = 5 * time.Second

// walkProcessor processes an item and returns a pageResult.
type walkProcessor func(ctx context.Context, item Item) pageResult

// walkResultHandler handles a completed pageResult. It is only ever called
// from the coordinator goroutine, so it may touch crawl state without locks.
type walkResultHandler func(result *pageResult)

// walkFrontier dispatches frontier items to a pool of concurrency workers
// until the frontier is exhausted, maxItems have been dispatched, or ctx is
// canceled. An item is popped only when a worker is free, so everything
// handleResult changes in the frontier is visible to the next dispatch.
func walkFrontier(
	ctx context.Context,
	frontier *Frontier,
	concurrency int,
	maxItems int,
	processItem walkProcessor,
	handleResult walkResultHandler,
) error {
	if concurrency <= 0 {
		concurrency = 1
	}

	workCh := make(chan Item)
	resultCh := make(chan pageResult)

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range workCh {
				result := processItem(ctx, item)
				select {
				case resultCh <- result:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	dispatched := 0
	pending := 0

coordinatorLoop:
	for ctx.Err() == nil {
		// Fewer than concurrency results are outstanding, so at least one
		// worker is blocked on workCh and the send completes.
		for pending < concurrency && dispatched < maxItems {
			item, ok := frontier.Pop()
			if !ok {
				break
			}
			select {
			case <-ctx.Done():
				break coordinatorLoop
			case workCh <- item:
				dispatched++
				pending++
			}
		}

		if pending == 0 {
			break
		}

		select {
		case <-ctx.Done():
			break coordinatorLoop
		case res, ok := <-resultCh:
			if !ok {
				break coordinatorLoop
			}
			pending--
			handleResult(&res)
		}
	}

	close(workCh)

	timeout := time.NewTimer(drainTimeout)
	defer timeout.Stop()
drainLoop:
	for {
		select {
		case res, ok := <-resultCh:
			if !ok {
				break drainLoop
			}
			handleResult(&res)
		case <-timeout.C:
			break drainLoop
		}
	}

	return ctx.Err()
}
