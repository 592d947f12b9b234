package betaprobe

import (
	"context"
	"sync"
)

// dispatch fans the generated request sequence out to a fixed-size worker
// pool and joins the (Result, elapsed) pairs back into a single slice. On
// the non-cancelled path every generated request yields exactly one pair;
// result order is unspecified and carries no meaning, grouping downstream
// is order-independent.
//
// Cancellation is abort, not drain: as soon as the context is done the
// collector returns ctx.Err() without waiting for in-flight requests, which
// themselves get cut short through the request context.
func dispatch(ctx context.Context, cfg Config, exec *executor) ([]timedResult, error) {
	requests := generateRequests(ctx, cfg)
	results := make(chan timedResult, cfg.Processes)

	wg := sync.WaitGroup{}
	for worker := 0; worker < cfg.Processes; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case request, ok := <-requests:
					if !ok {
						return
					}
					result, elapsed := exec.Do(ctx, request)
					select {
					case results <- timedResult{result: result, elapsed: elapsed}:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	total := cfg.RequestCount()
	collected := make([]timedResult, 0, total)
	for len(collected) < total {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case pair := <-results:
			collected = append(collected, pair)
		}
	}
	wg.Wait()

	return collected, nil
}
