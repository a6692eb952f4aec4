package retrieval

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
)

// Aggregator fans out a query to every registered adapter concurrently and
// merges whatever settled before each adapter's own deadline.
//
// Output order is deterministic and independent of completion order: results
// are concatenated in registration order (provider priority), then passed
// through Dedupe, so the dedup winner for a URL is always the
// highest-priority provider that returned it.
type Aggregator struct {
	slots  []adapterSlot
	logger *log.Logger
}

type adapterSlot struct {
	adapter Adapter
	timeout time.Duration
}

// NewAggregator creates an aggregator with no adapters registered.
func NewAggregator(logger *log.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// Register appends an adapter at the lowest priority so far. Each adapter
// gets an independent timeout; a slow adapter is dropped from the merge
// without aborting its siblings.
func (a *Aggregator) Register(adapter Adapter, timeout time.Duration) {
	a.slots = append(a.slots, adapterSlot{adapter: adapter, timeout: timeout})
}

// Search runs every adapter, waits for all of them to settle and returns the
// merged, deduplicated result list. A provider that times out, panics or
// returns nothing simply contributes zero results; the aggregate call itself
// never fails. An expired parent context cancels the still-pending adapters.
func (a *Aggregator) Search(ctx context.Context, query string) []ScoredResult {
	collected := make([][]ScoredResult, len(a.slots))

	g := new(errgroup.Group)
	for i, slot := range a.slots {
		g.Go(func() error {
			tctx, cancel := context.WithTimeout(ctx, slot.timeout)
			defer cancel()

			done := make(chan []ScoredResult, 1)
			go func() {
				defer func() {
					if r := recover(); r != nil {
						a.logger.Printf("[ERROR] Provider %s panicked: %v", slot.adapter.Name(), r)
						done <- nil
					}
				}()
				done <- slot.adapter.Search(tctx, query)
			}()

			select {
			case res := <-done:
				collected[i] = res
			case <-tctx.Done():
				// The adapter goroutine is left to finish on its own; its
				// late result is discarded.
				a.logger.Printf("[WARN] Provider %s dropped: %v", slot.adapter.Name(), tctx.Err())
			}
			return nil
		})
	}
	_ = g.Wait()

	var merged []ScoredResult
	for _, res := range collected {
		merged = append(merged, res...)
	}

	unique := Dedupe(merged)
	a.logger.Printf("[INFO] Combined web search found %d results for %q", len(unique), query)
	return unique
}
