package flowgraph

import (
	"context"
	"sort"
	"sync"
)

// levelByLevelScheduler implements the C5 Level-by-Level strategy:
// processors are partitioned by Pipeline.Rank and each level runs fully in
// parallel, with a barrier between levels. Because every predecessor of a
// rank-N processor has rank < N, the barrier guarantees every predecessor
// is terminal before its level starts (spec.md §4.1 rank definition).
type levelByLevelScheduler struct{}

func (levelByLevelScheduler) Run(ctx context.Context, pipeline *Pipeline, registry Registry, initial Request, opts Options) (Results, error) {
	levels := partitionByRank(pipeline)

	completed := make(map[string]Response, len(pipeline.Processors))
	results := make(Results, len(pipeline.Processors))
	tracker := newCancellationTracker(pipeline, opts.FailurePolicy)
	terminal := func(id string) bool {
		_, ok := completed[id]
		return ok
	}

	sem := make(chan struct{}, opts.MaxConcurrency)

	for _, level := range levels {
		var mu sync.Mutex
		var wg sync.WaitGroup

		for _, id := range level {
			mu.Lock()
			reason, isCancelled := tracker.isCancelled(id)
			if isCancelled {
				results[id] = cancelledResult(ctx, opts, id, reason)
				completed[id] = Response{}
			}
			mu.Unlock()
			if isCancelled {
				continue
			}

			id := id
			wg.Add(1)
			sem <- struct{}{}
			go func() {
				defer wg.Done()
				defer func() { <-sem }()

				mu.Lock()
				req := AssembleInput(pipeline, id, pipeline.Processors[id].Dependencies, completed, initial)
				mu.Unlock()
				resp := dispatchOne(ctx, id, registry, req, opts)

				mu.Lock()
				defer mu.Unlock()
				completed[id] = resp
				results[id] = resultFromResponse(id, resp)
				if !resp.Success() {
					for _, cancelled := range tracker.onFailure(ctx, id, terminal) {
						results[cancelled] = cancelledResult(ctx, opts, cancelled, id)
						completed[cancelled] = Response{}
					}
				}
			}()
		}

		wg.Wait()
	}

	return results, nil
}

// partitionByRank groups every processor id by Pipeline.Rank, returning
// levels ordered ascending by rank and each level's ids ordered ascending
// for deterministic dispatch order within a level.
func partitionByRank(pipeline *Pipeline) [][]string {
	byRank := make(map[int][]string)
	maxRank := 0
	for id, rank := range pipeline.Rank {
		byRank[rank] = append(byRank[rank], id)
		if rank > maxRank {
			maxRank = rank
		}
	}
	levels := make([][]string, maxRank+1)
	for rank, ids := range byRank {
		sort.Strings(ids)
		levels[rank] = ids
	}
	return levels
}
