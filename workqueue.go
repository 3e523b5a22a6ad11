package flowgraph

import (
	"container/heap"
	"context"
	"sync"
)

// workQueueScheduler implements the C4 Work-Queue strategy: a single
// bounded worker pool pulls ready processors (all dependencies terminal)
// off a priority queue ordered by (ascending rank, Transform-before-Analyze,
// ascending id) — mirroring the teacher's workerpool.go acquire/release
// discipline, generalized from a fixed task list to a dependency-gated
// ready queue.
type workQueueScheduler struct{}

// readyItem is one entry in the scheduler's priority queue.
type readyItem struct {
	id   string
	rank int
	// transform is true when the processor's own Intent is Transform —
	// Transform work is prioritized ahead of Analyze work at the same rank
	// so downstream Transform consumers are never needlessly delayed behind
	// Analyze siblings (spec.md §9 design note on the Work-Queue ordering
	// rule).
	transform bool
}

type readyQueue []readyItem

func (q readyQueue) Len() int { return len(q) }
func (q readyQueue) Less(i, j int) bool {
	a, b := q[i], q[j]
	if a.rank != b.rank {
		return a.rank < b.rank
	}
	if a.transform != b.transform {
		return a.transform // Transform before Analyze
	}
	return a.id < b.id
}
func (q readyQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *readyQueue) Push(x any)        { *q = append(*q, x.(readyItem)) }
func (q *readyQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

func (workQueueScheduler) Run(ctx context.Context, pipeline *Pipeline, registry Registry, initial Request, opts Options) (Results, error) {
	var mu sync.Mutex
	completed := make(map[string]Response, len(pipeline.Processors))
	results := make(Results, len(pipeline.Processors))
	tracker := newCancellationTracker(pipeline, opts.FailurePolicy)

	remainingDeps := make(map[string]int, len(pipeline.Processors))
	for id, desc := range pipeline.Processors {
		remainingDeps[id] = len(desc.Dependencies)
	}

	queue := &readyQueue{}
	heap.Init(queue)
	enqueue := func(id string) {
		heap.Push(queue, readyItem{
			id:        id,
			rank:      pipeline.Rank[id],
			transform: pipeline.Processors[id].Intent == Transform,
		})
	}
	for id, n := range remainingDeps {
		if n == 0 {
			enqueue(id)
		}
	}

	terminal := func(id string) bool {
		_, ok := completed[id]
		return ok
	}

	sem := make(chan struct{}, opts.MaxConcurrency)
	var wg sync.WaitGroup

	// onTerminal records a terminal Response for id, releases its
	// successors toward readiness, and, on failure, fans cancellation out
	// through the shared tracker. Callers must already hold mu.
	onTerminal := func(id string, resp Response) {
		completed[id] = resp
		results[id] = resultFromResponse(id, resp)

		if !resp.Success() {
			for _, cancelled := range tracker.onFailure(ctx, id, terminal) {
				results[cancelled] = cancelledResult(ctx, opts, cancelled, id)
				completed[cancelled] = Response{}
			}
		}

		for _, succ := range pipeline.Successors[id] {
			if terminal(succ) {
				continue
			}
			if _, isCancelled := tracker.isCancelled(succ); isCancelled {
				continue
			}
			remainingDeps[succ]--
			if remainingDeps[succ] == 0 {
				enqueue(succ)
			}
		}
	}

	// dispatchReady drains every currently ready item, skipping any that
	// became cancelled while queued, and launches one goroutine per
	// dispatch, gated by sem. Must be called with mu held.
	var dispatchReady func()
	dispatchReady = func() {
		for queue.Len() > 0 {
			item := heap.Pop(queue).(readyItem)
			if reason, isCancelled := tracker.isCancelled(item.id); isCancelled {
				results[item.id] = cancelledResult(ctx, opts, item.id, reason)
				completed[item.id] = Response{}
				continue
			}

			id := item.id
			wg.Add(1)
			mu.Unlock()
			sem <- struct{}{}
			go func() {
				defer wg.Done()

				predecessors := pipeline.Processors[id].Dependencies
				var req Request
				mu.Lock()
				req = AssembleInput(pipeline, id, predecessors, completed, initial)
				mu.Unlock()

				resp := dispatchOne(ctx, id, registry, req, opts)
				// Free this slot before dispatchReady, which may itself wait
				// on sem to launch the next ready item.
				<-sem

				mu.Lock()
				onTerminal(id, resp)
				dispatchReady()
				mu.Unlock()
			}()
			mu.Lock()
		}
	}

	mu.Lock()
	dispatchReady()
	mu.Unlock()

	wg.Wait()

	return results, nil
}
