package flowgraph

import (
	"context"
	"sync"

	"github.com/zoobzio/capitan"
)

// FailurePolicy selects how a scheduler reacts to the first processor
// Error within a run.
type FailurePolicy string

const (
	// FailFast cancels every not-yet-started processor on the first Error.
	FailFast FailurePolicy = "fail_fast"
	// ContinueIndependent cancels only the descendants of a failed
	// processor; unaffected branches continue to run to completion.
	ContinueIndependent FailurePolicy = "continue_independent"
)

// Valid reports whether p is a recognized FailurePolicy value.
func (p FailurePolicy) Valid() bool {
	return p == FailFast || p == ContinueIndependent
}

// cancellationTracker accumulates which not-yet-terminal processors must be
// marked Cancelled, along with the reason id each is cancelled for. It is
// shared state within one execute call and every scheduler must guard
// access to it the same way it guards `completed`/`failed` (single
// scheduler goroutine, or a mutex) — see each scheduler's own locking.
type cancellationTracker struct {
	pipeline *Pipeline
	policy   FailurePolicy
	reason   map[string]string // id -> id of the failed ancestor (or CancelFailFastReason)

	// broadcast is closed the first time FailFast records a failure. The
	// reactive scheduler has no central loop to apply the "every
	// not-yet-terminal processor" rule against, so it selects on this
	// channel alongside its per-edge inbox to notice a fail_fast abort even
	// when the failure happened on an unrelated branch of the graph.
	broadcastOnce sync.Once
	broadcast     chan struct{}
}

func newCancellationTracker(pipeline *Pipeline, policy FailurePolicy) *cancellationTracker {
	return &cancellationTracker{
		pipeline:  pipeline,
		policy:    policy,
		reason:    make(map[string]string),
		broadcast: make(chan struct{}),
	}
}

// Broadcast returns the channel closed on the first fail_fast failure.
// Under ContinueIndependent it is never closed.
func (t *cancellationTracker) Broadcast() <-chan struct{} {
	return t.broadcast
}

// onFailure records that failedID just failed and propagates cancellation
// to the processors that must not run as a consequence, per policy. It
// returns the set of ids newly marked cancelled by this call (ids already
// cancelled are not repeated). terminal reports, for each id, whether it has
// already completed or failed (and is therefore not a cancellation
// candidate).
func (t *cancellationTracker) onFailure(ctx context.Context, failedID string, terminal func(id string) bool) []string {
	var newlyCancelled []string

	switch t.policy {
	case FailFast:
		t.broadcastOnce.Do(func() {
			close(t.broadcast)
			capitan.Info(ctx, SignalFailFastAbort, FieldProcessorID.Field(failedID))
		})
		// Every not-yet-terminal, not-yet-cancelled processor is cancelled.
		for _, id := range t.pipeline.Order() {
			if id == failedID {
				continue
			}
			if terminal(id) {
				continue
			}
			if _, already := t.reason[id]; already {
				continue
			}
			t.reason[id] = failedID
			newlyCancelled = append(newlyCancelled, id)
		}
	case ContinueIndependent:
		// Only the transitive successors of failedID are cancelled.
		queue := append([]string(nil), t.pipeline.Successors[failedID]...)
		seen := make(map[string]bool, len(queue))
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			if seen[id] {
				continue
			}
			seen[id] = true
			if terminal(id) {
				continue
			}
			if _, already := t.reason[id]; !already {
				t.reason[id] = failedID
				newlyCancelled = append(newlyCancelled, id)
			}
			queue = append(queue, t.pipeline.Successors[id]...)
		}
	}
	return newlyCancelled
}

// isCancelled reports whether id has been marked for cancellation and
// returns its reason.
func (t *cancellationTracker) isCancelled(id string) (string, bool) {
	reason, ok := t.reason[id]
	return reason, ok
}
