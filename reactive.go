package flowgraph

import (
	"context"
	"sync"
)

// reactiveMsg is what a predecessor publishes to each of its successors'
// inbound channels on termination.
type reactiveMsg struct {
	from string
	resp Response
	// cancelled and reason are set instead of resp when from was cancelled
	// rather than terminating normally, so a successor can propagate
	// cancellation without consulting shared state.
	cancelled bool
	reason    string
}

// reactiveScheduler implements the C6 Reactive strategy: one task per
// processor, each awaiting exactly one inbound message per direct
// predecessor (or a single synthetic start signal for an entrypoint)
// before assembling its Request and dispatching. There is no shared ready
// queue and no barrier; a processor starts the instant its own inputs are
// satisfied, independent of the rest of the pipeline's progress.
type reactiveScheduler struct{}

func (reactiveScheduler) Run(ctx context.Context, pipeline *Pipeline, registry Registry, initial Request, opts Options) (Results, error) {
	inboxes := make(map[string]chan reactiveMsg, len(pipeline.Processors))
	for id, desc := range pipeline.Processors {
		n := len(desc.Dependencies)
		if n == 0 {
			n = 1 // a single synthetic start signal
		}
		inboxes[id] = make(chan reactiveMsg, n)
	}

	var mu sync.Mutex
	results := make(Results, len(pipeline.Processors))
	tracker := newCancellationTracker(pipeline, opts.FailurePolicy)
	terminal := func(id string) bool {
		_, ok := results[id]
		return ok
	}

	publish := func(id string, resp Response) {
		mu.Lock()
		results[id] = resultFromResponse(id, resp)
		cancellations := map[string]string{}
		if !resp.Success() {
			for _, cancelled := range tracker.onFailure(ctx, id, terminal) {
				cancellations[cancelled] = id
			}
		}
		mu.Unlock()

		for _, succ := range pipeline.Successors[id] {
			if reason, isCancelled := cancellations[succ]; isCancelled {
				inboxes[succ] <- reactiveMsg{from: id, cancelled: true, reason: reason}
				continue
			}
			inboxes[succ] <- reactiveMsg{from: id, resp: resp}
		}
	}

	// abortAndPropagate marks id Cancelled (unless something else already
	// made it terminal) and forwards a cancel message to every successor,
	// so a fail_fast abort observed via the broadcast channel — which has
	// no edge to travel along — still reaches descendants through the
	// normal per-edge channel fabric from this point on.
	abortAndPropagate := func(id, reason string) {
		mu.Lock()
		if !terminal(id) {
			results[id] = cancelledResult(ctx, opts, id, reason)
		}
		mu.Unlock()
		for _, succ := range pipeline.Successors[id] {
			inboxes[succ] <- reactiveMsg{from: id, cancelled: true, reason: reason}
		}
	}

	var wg sync.WaitGroup
	for id := range pipeline.Processors {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()

			desc := pipeline.Processors[id]
			inbox := inboxes[id]

			if len(desc.Dependencies) == 0 {
				select {
				case <-tracker.Broadcast():
					abortAndPropagate(id, CancelFailFastReason)
					return
				default:
				}
				req := AssembleInput(pipeline, id, nil, nil, initial)
				resp := dispatchOne(ctx, id, registry, req, opts)
				publish(id, resp)
				return
			}

			completed := make(map[string]Response, len(desc.Dependencies))
			var cancelReason string
			pending := len(desc.Dependencies)
			for pending > 0 && cancelReason == "" {
				select {
				case msg := <-inbox:
					if msg.cancelled {
						cancelReason = msg.reason
					} else {
						completed[msg.from] = msg.resp
					}
					pending--
				case <-tracker.Broadcast():
					cancelReason = CancelFailFastReason
				}
			}

			if cancelReason != "" {
				// inbox is sized to exactly one slot per dependency, and
				// every predecessor sends exactly once regardless of this
				// node's own outcome, so the unread remainder never blocks
				// a predecessor's send.
				abortAndPropagate(id, cancelReason)
				return
			}

			req := AssembleInput(pipeline, id, desc.Dependencies, completed, initial)
			resp := dispatchOne(ctx, id, registry, req, opts)
			publish(id, resp)
		}()
	}

	wg.Wait()
	return results, nil
}
