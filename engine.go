package flowgraph

import (
	"context"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// Strategy selects which of the three interchangeable schedulers executes a
// Pipeline. All three strategies, given the same Pipeline, Registry, and
// initial Request, produce equivalent Results (spec.md invariant P2):
// identical per-id Status/Payload/Metadata, differing only in wall-clock
// scheduling order.
type Strategy string

const (
	WorkQueueStrategy   Strategy = "work_queue"
	LevelByLevelStrategy Strategy = "level_by_level"
	ReactiveStrategy    Strategy = "reactive"
)

// Valid reports whether s is a recognized Strategy value.
func (s Strategy) Valid() bool {
	return s == WorkQueueStrategy || s == LevelByLevelStrategy || s == ReactiveStrategy
}

// Options configures a single Execute call. The zero value is usable:
// MaxConcurrency defaults to unbounded (len(pipeline.Processors)), Clock
// defaults to clockz.RealClock, and no cache or observability hooks are
// installed.
type Options struct {
	FailurePolicy  FailurePolicy
	MaxConcurrency int
	Clock          clockz.Clock
	Observability  *Observability
	Cache          *ResultCache
	RunID          string
}

func (o Options) withDefaults(pipeline *Pipeline) Options {
	if o.FailurePolicy == "" {
		o.FailurePolicy = FailFast
	}
	if o.MaxConcurrency <= 0 {
		o.MaxConcurrency = len(pipeline.Processors)
		if o.MaxConcurrency == 0 {
			o.MaxConcurrency = 1
		}
	}
	if o.Clock == nil {
		o.Clock = clockz.RealClock
	}
	if o.Observability == nil {
		o.Observability = NewObservability()
	}
	return o
}

// Scheduler is the narrow capability each of the three strategies
// implements. The core depends only on this interface; Execute is the one
// place that chooses a concrete implementation from a Strategy name.
type Scheduler interface {
	Run(ctx context.Context, pipeline *Pipeline, registry Registry, initial Request, opts Options) (Results, error)
}

// Execute runs pipeline to completion under the chosen Strategy and returns
// a terminal Result for every processor id. It never returns a non-nil
// error for ordinary processor failures — those are reported through
// Results — only for EngineError conditions (invalid Strategy, invalid
// FailurePolicy) that indicate a programming error by the caller.
func Execute(ctx context.Context, pipeline *Pipeline, registry Registry, strategy Strategy, initial Request, opts Options) (Results, error) {
	if !strategy.Valid() {
		return nil, &EngineError{Message: "unrecognized strategy " + string(strategy)}
	}
	opts = opts.withDefaults(pipeline)
	if !opts.FailurePolicy.Valid() {
		return nil, &EngineError{Message: "unrecognized failure policy " + string(opts.FailurePolicy)}
	}

	var scheduler Scheduler
	switch strategy {
	case WorkQueueStrategy:
		scheduler = workQueueScheduler{}
	case LevelByLevelStrategy:
		scheduler = levelByLevelScheduler{}
	case ReactiveStrategy:
		scheduler = reactiveScheduler{}
	}

	capitan.Info(ctx, SignalRunStarted,
		FieldRunID.Field(opts.RunID),
		FieldStrategy.Field(string(strategy)),
		FieldFailurePolicy.Field(string(opts.FailurePolicy)),
		FieldProcessorCount.Field(len(pipeline.Processors)),
	)

	// Start parent span for the whole run, mirroring RetryProcessSpan in the
	// teacher's retry.go: dispatchOne starts a child SpanProcess per
	// processor beneath this one. opts.Observability is never nil here —
	// withDefaults installs NewObservability() when the caller leaves it
	// unset.
	ctx, span := opts.Observability.Tracer.StartSpan(ctx, SpanExecute)
	span.SetTag(TagStrategy, string(strategy))
	span.SetTag(TagFailurePolicy, string(opts.FailurePolicy))

	start := opts.Clock.Now()
	results, err := scheduler.Run(ctx, pipeline, registry, initial, opts)
	duration := opts.Clock.Now().Sub(start)

	opts.Observability.Metrics.Gauge(MetricRunDurationMs).Set(float64(duration.Milliseconds()))
	span.SetTag(TagOutcome, string(runOutcome(results)))
	span.Finish()

	var success, failed, cancelled int
	for _, r := range results {
		switch r.Status {
		case StatusSuccess:
			success++
		case StatusError:
			failed++
		case StatusCancelled:
			cancelled++
		}
	}
	capitan.Info(ctx, SignalRunCompleted,
		FieldRunID.Field(opts.RunID),
		FieldStrategy.Field(string(strategy)),
		FieldSuccessCount.Field(success),
		FieldFailureCount.Field(failed),
		FieldCancelCount.Field(cancelled),
		FieldDurationSecs.Field(duration.Seconds()),
	)
	return results, err
}

// dispatchOne invokes registry.Lookup and, on success, safeProcess, wrapping
// the result in the bookkeeping every scheduler needs: an EngineError never
// escapes from here, a missing registry entry degrades to an ordinary
// ProcessorError, and observability events fire uniformly regardless of
// which scheduler called in.
func dispatchOne(ctx context.Context, id string, registry Registry, req Request, opts Options) Response {
	p, ok := registry.Lookup(id)
	if !ok {
		return missingProcessorResponse(id)
	}

	if opts.Cache != nil {
		if cached, hit := opts.Cache.Get(id, req); hit {
			return cached
		}
	}

	spanCtx, span := opts.Observability.Tracer.StartSpan(ctx, SpanProcess)
	span.SetTag(TagProcessorID, id)
	span.SetTag(TagIntent, string(p.Intent()))

	started := opts.Clock.Now()
	opts.Observability.emitDispatch(ctx, RunEvent{ProcessorID: id, Intent: p.Intent(), Timestamp: started})
	capitan.Info(ctx, SignalDispatched, FieldProcessorID.Field(id), FieldIntent.Field(string(p.Intent())))

	resp, discarded := safeProcess(spanCtx, p, req)
	if discarded {
		capitan.Warn(ctx, SignalAnalyzePayloadDiscarded, FieldProcessorID.Field(id))
	}

	// A Processor's own Response.Metadata carries only its own namespace
	// entry (spec.md §3: "Success metadata contains exactly the producer's
	// own namespace entry"). Folding the request's already-accumulated
	// ancestor metadata back in here, before the response is stored in
	// completed/results, is what makes metadata accumulate transitively
	// hop over hop instead of resetting to one producer's namespace at
	// every edge — the canonical payload protocol's metadata half (C3,
	// invariant 6 / P4).
	resp.Metadata = req.Metadata.Merge(resp.Metadata)

	if opts.Cache != nil && resp.Success() {
		opts.Cache.Put(id, req, resp)
	}

	status := StatusSuccess
	if !resp.Success() {
		status = StatusError
		capitan.Warn(ctx, SignalFailed, FieldProcessorID.Field(id), FieldErrorCode.Field(int(resp.Err.Code)), FieldErrorMessage.Field(resp.Err.Message))
	} else {
		capitan.Info(ctx, SignalCompleted, FieldProcessorID.Field(id))
	}
	span.SetTag(TagOutcome, string(status))
	span.Finish()

	opts.Observability.emitComplete(ctx, RunEvent{
		ProcessorID: id,
		Intent:      p.Intent(),
		Status:      status,
		Err:         resp.Err,
		Timestamp:   opts.Clock.Now(),
		Duration:    opts.Clock.Now().Sub(started),
	})
	return resp
}

// runOutcome summarizes a run's Results for the parent span's outcome tag:
// StatusError if any processor failed, StatusCancelled if any was cancelled
// but none failed, else StatusSuccess.
func runOutcome(results Results) Status {
	outcome := StatusSuccess
	for _, r := range results {
		switch r.Status {
		case StatusError:
			return StatusError
		case StatusCancelled:
			outcome = StatusCancelled
		}
	}
	return outcome
}

func resultFromResponse(id string, resp Response) Result {
	if resp.Success() {
		return Result{ID: id, Status: StatusSuccess, Payload: resp.Payload, Metadata: resp.Metadata}
	}
	return Result{ID: id, Status: StatusError, Err: resp.Err}
}

func cancelledResult(ctx context.Context, opts Options, id, reason string) Result {
	opts.Observability.emitCancel(ctx, RunEvent{ProcessorID: id, Status: StatusCancelled, CancelReason: reason, Timestamp: opts.Clock.Now()})
	capitan.Info(ctx, SignalCancelled, FieldProcessorID.Field(id), FieldReasonID.Field(reason))
	return Result{ID: id, Status: StatusCancelled, CancelReason: reason}
}
