package flowgraph

import (
	"context"
	"time"

	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Metric keys, mirroring the per-connector metric keys the teacher defines
// in files like retry.go and switch.go, but scoped to a whole run rather
// than a single connector.
const (
	MetricProcessorsDispatched = metricz.Key("flowgraph.processors.dispatched")
	MetricProcessorsSucceeded  = metricz.Key("flowgraph.processors.succeeded")
	MetricProcessorsFailed     = metricz.Key("flowgraph.processors.failed")
	MetricProcessorsCancelled  = metricz.Key("flowgraph.processors.cancelled")
	MetricInFlight             = metricz.Key("flowgraph.processors.in_flight")
	MetricRunDurationMs        = metricz.Key("flowgraph.run.duration_ms")
)

// Span keys and tags, mirroring RetryProcessSpan/RetryAttemptSpan and their
// tags in retry.go.
const (
	SpanExecute = tracez.Key("flowgraph.execute")
	SpanProcess = tracez.Key("flowgraph.process")
)

var (
	TagStrategy      = tracez.Tag("flowgraph.strategy")
	TagFailurePolicy = tracez.Tag("flowgraph.failure_policy")
	TagProcessorID   = tracez.Tag("flowgraph.processor_id")
	TagIntent        = tracez.Tag("flowgraph.intent")
	TagOutcome       = tracez.Tag("flowgraph.outcome")
)

// RunEvent is delivered through hookz to callers subscribed via
// Observability.OnDispatch/OnComplete/OnCancel — the core's substitute for a
// logging dependency: the caller's hook closures decide how to surface this
// (structured log line, metrics sink, UI update).
type RunEvent struct {
	ProcessorID string
	Intent      Intent
	Status      Status
	Err         *ProcessorError
	CancelReason string
	Timestamp   time.Time
	Duration    time.Duration
}

// Observability bundles the metrics registry, tracer, and hook dispatcher
// shared by a single execute call across all three schedulers. It is
// created fresh per run (NewObservability), exactly as the teacher creates
// a fresh metricz.Registry/tracez.Tracer per connector instance.
type Observability struct {
	Metrics *metricz.Registry
	Tracer  *tracez.Tracer
	hooks   *hookz.Hooks[RunEvent]
}

// NewObservability wires a fresh metrics registry, tracer, and hook
// dispatcher and pre-registers every counter/gauge this package emits.
func NewObservability() *Observability {
	registry := metricz.New()
	registry.Counter(MetricProcessorsDispatched)
	registry.Counter(MetricProcessorsSucceeded)
	registry.Counter(MetricProcessorsFailed)
	registry.Counter(MetricProcessorsCancelled)
	registry.Gauge(MetricInFlight)
	registry.Gauge(MetricRunDurationMs)

	return &Observability{
		Metrics: registry,
		Tracer:  tracez.New(),
		hooks:   hookz.New[RunEvent](),
	}
}

// OnDispatch registers a handler invoked whenever a processor is dispatched.
func (o *Observability) OnDispatch(handler func(context.Context, RunEvent) error) error {
	_, err := o.hooks.Hook(hookEventDispatch, handler)
	return err
}

// OnComplete registers a handler invoked whenever a processor terminates
// (success or error).
func (o *Observability) OnComplete(handler func(context.Context, RunEvent) error) error {
	_, err := o.hooks.Hook(hookEventComplete, handler)
	return err
}

// OnCancel registers a handler invoked whenever a processor is cancelled.
func (o *Observability) OnCancel(handler func(context.Context, RunEvent) error) error {
	_, err := o.hooks.Hook(hookEventCancel, handler)
	return err
}

const (
	hookEventDispatch = hookz.Key("flowgraph.dispatch")
	hookEventComplete = hookz.Key("flowgraph.complete")
	hookEventCancel   = hookz.Key("flowgraph.cancel")
)

func (o *Observability) emitDispatch(ctx context.Context, e RunEvent) {
	o.Metrics.Counter(MetricProcessorsDispatched).Inc()
	if o.hooks.ListenerCount(hookEventDispatch) > 0 {
		_ = o.hooks.Emit(ctx, hookEventDispatch, e) //nolint:errcheck
	}
}

func (o *Observability) emitComplete(ctx context.Context, e RunEvent) {
	switch e.Status {
	case StatusSuccess:
		o.Metrics.Counter(MetricProcessorsSucceeded).Inc()
	case StatusError:
		o.Metrics.Counter(MetricProcessorsFailed).Inc()
	}
	if o.hooks.ListenerCount(hookEventComplete) > 0 {
		_ = o.hooks.Emit(ctx, hookEventComplete, e) //nolint:errcheck
	}
}

func (o *Observability) emitCancel(ctx context.Context, e RunEvent) {
	o.Metrics.Counter(MetricProcessorsCancelled).Inc()
	if o.hooks.ListenerCount(hookEventCancel) > 0 {
		_ = o.hooks.Emit(ctx, hookEventCancel, e) //nolint:errcheck
	}
}

// Close releases the hook dispatcher. Idempotent via hookz's own semantics.
func (o *Observability) Close() {
	o.hooks.Close()
}
