package flowgraph

import "github.com/zoobzio/capitan"

// Signal constants for flowgraph execution events.
// Signals follow the pattern: <subsystem>.<event>, matching the convention
// the teacher library uses for its connector signals.
const (
	// Validator signals.
	SignalValidationRejected capitan.Signal = "validator.rejected"
	SignalDiamondDetected    capitan.Signal = "validator.diamond-detected"

	// Scheduler lifecycle signals (emitted by all three schedulers).
	SignalRunStarted    capitan.Signal = "scheduler.run-started"
	SignalRunCompleted  capitan.Signal = "scheduler.run-completed"
	SignalDispatched    capitan.Signal = "scheduler.dispatched"
	SignalCompleted     capitan.Signal = "scheduler.completed"
	SignalFailed        capitan.Signal = "scheduler.failed"
	SignalCancelled     capitan.Signal = "scheduler.cancelled"
	SignalFailFastAbort capitan.Signal = "scheduler.fail-fast-abort"

	// Emitted when an Analyze processor violates invariant 3 by returning a
	// non-empty payload; the payload is still discarded (spec.md §9 Open
	// Questions: "silent drop + optional warning").
	SignalAnalyzePayloadDiscarded capitan.Signal = "processor.analyze-payload-discarded"
)

// Common field keys using capitan primitive types, mirroring the teacher's
// signals.go convention of typed field keys over ad hoc map[string]any.
var (
	FieldRunID        = capitan.NewStringKey("run_id")
	FieldProcessorID  = capitan.NewStringKey("processor_id")
	FieldStrategy     = capitan.NewStringKey("strategy")
	FieldFailurePolicy = capitan.NewStringKey("failure_policy")
	FieldRank         = capitan.NewIntKey("rank")
	FieldIntent       = capitan.NewStringKey("intent")
	FieldReasonID     = capitan.NewStringKey("reason_id")
	FieldErrorCode    = capitan.NewIntKey("error_code")
	FieldErrorMessage = capitan.NewStringKey("error_message")
	FieldDurationSecs = capitan.NewFloat64Key("duration_seconds")
	FieldProcessorCount = capitan.NewIntKey("processor_count")
	FieldSuccessCount = capitan.NewIntKey("success_count")
	FieldFailureCount = capitan.NewIntKey("failure_count")
	FieldCancelCount  = capitan.NewIntKey("cancel_count")
)
