package flowgraph

import (
	"context"
	"fmt"
)

// Name is a type alias for processor identifiers used in logs, signals, and
// error paths. Using a named alias encourages declaring ids as constants
// rather than scattering inline strings through config and code.
type Name = string

// Intent declares whether a processor may rewrite its payload (Transform)
// or may only annotate metadata (Analyze). It is a data-level tagged value
// rather than a type hierarchy, matching how the teacher library models
// processor behavior (Transform/Apply/Effect) as plain data plus adapter
// functions instead of a class tree.
type Intent string

const (
	// Transform processors may freely rewrite payload and their own
	// metadata namespace. A processor may have at most one Transform
	// predecessor among its direct dependencies.
	Transform Intent = "transform"
	// Analyze processors must return an empty payload and may only
	// add/update their own metadata namespace.
	Analyze Intent = "analyze"
)

// Valid reports whether i is a recognized Intent value.
func (i Intent) Valid() bool {
	return i == Transform || i == Analyze
}

// MetadataBag is a single producer's namespace: a flat string->string map.
type MetadataBag map[string]string

// Clone returns an independent copy of the bag.
func (b MetadataBag) Clone() MetadataBag {
	if b == nil {
		return nil
	}
	out := make(MetadataBag, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Metadata is the namespaced metadata carried alongside a payload: a mapping
// from producer id to that producer's own bag. Namespacing by producer id is
// what makes the merge in payload.go a pure, collision-free, order-independent
// union (invariant 6 of the canonical payload protocol).
type Metadata map[string]MetadataBag

// Clone returns a deep, independent copy of m.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for producer, bag := range m {
		out[producer] = bag.Clone()
	}
	return out
}

// Merge returns a new Metadata containing every namespace of m and other.
// Because namespaces are keyed by producer id and each producer writes only
// to its own key, this merge is associative and commutative: callers never
// need to worry about merge order.
func (m Metadata) Merge(other Metadata) Metadata {
	out := make(Metadata, len(m)+len(other))
	for producer, bag := range m {
		out[producer] = bag.Clone()
	}
	for producer, bag := range other {
		out[producer] = bag.Clone()
	}
	return out
}

// Request is what a Processor receives: a payload and the merged metadata of
// all of its direct predecessors (or the caller-supplied initial request for
// an entrypoint).
type Request struct {
	Payload  []byte
	Metadata Metadata
}

// ProcessorError is the structured error a Processor reports on failure. It
// never panics out of Process; internal faults and panics are both mapped
// to a ProcessorError with Code CodeInternal by the scheduler boundary.
type ProcessorError struct {
	Code    int32
	Message string
}

func (e *ProcessorError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Well-known ProcessorError codes.
const (
	CodeInternal          int32 = -1 // panic or unexpected fault inside Process
	CodeMissingProcessor  int32 = -2 // no registry entry for a descriptor id
	CodeAssemblyFailed    int32 = -3 // canonical payload assembly could not proceed
	CodeUnsupportedBackend int32 = -4 // a registry/backend could not resolve a processor
)

// Response is the tagged union a Processor returns: either a Success
// (Payload + Metadata) or an Error. Exactly one of the two is meaningful;
// callers should check Err first.
type Response struct {
	Payload  []byte
	Metadata Metadata
	Err      *ProcessorError
}

// Success reports whether the response represents a successful invocation.
func (r Response) Success() bool { return r.Err == nil }

// Processor is the uniform capability the core requires of any processing
// backend — in-process native, dynamically loaded plugin, remote RPC, or
// sandboxed module. The core depends only on this interface; it never
// inspects how a Processor is implemented.
type Processor interface {
	// Name returns a stable identifier used only for logs/signals/spans.
	// The scheduler indexes processors by descriptor id, never by Name.
	Name() Name
	// Intent declares Transform or Analyze.
	Intent() Intent
	// Process executes the processor. It may block or suspend but must be
	// safe to invoke concurrently across independent invocations. A single
	// invocation is single-shot: no hidden state is required across calls.
	Process(ctx context.Context, req Request) Response
}

// safeProcess invokes p.Process, converting any panic into a Response
// carrying a CodeInternal ProcessorError instead of letting it escape. Every
// scheduler must dispatch through this, never call p.Process directly, so
// that one misbehaving processor can never take down a run.
//
// The second return value reports whether an Analyze processor violated
// invariant 3 by returning a non-empty payload; the payload is discarded
// either way, but the caller may want to emit a warning signal.
func safeProcess(ctx context.Context, p Processor, req Request) (resp Response, analyzePayloadDiscarded bool) {
	defer func() {
		if r := recover(); r != nil {
			resp = Response{Err: &ProcessorError{
				Code:    CodeInternal,
				Message: fmt.Sprintf("panic in processor %q: %v", p.Name(), r),
			}}
		}
	}()
	resp = p.Process(ctx, req)
	if p.Intent() == Analyze && len(resp.Payload) > 0 {
		// Invariant 3: an Analyze processor returning a non-empty payload is
		// an implementation fault. Schedulers ignore the payload (the
		// canonical-payload protocol never reads it) rather than halting.
		resp.Payload = nil
		analyzePayloadDiscarded = true
	}
	return resp, analyzePayloadDiscarded
}
