package flowgraph

import "context"

// TransformFunc adapts a plain function into a Transform Processor. Use it
// for payload-rewriting logic that cannot fail — the common case for the
// text/byte backends in SPEC_FULL.md §4 (uppercase, reverse, wrap).
//
//	upper := flowgraph.TransformFunc("uppercase", func(_ context.Context, in []byte) []byte {
//	    return bytes.ToUpper(in)
//	})
func TransformFunc(name Name, fn func(ctx context.Context, payload []byte) []byte) Processor {
	return &funcProcessor{
		name:   name,
		intent: Transform,
		fn: func(ctx context.Context, req Request) Response {
			return Response{Payload: fn(ctx, req.Payload), Metadata: Metadata{name: {}}}
		},
	}
}

// TransformApply adapts a function that may fail into a Transform Processor,
// mirroring the teacher's Apply/Transform split: use this whenever the
// rewrite can itself error (parsing, a remote call) rather than always
// succeeding.
func TransformApply(name Name, fn func(ctx context.Context, payload []byte) ([]byte, *ProcessorError)) Processor {
	return &funcProcessor{
		name:   name,
		intent: Transform,
		fn: func(ctx context.Context, req Request) Response {
			out, perr := fn(ctx, req.Payload)
			if perr != nil {
				return Response{Err: perr}
			}
			return Response{Payload: out, Metadata: Metadata{name: {}}}
		},
	}
}

// AnalyzeFunc adapts a function into an Analyze Processor: it observes the
// payload and returns only a metadata bag for its own namespace (e.g. a
// word count or a validation verdict). Invariant 3 is enforced by
// safeProcess regardless of what fn returns, so fn is free to ignore the
// rule and just compute.
func AnalyzeFunc(name Name, fn func(ctx context.Context, payload []byte) MetadataBag) Processor {
	return &funcProcessor{
		name:   name,
		intent: Analyze,
		fn: func(ctx context.Context, req Request) Response {
			return Response{Metadata: Metadata{name: fn(ctx, req.Payload)}}
		},
	}
}

// AnalyzeApply is the Analyze counterpart of TransformApply, for metadata
// computations that can themselves fail.
func AnalyzeApply(name Name, fn func(ctx context.Context, payload []byte) (MetadataBag, *ProcessorError)) Processor {
	return &funcProcessor{
		name:   name,
		intent: Analyze,
		fn: func(ctx context.Context, req Request) Response {
			bag, perr := fn(ctx, req.Payload)
			if perr != nil {
				return Response{Err: perr}
			}
			return Response{Metadata: Metadata{name: bag}}
		},
	}
}

// funcProcessor is the concrete Processor behind every adapter in this file.
type funcProcessor struct {
	name   Name
	intent Intent
	fn     func(ctx context.Context, req Request) Response
}

func (p *funcProcessor) Name() Name     { return p.name }
func (p *funcProcessor) Intent() Intent { return p.intent }
func (p *funcProcessor) Process(ctx context.Context, req Request) Response {
	return p.fn(ctx, req)
}
