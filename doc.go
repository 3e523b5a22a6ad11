// Package flowgraph provides a configuration-driven, concurrency-safe engine
// for executing directed acyclic graphs of byte-processing steps.
//
// # Overview
//
// A pipeline is a declarative set of named processors and dependency edges.
// flowgraph resolves a valid execution order, dispatches each processor
// (possibly concurrently, possibly event-driven), propagates payloads and
// metadata along edges according to a single canonical-payload protocol, and
// returns the terminal outputs for every processor that ran.
//
// flowgraph deliberately separates three concerns that are easy to tangle:
//
//   - The Processor capability (Process, Name, Intent): a uniform contract
//     that backend implementations (in-process, plugin, RPC, sandboxed) all
//     satisfy. The core never depends on how a Processor is implemented.
//   - The Validator: turns a raw set of Descriptors into a Pipeline with a
//     topological rank, rejecting cycles, duplicate ids, unresolved
//     dependencies, and Intent-rule violations before any processor runs.
//   - The Scheduler family: three interchangeable strategies (Work-Queue,
//     Level-by-Level, Reactive) that all produce equivalent results for the
//     same validated Pipeline, registry, and input, given deterministic
//     processors.
//
// # Processor Intent
//
// Every processor declares an Intent:
//
//   - Transform: may freely rewrite the payload and its own metadata
//     namespace. A processor may have at most one Transform predecessor
//     among its direct dependencies — this keeps Transform chains linear
//     and makes "the canonical payload" well defined.
//   - Analyze: must return an empty payload and may only touch its own
//     metadata namespace. Schedulers ignore an Analyze processor's payload
//     when assembling a downstream processor's input.
//
// # Canonical Payload Protocol
//
// When a processor v has predecessors P, its input payload is always the
// payload returned by the unique Transform predecessor in P. An entrypoint
// receives the initial request payload; a processor whose predecessors are
// all Analyze receives an empty payload. Its input metadata is the disjoint union, keyed by producer
// id, of every predecessor's metadata — a pure union because every producer
// writes only to its own namespace. See payload.go for the implementation.
//
// # Schedulers
//
//   - WorkQueueStrategy: Kahn-style dependency counting with a bounded pool
//     of workers pulling from a priority queue (rank, then Transform before
//     Analyze, then ascending id).
//   - LevelByLevelStrategy: partitions processors by topological rank and executes
//     each level fully in parallel with a barrier between levels.
//   - ReactiveStrategy: one goroutine per processor, awaiting one message
//     per predecessor on an inbound channel before dispatching.
//
// # Example
//
//	descs := []flowgraph.Descriptor{
//	    {ID: "upper", Intent: flowgraph.Transform},
//	    {ID: "reverse", Intent: flowgraph.Transform, Dependencies: []string{"upper"}},
//	}
//	pipeline, err := flowgraph.Validate(descs)
//	registry := flowgraph.MapRegistry{
//	    "upper": flowgraph.TransformFunc("upper", func(_ context.Context, in []byte) []byte {
//	        return bytes.ToUpper(in)
//	    }),
//	    // reverseBytes is a caller-defined func(context.Context, []byte) []byte.
//	    "reverse": flowgraph.TransformFunc("reverse", reverseBytes),
//	}
//	results, err := flowgraph.Execute(context.Background(), pipeline, registry,
//	    flowgraph.WorkQueueStrategy, flowgraph.Request{Payload: []byte("hello world")},
//	    flowgraph.Options{FailurePolicy: flowgraph.FailFast, MaxConcurrency: 4})
package flowgraph
