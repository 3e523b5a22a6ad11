package flowgraph

import (
	"context"
	"reflect"
	"testing"
)

func TestPartitionByRank(t *testing.T) {
	pipeline, err := Validate([]Descriptor{
		{ID: "a", Intent: Transform},
		{ID: "z", Intent: Transform},
		{ID: "b", Intent: Transform, Dependencies: []string{"a", "z"}},
		{ID: "c", Intent: Transform, Dependencies: []string{"b"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	levels := partitionByRank(pipeline)
	want := [][]string{{"a", "z"}, {"b"}, {"c"}}
	if !reflect.DeepEqual(levels, want) {
		t.Fatalf("expected levels %v, got %v", want, levels)
	}
}

func TestLevelByLevelBarrierOrdering(t *testing.T) {
	// A level-2 processor must only ever see level-0/level-1 predecessors
	// already in `completed`; this is implicit in AssembleInput succeeding
	// without a registry miss, but we also assert rank-ordered dispatch
	// directly via partitionByRank above. Here we assert end-to-end
	// correctness of a 3-level fan-in.
	pipeline, err := Validate([]Descriptor{
		{ID: "a", Intent: Transform},
		{ID: "b", Intent: Analyze, Dependencies: []string{"a"}},
		{ID: "c", Intent: Transform, Dependencies: []string{"a", "b"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	registry := MapRegistry{
		"a": TransformFunc("a", func(_ context.Context, in []byte) []byte { return append(in, 'A') }),
		"b": AnalyzeFunc("b", func(_ context.Context, _ []byte) MetadataBag { return MetadataBag{"seen": "b"} }),
		"c": TransformFunc("c", func(_ context.Context, in []byte) []byte { return append(in, 'C') }),
	}

	results, err := Execute(context.Background(), pipeline, registry, LevelByLevelStrategy,
		Request{Payload: []byte("x")}, Options{FailurePolicy: FailFast})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// c's Request payload comes from a (its unique Transform predecessor),
	// proving the barrier let c start only once both a and b were terminal.
	if string(results["c"].Payload) != "xAC" {
		t.Errorf("expected payload xAC, got %q", results["c"].Payload)
	}
}

func TestLevelByLevelContinueIndependentIsolatesFailure(t *testing.T) {
	pipeline, err := Validate([]Descriptor{
		{ID: "bad", Intent: Transform},
		{ID: "bad-sink", Intent: Transform, Dependencies: []string{"bad"}},
		{ID: "good", Intent: Transform},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	registry := MapRegistry{
		"bad": TransformApply("bad", func(_ context.Context, _ []byte) ([]byte, *ProcessorError) {
			return nil, &ProcessorError{Code: CodeInternal, Message: "boom"}
		}),
		"bad-sink": TransformFunc("bad-sink", func(_ context.Context, in []byte) []byte { return in }),
		"good":     TransformFunc("good", func(_ context.Context, in []byte) []byte { return in }),
	}

	results, err := Execute(context.Background(), pipeline, registry, LevelByLevelStrategy,
		Request{Payload: []byte("x")}, Options{FailurePolicy: ContinueIndependent})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if results["good"].Status != StatusSuccess {
		t.Errorf("expected good to succeed, got %v", results["good"].Status)
	}
	if results["bad-sink"].Status != StatusCancelled {
		t.Errorf("expected bad-sink cancelled, got %v", results["bad-sink"].Status)
	}
}
