package flowgraph

import (
	"context"
	"sort"
	"testing"
)

func buildDiamondPipeline(t *testing.T) *Pipeline {
	t.Helper()
	pipeline, err := Validate([]Descriptor{
		{ID: "a", Intent: Transform},
		{ID: "b", Intent: Analyze, Dependencies: []string{"a"}},
		{ID: "c", Intent: Analyze, Dependencies: []string{"a"}},
		{ID: "d", Intent: Transform, Dependencies: []string{"b", "c"}},
		{ID: "e", Intent: Transform}, // unrelated entrypoint
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return pipeline
}

func TestCancellationTrackerContinueIndependent(t *testing.T) {
	pipeline := buildDiamondPipeline(t)
	tracker := newCancellationTracker(pipeline, ContinueIndependent)
	terminal := func(string) bool { return false }

	cancelled := tracker.onFailure(context.Background(), "a", terminal)
	sort.Strings(cancelled)
	if !equalStrings(cancelled, []string{"b", "c", "d"}) {
		t.Errorf("expected b,c,d cancelled, got %v", cancelled)
	}
	if _, ok := tracker.isCancelled("e"); ok {
		t.Errorf("unrelated entrypoint e must not be cancelled under continue_independent")
	}
}

func TestCancellationTrackerFailFast(t *testing.T) {
	pipeline := buildDiamondPipeline(t)
	tracker := newCancellationTracker(pipeline, FailFast)
	terminal := func(string) bool { return false }

	cancelled := tracker.onFailure(context.Background(), "a", terminal)
	sort.Strings(cancelled)
	if !equalStrings(cancelled, []string{"b", "c", "d", "e"}) {
		t.Errorf("expected every other processor cancelled under fail_fast, got %v", cancelled)
	}
	select {
	case <-tracker.Broadcast():
	default:
		t.Fatalf("expected Broadcast to be closed after a fail_fast failure")
	}
}

func TestCancellationTrackerSkipsTerminal(t *testing.T) {
	pipeline := buildDiamondPipeline(t)
	tracker := newCancellationTracker(pipeline, ContinueIndependent)
	terminal := func(id string) bool { return id == "b" }

	cancelled := tracker.onFailure(context.Background(), "a", terminal)
	sort.Strings(cancelled)
	if !equalStrings(cancelled, []string{"c", "d"}) {
		t.Errorf("expected b to be skipped as already terminal, got %v", cancelled)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
