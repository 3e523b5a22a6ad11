package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/flowgraph/flowgraph"
)

func TestLocalBuildResolvesByID(t *testing.T) {
	l := NewLocal()
	registry, err := l.Build([]flowgraph.Descriptor{
		{ID: "uppercase", Intent: flowgraph.Transform, Options: map[string]any{"type": "local"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, ok := registry.Lookup("uppercase")
	if !ok {
		t.Fatalf("expected uppercase to resolve")
	}
	resp := p.Process(context.Background(), flowgraph.Request{Payload: []byte("hi")})
	if string(resp.Payload) != "HI" {
		t.Errorf("expected HI, got %q", resp.Payload)
	}
}

func TestLocalBuildResolvesByExplicitProcessorName(t *testing.T) {
	l := NewLocal()
	registry, err := l.Build([]flowgraph.Descriptor{
		{ID: "step-one", Intent: flowgraph.Transform, Options: map[string]any{"type": "local", "processor": "reverse"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, _ := registry.Lookup("step-one")
	resp := p.Process(context.Background(), flowgraph.Request{Payload: []byte("abc")})
	if string(resp.Payload) != "cba" {
		t.Errorf("expected cba, got %q", resp.Payload)
	}
}

func TestLocalBuildRejectsUnsupportedKind(t *testing.T) {
	l := NewLocal()
	_, err := l.Build([]flowgraph.Descriptor{
		{ID: "remote-thing", Intent: flowgraph.Transform, Options: map[string]any{"type": "grpc"}},
	})
	if !errors.Is(err, ErrBackendUnsupported) {
		t.Fatalf("expected ErrBackendUnsupported, got %v", err)
	}
}

func TestLocalBuildRejectsUnregisteredName(t *testing.T) {
	l := NewLocal()
	_, err := l.Build([]flowgraph.Descriptor{
		{ID: "mystery", Intent: flowgraph.Transform, Options: map[string]any{"type": "local"}},
	})
	if err == nil {
		t.Fatalf("expected an error for an unregistered function name")
	}
}

func TestLocalBuiltinFunctions(t *testing.T) {
	l := NewLocal()
	registry, err := l.Build([]flowgraph.Descriptor{
		{ID: "char_count", Intent: flowgraph.Analyze, Options: map[string]any{"type": "local"}},
		{ID: "word_count", Intent: flowgraph.Analyze, Options: map[string]any{"type": "local"}},
		{ID: "wrap", Intent: flowgraph.Transform, Options: map[string]any{"type": "local"}},
		{ID: "suffix_done", Intent: flowgraph.Transform, Options: map[string]any{"type": "local"}},
		{ID: "lowercase", Intent: flowgraph.Transform, Options: map[string]any{"type": "local"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		id       string
		input    string
		wantText string
		wantMeta string
		metaKey  string
	}{
		{"lowercase", "HELLO", "hello", "", ""},
		{"wrap", "x", ">>> x <<<", "", ""},
		{"suffix_done", "x", "x [done]", "", ""},
		{"char_count", "héllo", "", "5", "chars"},
		{"word_count", "one two three", "", "3", "words"},
	}
	for _, c := range cases {
		p, ok := registry.Lookup(c.id)
		if !ok {
			t.Fatalf("%s: expected to resolve", c.id)
		}
		resp := p.Process(context.Background(), flowgraph.Request{Payload: []byte(c.input)})
		if c.wantText != "" && string(resp.Payload) != c.wantText {
			t.Errorf("%s: expected payload %q, got %q", c.id, c.wantText, resp.Payload)
		}
		if c.metaKey != "" && resp.Metadata[c.id][c.metaKey] != c.wantMeta {
			t.Errorf("%s: expected metadata %s=%q, got %+v", c.id, c.metaKey, c.wantMeta, resp.Metadata)
		}
	}
}

func TestLocalRegisterOverridesBuiltin(t *testing.T) {
	l := NewLocal()
	l.Register("uppercase", func(_ context.Context, payload []byte) ([]byte, flowgraph.MetadataBag, *flowgraph.ProcessorError) {
		return []byte("overridden"), nil, nil
	})
	registry, err := l.Build([]flowgraph.Descriptor{
		{ID: "uppercase", Intent: flowgraph.Transform, Options: map[string]any{"type": "local"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, _ := registry.Lookup("uppercase")
	resp := p.Process(context.Background(), flowgraph.Request{Payload: []byte("hi")})
	if string(resp.Payload) != "overridden" {
		t.Errorf("expected overridden function to win, got %q", resp.Payload)
	}
}
