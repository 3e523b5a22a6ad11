package flowgraph

import "testing"

func TestAssembleInput(t *testing.T) {
	t.Run("entrypoint uses the initial request verbatim", func(t *testing.T) {
		pipeline, err := Validate([]Descriptor{{ID: "a", Intent: Transform}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		initial := Request{Payload: []byte("seed"), Metadata: Metadata{"caller": {"k": "v"}}}

		req := AssembleInput(pipeline, "a", nil, nil, initial)
		if string(req.Payload) != "seed" {
			t.Errorf("expected seed payload, got %q", req.Payload)
		}
		if req.Metadata["caller"]["k"] != "v" {
			t.Errorf("expected initial metadata to carry through, got %+v", req.Metadata)
		}
	})

	t.Run("downstream payload is the transform predecessor's payload verbatim", func(t *testing.T) {
		pipeline, err := Validate([]Descriptor{
			{ID: "a", Intent: Transform},
			{ID: "b", Intent: Analyze, Dependencies: []string{"a"}},
			{ID: "c", Intent: Transform, Dependencies: []string{"a", "b"}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		completed := map[string]Response{
			"a": {Payload: []byte("HELLO"), Metadata: Metadata{"a": {"step": "1"}}},
			"b": {Payload: nil, Metadata: Metadata{"b": {"chars": "5"}}},
		}

		req := AssembleInput(pipeline, "c", []string{"a", "b"}, completed, Request{})
		if string(req.Payload) != "HELLO" {
			t.Errorf("expected payload HELLO, got %q", req.Payload)
		}
		if req.Metadata["a"]["step"] != "1" || req.Metadata["b"]["chars"] != "5" {
			t.Errorf("expected namespaced union of both predecessors, got %+v", req.Metadata)
		}
	})

	t.Run("all-analyze predecessors yield an empty payload", func(t *testing.T) {
		pipeline, err := Validate([]Descriptor{
			{ID: "a", Intent: Analyze},
			{ID: "b", Intent: Analyze, Dependencies: []string{"a"}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		completed := map[string]Response{
			"a": {Metadata: Metadata{"a": {"k": "v"}}},
		}
		req := AssembleInput(pipeline, "b", []string{"a"}, completed, Request{})
		if len(req.Payload) != 0 {
			t.Errorf("expected empty payload, got %q", req.Payload)
		}
	})

	t.Run("metadata merge is order-independent", func(t *testing.T) {
		pipeline, err := Validate([]Descriptor{
			{ID: "a", Intent: Analyze},
			{ID: "b", Intent: Analyze},
			{ID: "c", Intent: Transform, Dependencies: []string{"a", "b"}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		completed := map[string]Response{
			"a": {Metadata: Metadata{"a": {"x": "1"}}},
			"b": {Metadata: Metadata{"b": {"y": "2"}}},
		}

		forward := AssembleInput(pipeline, "c", []string{"a", "b"}, completed, Request{})
		backward := AssembleInput(pipeline, "c", []string{"b", "a"}, completed, Request{})

		if forward.Metadata["a"]["x"] != backward.Metadata["a"]["x"] ||
			forward.Metadata["b"]["y"] != backward.Metadata["b"]["y"] {
			t.Errorf("expected merge to be order-independent, got %+v vs %+v", forward.Metadata, backward.Metadata)
		}
	})
}
