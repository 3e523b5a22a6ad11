package flowgraph

import "testing"

func TestNewSchema(t *testing.T) {
	pipeline, err := Validate([]Descriptor{
		{ID: "a", Intent: Transform},
		{ID: "b", Intent: Analyze, Dependencies: []string{"a"}},
		{ID: "c", Intent: Analyze, Dependencies: []string{"a"}},
		{ID: "d", Intent: Transform, Dependencies: []string{"b", "c"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	schema := NewSchema(pipeline)
	if schema.Count() != 4 {
		t.Fatalf("expected 4 nodes, got %d", schema.Count())
	}
	if len(schema.Edges) != 4 {
		t.Fatalf("expected 4 edges, got %d", len(schema.Edges))
	}

	a := schema.FindByID("a")
	if a == nil || !a.Entrypoint {
		t.Errorf("expected a to be an entrypoint node, got %+v", a)
	}

	d := schema.FindByID("d")
	if d == nil || !d.Diamond {
		t.Errorf("expected d to be flagged as a diamond, got %+v", d)
	}

	analyzeNodes := schema.FindByIntent(Analyze)
	if len(analyzeNodes) != 2 {
		t.Errorf("expected 2 Analyze nodes, got %d", len(analyzeNodes))
	}

	var walked []string
	schema.Walk(func(n SchemaNode) { walked = append(walked, n.ID) })
	if len(walked) != 4 {
		t.Errorf("expected Walk to visit all 4 nodes, got %v", walked)
	}
}

func TestNewSchemaMissingID(t *testing.T) {
	pipeline, err := Validate([]Descriptor{{ID: "only", Intent: Transform}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	schema := NewSchema(pipeline)
	if schema.FindByID("ghost") != nil {
		t.Errorf("expected nil for an absent id")
	}
}
