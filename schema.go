package flowgraph

// Schema is a serializable description of a validated Pipeline's shape,
// independent of any Registry or Processor implementation — adapted from
// the teacher's tree-shaped pipeline Schema/Node/Walk to describe a DAG of
// processor ids instead of a tree of connectors. A `flowgraph validate`
// CLI run prints a Schema as its success output so operators can inspect
// the resolved shape (ranks, edges, diamonds) without executing anything.
type Schema struct {
	Nodes []SchemaNode `json:"nodes"`
	Edges []SchemaEdge `json:"edges"`
}

// SchemaNode describes one processor id.
type SchemaNode struct {
	ID                   string `json:"id"`
	Intent               Intent `json:"intent"`
	Rank                 int    `json:"rank"`
	Entrypoint           bool   `json:"entrypoint,omitempty"`
	Diamond              bool   `json:"diamond,omitempty"`
	TransformPredecessor string `json:"transform_predecessor,omitempty"`
}

// SchemaEdge describes one dependency edge: From must complete before To
// may be dispatched.
type SchemaEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// NewSchema builds a Schema from a validated Pipeline.
func NewSchema(pipeline *Pipeline) Schema {
	entrypoints := make(map[string]bool, len(pipeline.Entrypoints))
	for _, id := range pipeline.Entrypoints {
		entrypoints[id] = true
	}
	diamonds := make(map[string]bool, len(pipeline.Diamonds))
	for _, id := range pipeline.Diamonds {
		diamonds[id] = true
	}

	var schema Schema
	for _, id := range pipeline.Order() {
		desc := pipeline.Processors[id]
		schema.Nodes = append(schema.Nodes, SchemaNode{
			ID:                   id,
			Intent:               desc.Intent,
			Rank:                 pipeline.Rank[id],
			Entrypoint:           entrypoints[id],
			Diamond:              diamonds[id],
			TransformPredecessor: pipeline.TransformPredecessor[id],
		})
		for _, dep := range desc.Dependencies {
			schema.Edges = append(schema.Edges, SchemaEdge{From: dep, To: id})
		}
	}
	return schema
}

// Walk visits every node in ascending (rank, id) order — the same
// deterministic order Pipeline.Order produces — calling fn for each.
func (s Schema) Walk(fn func(SchemaNode)) {
	for _, n := range s.Nodes {
		fn(n)
	}
}

// FindByID returns the node with the given id, or nil if absent.
func (s Schema) FindByID(id string) *SchemaNode {
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			return &s.Nodes[i]
		}
	}
	return nil
}

// FindByIntent returns every node with the given Intent.
func (s Schema) FindByIntent(intent Intent) []SchemaNode {
	var out []SchemaNode
	for _, n := range s.Nodes {
		if n.Intent == intent {
			out = append(out, n)
		}
	}
	return out
}

// Count returns the total number of nodes in the schema.
func (s Schema) Count() int {
	return len(s.Nodes)
}
