package flowgraph

// Descriptor is the immutable description of one processor as parsed from
// configuration: its id, declared intent, direct dependencies, and an
// opaque options bag the core never inspects beyond Intent extraction
// (backend-specific keys are resolved by the external backend collaborator
// that builds the Registry).
type Descriptor struct {
	ID           string
	Intent       Intent
	Dependencies []string
	Options      map[string]any
}

// Pipeline is the immutable, validated description produced by Validate. It
// is handed to a Scheduler and never mutated during execution.
type Pipeline struct {
	// Processors maps descriptor id to its Descriptor.
	Processors map[string]Descriptor
	// Entrypoints are ids with no dependencies (rank 0), sorted ascending.
	Entrypoints []string
	// Rank is the topological rank: 0 for entrypoints, else
	// 1 + max(rank of dependencies).
	Rank map[string]int
	// Successors maps an id to the ids that directly depend on it, sorted
	// ascending. Computed once so schedulers never need to scan the whole
	// Processors map to find dependents.
	Successors map[string][]string
	// TransformPredecessor maps an id to the id of its unique Transform
	// predecessor, or "" if it has none (entrypoint, or only Analyze
	// predecessors). Precomputed by the Validator so the canonical payload
	// protocol never has to re-derive it under concurrency.
	TransformPredecessor map[string]string
	// Diamonds lists, for informational purposes only, every id that has
	// two or more predecessors sharing a common ancestor.
	Diamonds []string
}

// Order returns every processor id in the pipeline, sorted by ascending
// (Rank, ID) — a valid linear extension of the partial order, used by
// schedulers that want a deterministic traversal order (invariant 5).
func (p *Pipeline) Order() []string {
	ids := make([]string, 0, len(p.Processors))
	for id := range p.Processors {
		ids = append(ids, id)
	}
	sortByRankThenID(ids, p.Rank)
	return ids
}

// sortByRankThenID sorts ids in place by ascending rank, then ascending id.
func sortByRankThenID(ids []string, rank map[string]int) {
	// Simple insertion sort is adequate: pipelines are not expected to have
	// enough processors for this to matter, and it keeps the comparison
	// logic easy to read alongside the priority-queue Less in workqueue.go.
	for i := 1; i < len(ids); i++ {
		j := i
		for j > 0 && lessRankID(ids[j], ids[j-1], rank) {
			ids[j], ids[j-1] = ids[j-1], ids[j]
			j--
		}
	}
}

func lessRankID(a, b string, rank map[string]int) bool {
	if rank[a] != rank[b] {
		return rank[a] < rank[b]
	}
	return a < b
}
