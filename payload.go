package flowgraph

// AssembleInput builds the Request a processor receives, implementing the
// canonical payload protocol (spec.md §4.3):
//
//   - Payload: verbatim from the unique Transform predecessor's Response, if
//     one exists. An entrypoint gets the caller-supplied initial payload; a
//     processor whose direct predecessors are all Analyze gets an empty
//     (nil) payload. An Analyze predecessor's payload is never consulted — Analyze
//     processors always produce an empty payload (invariant 3), and the
//     protocol treats their payload as absent by contract, not by accident.
//
//   - Metadata: the namespaced union of every direct predecessor's Metadata,
//     plus the initial request's own Metadata when this id is an entrypoint.
//     Because Metadata.Merge folds disjoint per-producer namespaces, the
//     union is associative and commutative — callers never need to fix an
//     iteration order over predecessors (invariant 6).
//
// completed must already hold a terminal Response for every id in
// predecessors; AssembleInput does not wait or block.
func AssembleInput(pipeline *Pipeline, id string, predecessors []string, completed map[string]Response, initial Request) Request {
	if len(predecessors) == 0 {
		return Request{
			Payload:  initial.Payload,
			Metadata: initial.Metadata.Clone(),
		}
	}

	payload := initial.Payload
	if transformPred, ok := pipeline.TransformPredecessor[id]; ok && transformPred != "" {
		payload = completed[transformPred].Payload
	} else {
		payload = nil
	}

	metadata := make(Metadata)
	for _, pred := range predecessors {
		metadata = metadata.Merge(completed[pred].Metadata)
	}

	return Request{
		Payload:  payload,
		Metadata: metadata,
	}
}
