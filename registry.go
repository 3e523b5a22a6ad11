package flowgraph

// Registry resolves a Descriptor id to the Processor that executes it. The
// core never constructs Processors itself — that is the job of the
// config/backend collaborators described in SPEC_FULL.md §4 — it only ever
// looks one up by id.
type Registry interface {
	// Lookup returns the Processor registered for id, or ok=false if none
	// exists. A scheduler that gets ok=false must report the processor as
	// Error with CodeMissingProcessor rather than panicking or blocking.
	Lookup(id string) (Processor, bool)
}

// MapRegistry is the straightforward Registry backed by a plain map, used by
// the local in-process backend (backend/local.go) and throughout tests.
type MapRegistry map[string]Processor

// Lookup implements Registry.
func (r MapRegistry) Lookup(id string) (Processor, bool) {
	p, ok := r[id]
	return p, ok
}

// missingProcessorResponse builds the Response a scheduler substitutes when
// Registry.Lookup fails for id, so that a dangling descriptor degrades to an
// ordinary processor failure rather than aborting the whole run outside the
// normal failure-policy machinery.
func missingProcessorResponse(id string) Response {
	return Response{
		Err: &ProcessorError{
			Code:    CodeMissingProcessor,
			Message: "no registry entry for processor " + id,
		},
	}
}
