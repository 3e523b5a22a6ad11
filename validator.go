package flowgraph

import (
	"context"
	"sort"

	"github.com/zoobzio/capitan"
)

// Validate checks a raw slice of Descriptors and, if they describe a legal
// pipeline, returns the immutable Pipeline used as the precondition for all
// three schedulers. Checks run in the order spec.md §4.2 prescribes and the
// first failure is reported; later checks never run once an earlier one
// fails.
func Validate(descriptors []Descriptor) (*Pipeline, error) {
	pipeline, err := validate(descriptors)
	if err != nil {
		ve, _ := err.(*ValidationError)
		capitan.Warn(context.Background(), SignalValidationRejected,
			FieldErrorMessage.Field(rejectionMessage(ve, err)),
		)
		return nil, err
	}
	for _, id := range pipeline.Diamonds {
		capitan.Info(context.Background(), SignalDiamondDetected,
			FieldProcessorID.Field(id),
			FieldRank.Field(pipeline.Rank[id]),
		)
	}
	return pipeline, nil
}

// rejectionMessage renders a human-readable reason for the
// SignalValidationRejected signal; ValidationError itself carries structured
// fields (Kind, ID, CyclePath, ...) for callers that want to branch on it.
func rejectionMessage(ve *ValidationError, err error) string {
	if ve != nil {
		return string(ve.Kind)
	}
	return err.Error()
}

func validate(descriptors []Descriptor) (*Pipeline, error) {
	processors, err := checkDuplicateIDs(descriptors)
	if err != nil {
		return nil, err
	}

	if err := checkUnresolvedDependencies(processors); err != nil {
		return nil, err
	}

	if err := checkCycles(processors); err != nil {
		return nil, err
	}

	if err := checkIntentRule(processors); err != nil {
		return nil, err
	}

	rank := computeRank(processors)
	successors := computeSuccessors(processors)
	transformPred := computeTransformPredecessors(processors)
	entrypoints := computeEntrypoints(processors, rank)
	diamonds := detectDiamonds(processors)

	return &Pipeline{
		Processors:           processors,
		Entrypoints:          entrypoints,
		Rank:                 rank,
		Successors:           successors,
		TransformPredecessor: transformPred,
		Diamonds:             diamonds,
	}, nil
}

func checkDuplicateIDs(descriptors []Descriptor) (map[string]Descriptor, error) {
	processors := make(map[string]Descriptor, len(descriptors))
	for _, d := range descriptors {
		if _, exists := processors[d.ID]; exists {
			return nil, &ValidationError{Kind: KindDuplicateID, ID: d.ID}
		}
		processors[d.ID] = d
	}
	return processors, nil
}

func checkUnresolvedDependencies(processors map[string]Descriptor) error {
	ids := sortedKeys(processors)
	for _, id := range ids {
		for _, dep := range processors[id].Dependencies {
			if _, ok := processors[dep]; !ok {
				return &ValidationError{Kind: KindUnresolvedDependency, ID: dep}
			}
		}
	}
	return nil
}

// checkCycles applies Kahn's algorithm: iteratively remove zero-in-degree
// nodes. If any node remains once no more can be removed, the remainder
// contains a cycle; a DFS from any surviving node finds and reports it.
func checkCycles(processors map[string]Descriptor) error {
	indegree := make(map[string]int, len(processors))
	for id := range processors {
		indegree[id] = 0
	}
	for _, id := range sortedKeys(processors) {
		for range processors[id].Dependencies {
			indegree[id]++
		}
	}

	queue := make([]string, 0, len(processors))
	for _, id := range sortedKeys(processors) {
		if indegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	removed := make(map[string]bool, len(processors))
	successors := computeSuccessors(processors)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		removed[id] = true
		for _, succ := range successors[id] {
			indegree[succ]--
			if indegree[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}

	for _, id := range sortedKeys(processors) {
		if !removed[id] {
			return &ValidationError{Kind: KindCyclicDependency, CyclePath: findCycle(processors, id)}
		}
	}
	return nil
}

// findCycle performs a DFS from start, which is known to lie on a cycle
// (it survived Kahn's removal), and returns the first closed walk found.
func findCycle(processors map[string]Descriptor, start string) []string {
	path := []string{start}
	onPath := map[string]int{start: 0}

	var visit func(id string) []string
	visit = func(id string) []string {
		for _, dep := range processors[id].Dependencies {
			if idx, ok := onPath[dep]; ok {
				cycle := append([]string(nil), path[idx:]...)
				return append(cycle, dep)
			}
			onPath[dep] = len(path)
			path = append(path, dep)
			if found := visit(dep); found != nil {
				return found
			}
			path = path[:len(path)-1]
			delete(onPath, dep)
		}
		return nil
	}
	if cycle := visit(start); cycle != nil {
		return cycle
	}
	// Unreachable for a genuinely cyclic remainder, but keep a safe fallback.
	return []string{start, start}
}

// checkIntentRule enforces invariant 4: a processor may have at most one
// Transform predecessor among its direct dependencies.
func checkIntentRule(processors map[string]Descriptor) error {
	for _, id := range sortedKeys(processors) {
		var transformPreds []string
		for _, dep := range processors[id].Dependencies {
			if processors[dep].Intent == Transform {
				transformPreds = append(transformPreds, dep)
			}
		}
		if len(transformPreds) > 1 {
			return &ValidationError{
				Kind:                  KindIntentRuleViolation,
				Processor:             id,
				TransformPredecessors: transformPreds,
			}
		}
	}
	return nil
}

func computeRank(processors map[string]Descriptor) map[string]int {
	rank := make(map[string]int, len(processors))
	var resolve func(id string) int
	resolve = func(id string) int {
		if r, ok := rank[id]; ok {
			return r
		}
		deps := processors[id].Dependencies
		if len(deps) == 0 {
			rank[id] = 0
			return 0
		}
		maxDep := -1
		for _, dep := range deps {
			if r := resolve(dep); r > maxDep {
				maxDep = r
			}
		}
		r := maxDep + 1
		rank[id] = r
		return r
	}
	for _, id := range sortedKeys(processors) {
		resolve(id)
	}
	return rank
}

func computeSuccessors(processors map[string]Descriptor) map[string][]string {
	successors := make(map[string][]string, len(processors))
	for _, id := range sortedKeys(processors) {
		for _, dep := range processors[id].Dependencies {
			successors[dep] = append(successors[dep], id)
		}
	}
	for dep := range successors {
		sort.Strings(successors[dep])
	}
	return successors
}

// computeTransformPredecessors precomputes, for every id, the unique
// Transform predecessor (guaranteed unique by checkIntentRule), so the
// canonical payload protocol never needs to scan dependencies again.
func computeTransformPredecessors(processors map[string]Descriptor) map[string]string {
	out := make(map[string]string, len(processors))
	for _, id := range sortedKeys(processors) {
		for _, dep := range processors[id].Dependencies {
			if processors[dep].Intent == Transform {
				out[id] = dep
				break
			}
		}
	}
	return out
}

func computeEntrypoints(processors map[string]Descriptor, rank map[string]int) []string {
	var entrypoints []string
	for _, id := range sortedKeys(processors) {
		if rank[id] == 0 {
			entrypoints = append(entrypoints, id)
		}
	}
	return entrypoints
}

// detectDiamonds reports every id with two or more predecessors that share
// a common ancestor. This is informational only (spec.md §4.2 item 6): the
// canonical payload protocol handles diamonds safely by construction, so
// diamonds are never rejected.
func detectDiamonds(processors map[string]Descriptor) []string {
	ancestorsOf := make(map[string]map[string]bool, len(processors))
	var ancestors func(id string) map[string]bool
	ancestors = func(id string) map[string]bool {
		if a, ok := ancestorsOf[id]; ok {
			return a
		}
		set := map[string]bool{id: true}
		for _, dep := range processors[id].Dependencies {
			for a := range ancestors(dep) {
				set[a] = true
			}
		}
		ancestorsOf[id] = set
		return set
	}

	var diamonds []string
	for _, id := range sortedKeys(processors) {
		deps := processors[id].Dependencies
		if len(deps) < 2 {
			continue
		}
		found := false
		for i := 0; i < len(deps) && !found; i++ {
			for j := i + 1; j < len(deps) && !found; j++ {
				ai, aj := ancestors(deps[i]), ancestors(deps[j])
				for a := range ai {
					if aj[a] {
						found = true
						break
					}
				}
			}
		}
		if found {
			diamonds = append(diamonds, id)
		}
	}
	return diamonds
}

func sortedKeys(processors map[string]Descriptor) []string {
	ids := make([]string, 0, len(processors))
	for id := range processors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
