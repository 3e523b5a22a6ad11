package flowgraph

import (
	"fmt"
	"strings"
)

// ValidationKind discriminates the reasons Validate can reject a set of
// Descriptors. Exactly one ValidationError is returned — the first failure
// encountered, checked in the order given by spec.md §4.2.
type ValidationKind string

const (
	KindDuplicateID          ValidationKind = "duplicate_id"
	KindUnresolvedDependency ValidationKind = "unresolved_dependency"
	KindCyclicDependency     ValidationKind = "cyclic_dependency"
	KindIntentRuleViolation  ValidationKind = "intent_rule_violation"
)

// ValidationError is returned by Validate and always aborts before any
// processor runs — no Results map is produced for a failed validation.
type ValidationError struct {
	Kind ValidationKind

	// Populated for KindDuplicateID / KindUnresolvedDependency.
	ID string

	// Populated for KindCyclicDependency: the cycle expressed as a closed
	// walk, e.g. []string{"a", "b", "c", "a"}.
	CyclePath []string

	// Populated for KindIntentRuleViolation.
	Processor            string
	TransformPredecessors []string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindDuplicateID:
		return fmt.Sprintf("duplicate processor id %q", e.ID)
	case KindUnresolvedDependency:
		return fmt.Sprintf("unresolved dependency %q", e.ID)
	case KindCyclicDependency:
		return fmt.Sprintf("cyclic dependency: %s", strings.Join(e.CyclePath, " -> "))
	case KindIntentRuleViolation:
		return fmt.Sprintf("processor %q has %d transform predecessors (%s), at most one is allowed",
			e.Processor, len(e.TransformPredecessors), strings.Join(e.TransformPredecessors, ", "))
	default:
		return "invalid pipeline description"
	}
}

// EngineError is raised out of Execute for scheduler-internal faults —
// conditions that should be impossible after a successful Validate (e.g. a
// runtime dependency cycle) or resource exhaustion (e.g. a scheduler unable
// to allocate its worker pool). Callers should treat an EngineError as a
// bug, not a processor failure.
type EngineError struct {
	Message string
	Cause   error
}

func (e *EngineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("flowgraph: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("flowgraph: %s", e.Message)
}

func (e *EngineError) Unwrap() error { return e.Cause }
