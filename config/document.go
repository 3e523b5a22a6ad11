// Package config loads a pipeline description from YAML (spec.md §6) into
// the descriptors the flowgraph core Validator expects, following the
// teacher pack's configuration conventions (gopkg.in/yaml.v3 decoding plus
// go-playground/validator/v10 struct-tag validation, as in Streamy's
// internal/config and NGOClaw's gateway config).
package config

import "github.com/flowgraph/flowgraph"

// Document is the full pipeline description as parsed from YAML.
type Document struct {
	Strategy        flowgraph.Strategy      `yaml:"strategy" validate:"required,oneof=work_queue level_by_level reactive"`
	FailureStrategy flowgraph.FailurePolicy `yaml:"failure_strategy" validate:"required,oneof=fail_fast continue_independent"`
	ExecutorOptions ExecutorOptions         `yaml:"executor_options"`
	Processors      []ProcessorSpec         `yaml:"processors" validate:"required,min=1,dive"`
}

// ExecutorOptions mirrors spec.md §6's `executor_options` block.
type ExecutorOptions struct {
	MaxConcurrency int `yaml:"max_concurrency" validate:"omitempty,min=1"`
}

// ProcessorSpec is one entry of the `processors` list. The core consumes
// only ID, DependsOn, and Options.Intent; Type and the backend-specific
// Processor/Module/Endpoint fields are opaque to the core and are handed
// to the backend resolver that builds a flowgraph.Registry (SPEC_FULL.md
// §4, "Local in-process backend").
type ProcessorSpec struct {
	ID        string            `yaml:"id" validate:"required"`
	Type      string            `yaml:"type" validate:"required,oneof=local loadable grpc http wasm"`
	Processor string            `yaml:"processor,omitempty"`
	Module    string            `yaml:"module,omitempty"`
	Endpoint  string            `yaml:"endpoint,omitempty"`
	DependsOn []string          `yaml:"depends_on,omitempty"`
	Options   ProcessorOptions  `yaml:"options,omitempty"`
}

// ProcessorOptions is the opaque-to-core options bag, with Intent promoted
// to a typed field because the core Validator consumes it directly; any
// other keys survive in Extra for the backend resolver.
type ProcessorOptions struct {
	Intent flowgraph.Intent `yaml:"intent,omitempty"`
	Extra  map[string]any   `yaml:",inline"`
}

// Descriptors translates the parsed, validated Document into the
// flowgraph.Descriptor slice the core Validate function expects.
// Options.Intent defaults to Transform when unset, per spec.md §6.
func (d *Document) Descriptors() []flowgraph.Descriptor {
	out := make([]flowgraph.Descriptor, 0, len(d.Processors))
	for _, p := range d.Processors {
		intent := p.Options.Intent
		if intent == "" {
			intent = flowgraph.Transform
		}
		options := make(map[string]any, len(p.Options.Extra)+3)
		for k, v := range p.Options.Extra {
			options[k] = v
		}
		options["type"] = p.Type
		if p.Processor != "" {
			options["processor"] = p.Processor
		}
		if p.Module != "" {
			options["module"] = p.Module
		}
		if p.Endpoint != "" {
			options["endpoint"] = p.Endpoint
		}
		out = append(out, flowgraph.Descriptor{
			ID:           p.ID,
			Intent:       intent,
			Dependencies: append([]string(nil), p.DependsOn...),
			Options:      options,
		})
	}
	return out
}

// MaxConcurrency returns the configured worker bound, or 0 (meaning
// "unbounded" to flowgraph.Options.withDefaults) when unset.
func (d *Document) MaxConcurrency() int {
	return d.ExecutorOptions.MaxConcurrency
}
