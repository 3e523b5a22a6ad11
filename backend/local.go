// Package backend resolves processor descriptors to flowgraph.Processor
// implementations. spec.md §6 treats the backend kind (`local | loadable |
// grpc | http | wasm`) as opaque to the core; this package is the one
// external collaborator that actually builds Processors for the `local`
// kind. The other kinds are named but unimplemented, matching spec.md §1's
// treatment of remote/dynamic backends as out of scope for the core itself.
package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/flowgraph/flowgraph"
)

// ErrBackendUnsupported is returned by Resolve for any backend kind other
// than "local".
var ErrBackendUnsupported = errors.New("backend: unsupported backend kind")

// Local is a Registry of named in-process functions, the concrete backend
// exercised by the CLI demo and integration tests.
type Local struct {
	functions map[string]func(ctx context.Context, payload []byte) ([]byte, flowgraph.MetadataBag, *flowgraph.ProcessorError)
}

// NewLocal returns a Local backend pre-populated with the built-in
// text-processing functions used throughout spec.md §8's scenarios.
func NewLocal() *Local {
	l := &Local{functions: make(map[string]func(context.Context, []byte) ([]byte, flowgraph.MetadataBag, *flowgraph.ProcessorError))}
	l.Register("uppercase", func(_ context.Context, payload []byte) ([]byte, flowgraph.MetadataBag, *flowgraph.ProcessorError) {
		return bytes.ToUpper(payload), nil, nil
	})
	l.Register("lowercase", func(_ context.Context, payload []byte) ([]byte, flowgraph.MetadataBag, *flowgraph.ProcessorError) {
		return bytes.ToLower(payload), nil, nil
	})
	l.Register("reverse", func(_ context.Context, payload []byte) ([]byte, flowgraph.MetadataBag, *flowgraph.ProcessorError) {
		return reverseRunes(payload), nil, nil
	})
	l.Register("wrap", func(_ context.Context, payload []byte) ([]byte, flowgraph.MetadataBag, *flowgraph.ProcessorError) {
		return []byte(">>> " + string(payload) + " <<<"), nil, nil
	})
	l.Register("suffix_done", func(_ context.Context, payload []byte) ([]byte, flowgraph.MetadataBag, *flowgraph.ProcessorError) {
		return []byte(string(payload) + " [done]"), nil, nil
	})
	l.Register("char_count", func(_ context.Context, payload []byte) ([]byte, flowgraph.MetadataBag, *flowgraph.ProcessorError) {
		return nil, flowgraph.MetadataBag{"chars": strconv.Itoa(utf8.RuneCount(payload))}, nil
	})
	l.Register("word_count", func(_ context.Context, payload []byte) ([]byte, flowgraph.MetadataBag, *flowgraph.ProcessorError) {
		n := len(strings.Fields(string(payload)))
		return nil, flowgraph.MetadataBag{"words": strconv.Itoa(n)}, nil
	})
	return l
}

// Register adds or replaces a named function in the backend.
func (l *Local) Register(name string, fn func(ctx context.Context, payload []byte) ([]byte, flowgraph.MetadataBag, *flowgraph.ProcessorError)) {
	l.functions[name] = fn
}

// Build constructs a flowgraph.MapRegistry by resolving every descriptor
// against this backend. Descriptors with Options["type"] != "local" fail
// with ErrBackendUnsupported. Options["processor"] names the function to
// use (the descriptor id when unset); a name that is not registered makes
// Build return an error.
func (l *Local) Build(descriptors []flowgraph.Descriptor) (flowgraph.MapRegistry, error) {
	registry := make(flowgraph.MapRegistry, len(descriptors))
	for _, d := range descriptors {
		kind, _ := d.Options["type"].(string)
		if kind != "" && kind != "local" {
			return nil, fmt.Errorf("%w: processor %q declares kind %q", ErrBackendUnsupported, d.ID, kind)
		}

		name, _ := d.Options["processor"].(string)
		if name == "" {
			name = d.ID
		}
		fn, ok := l.functions[name]
		if !ok {
			return nil, fmt.Errorf("backend: no local function registered as %q (processor %q)", name, d.ID)
		}

		registry[d.ID] = newLocalProcessor(d.ID, d.Intent, fn)
	}
	return registry, nil
}

// localProcessor adapts a registered function into flowgraph.Processor.
type localProcessor struct {
	id     flowgraph.Name
	intent flowgraph.Intent
	fn     func(ctx context.Context, payload []byte) ([]byte, flowgraph.MetadataBag, *flowgraph.ProcessorError)
}

func newLocalProcessor(id flowgraph.Name, intent flowgraph.Intent, fn func(context.Context, []byte) ([]byte, flowgraph.MetadataBag, *flowgraph.ProcessorError)) flowgraph.Processor {
	return &localProcessor{id: id, intent: intent, fn: fn}
}

func (p *localProcessor) Name() flowgraph.Name     { return p.id }
func (p *localProcessor) Intent() flowgraph.Intent { return p.intent }

func (p *localProcessor) Process(ctx context.Context, req flowgraph.Request) flowgraph.Response {
	payload, bag, perr := p.fn(ctx, req.Payload)
	if perr != nil {
		return flowgraph.Response{Err: perr}
	}
	if bag == nil {
		bag = flowgraph.MetadataBag{}
	}
	return flowgraph.Response{Payload: payload, Metadata: flowgraph.Metadata{p.id: bag}}
}

func reverseRunes(payload []byte) []byte {
	runes := []rune(string(payload))
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return []byte(string(runes))
}
