package flowgraph

import (
	"bytes"
	"context"
	"testing"
)

func TestTransformFunc(t *testing.T) {
	p := TransformFunc("upper", func(_ context.Context, in []byte) []byte { return bytes.ToUpper(in) })
	if p.Intent() != Transform {
		t.Fatalf("expected Transform intent, got %v", p.Intent())
	}
	resp := p.Process(context.Background(), Request{Payload: []byte("hi")})
	if !resp.Success() || string(resp.Payload) != "HI" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Metadata["upper"] == nil {
		t.Errorf("expected the processor's own namespace to be present")
	}
}

func TestTransformApplyPropagatesError(t *testing.T) {
	p := TransformApply("fails", func(_ context.Context, _ []byte) ([]byte, *ProcessorError) {
		return nil, &ProcessorError{Code: CodeInternal, Message: "nope"}
	})
	resp := p.Process(context.Background(), Request{})
	if resp.Success() {
		t.Fatalf("expected a failed response")
	}
	if resp.Err.Message != "nope" {
		t.Errorf("expected error message to propagate, got %v", resp.Err)
	}
}

func TestAnalyzeFunc(t *testing.T) {
	p := AnalyzeFunc("count", func(_ context.Context, in []byte) MetadataBag {
		return MetadataBag{"len": "2"}
	})
	if p.Intent() != Analyze {
		t.Fatalf("expected Analyze intent, got %v", p.Intent())
	}
	resp := p.Process(context.Background(), Request{Payload: []byte("hi")})
	if resp.Metadata["count"]["len"] != "2" {
		t.Errorf("unexpected metadata: %+v", resp.Metadata)
	}
}

func TestAnalyzeApplyPropagatesError(t *testing.T) {
	p := AnalyzeApply("fails", func(_ context.Context, _ []byte) (MetadataBag, *ProcessorError) {
		return nil, &ProcessorError{Code: CodeInternal, Message: "nope"}
	})
	resp := p.Process(context.Background(), Request{})
	if resp.Success() {
		t.Fatalf("expected a failed response")
	}
}
