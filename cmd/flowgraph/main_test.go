package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempPipeline(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write temp pipeline: %v", err)
	}
	return path
}

const linearPipelineYAML = `
strategy: work_queue
failure_strategy: fail_fast
processors:
  - id: a
    type: local
    processor: uppercase
  - id: b
    type: local
    processor: reverse
    depends_on: [a]
`

func TestValidateCmdAcceptsWellFormedPipeline(t *testing.T) {
	path := writeTempPipeline(t, linearPipelineYAML)
	if err := validateCmd.RunE(validateCmd, []string{path}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateCmdRejectsCyclicPipeline(t *testing.T) {
	path := writeTempPipeline(t, `
strategy: work_queue
failure_strategy: fail_fast
processors:
  - id: a
    type: local
    processor: uppercase
    depends_on: [b]
  - id: b
    type: local
    processor: reverse
    depends_on: [a]
`)
	err := validateCmd.RunE(validateCmd, []string{path})
	if err == nil {
		t.Fatalf("expected a cyclic pipeline to be rejected")
	}
	if !strings.Contains(err.Error(), "rejected") {
		t.Errorf("expected the error to mention pipeline rejection, got %v", err)
	}
}

func TestRunCmdExecutesPipeline(t *testing.T) {
	path := writeTempPipeline(t, linearPipelineYAML)
	runInputFile = ""
	if err := runCmd.RunE(runCmd, []string{path}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCmdReadsInputFile(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "input.txt")
	if err := os.WriteFile(inputPath, []byte("hello"), 0o644); err != nil {
		t.Fatalf("failed to write input file: %v", err)
	}

	runInputFile = inputPath
	defer func() { runInputFile = "" }()

	payload, err := readInitialPayload()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != "hello" {
		t.Errorf("expected payload hello, got %q", payload)
	}
}

func TestReadInitialPayloadDefaultsToNil(t *testing.T) {
	runInputFile = ""
	payload, err := readInitialPayload()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload != nil {
		t.Errorf("expected a nil payload when --input is unset, got %q", payload)
	}
}
