package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New()
	})
	return validatorInst
}

// LoadError wraps a config-loading failure with the source path, mirroring
// the teacher pack's practice (Streamy's streamyerrors.ParseError) of
// keeping the originating file name attached to a parse/validation error.
type LoadError struct {
	Path  string
	Cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("config: %s: %v", e.Path, e.Cause)
}

func (e *LoadError) Unwrap() error { return e.Cause }

// Load reads, interpolates, decodes, and validates a pipeline description
// from path, returning the parsed Document. `${VAR}` references in the raw
// YAML text are expanded against the process environment before decoding,
// so a pipeline description can parameterize backend endpoints, file
// paths, or credentials without hardcoding them (spec.md §6 treats all
// processor options as an opaque-to-core bag; interpolation happens before
// the core ever sees the document).
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Cause: err}
	}

	expanded := os.Expand(string(raw), func(key string) string {
		return os.Getenv(key)
	})

	var doc Document
	if err := yaml.Unmarshal([]byte(expanded), &doc); err != nil {
		return nil, &LoadError{Path: path, Cause: err}
	}

	if err := validatorInstance().Struct(&doc); err != nil {
		return nil, &LoadError{Path: path, Cause: err}
	}

	return &doc, nil
}
