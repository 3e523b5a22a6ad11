package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowgraph/flowgraph"
	"github.com/flowgraph/flowgraph/backend"
	"github.com/flowgraph/flowgraph/config"
)

var runInputFile string

func init() {
	runCmd.Flags().StringVar(&runInputFile, "input", "", "path to a file whose contents become the initial payload (default: empty payload)")
}

var runCmd = &cobra.Command{
	Use:   "run <pipeline.yaml>",
	Short: "Execute a pipeline description against the local backend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := config.Load(args[0])
		if err != nil {
			return err
		}

		descriptors := doc.Descriptors()
		pipeline, err := flowgraph.Validate(descriptors)
		if err != nil {
			return fmt.Errorf("pipeline rejected: %w", err)
		}

		registry, err := backend.NewLocal().Build(descriptors)
		if err != nil {
			return err
		}

		payload, err := readInitialPayload()
		if err != nil {
			return err
		}

		results, err := flowgraph.Execute(context.Background(), pipeline, registry, doc.Strategy,
			flowgraph.Request{Payload: payload},
			flowgraph.Options{
				FailurePolicy:  doc.FailureStrategy,
				MaxConcurrency: doc.MaxConcurrency(),
			},
		)
		if err != nil {
			return err
		}

		encoded, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))
		return nil
	},
}

func readInitialPayload() ([]byte, error) {
	if runInputFile == "" {
		return nil, nil
	}
	return os.ReadFile(runInputFile)
}
