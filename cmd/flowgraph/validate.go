package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowgraph/flowgraph"
	"github.com/flowgraph/flowgraph/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate <pipeline.yaml>",
	Short: "Validate a pipeline description and print its resolved shape",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := config.Load(args[0])
		if err != nil {
			return err
		}

		pipeline, err := flowgraph.Validate(doc.Descriptors())
		if err != nil {
			return fmt.Errorf("pipeline rejected: %w", err)
		}

		schema := flowgraph.NewSchema(pipeline)
		encoded, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))

		if len(pipeline.Diamonds) > 0 {
			fmt.Printf("\nnote: %d diamond-shaped node(s) detected: %v\n", len(pipeline.Diamonds), pipeline.Diamonds)
		}
		return nil
	},
}
