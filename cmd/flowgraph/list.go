package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// builtinFunctions mirrors the names backend.NewLocal registers; kept
// separate from the backend package so the CLI can list them without
// constructing a registry.
var builtinFunctions = map[string]string{
	"uppercase":   "Transform: uppercase the payload",
	"lowercase":   "Transform: lowercase the payload",
	"reverse":     "Transform: reverse the payload byte-for-rune",
	"wrap":        `Transform: wrap the payload in ">>> … <<<"`,
	"suffix_done": `Transform: append " [done]" to the payload`,
	"char_count":  "Analyze: record the rune count as metadata",
	"word_count":  "Analyze: record the whitespace-delimited word count as metadata",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the local backend's built-in processor functions",
	Run: func(cmd *cobra.Command, args []string) {
		names := make([]string, 0, len(builtinFunctions))
		for name := range builtinFunctions {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Println("Built-in local processor functions:")
		fmt.Println()
		for _, name := range names {
			fmt.Printf("  %-14s %s\n", name, builtinFunctions[name])
		}
	},
}
