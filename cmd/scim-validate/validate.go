package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nexusid/scimcore/schema"
)

func runValidate(cmd *cobra.Command, args []string) error {
	dir := args[0]
	out := cmd.OutOrStdout()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading schema directory %s: %w", dir, err)
	}
	var jsonFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			jsonFiles = append(jsonFiles, e.Name())
		}
	}
	if verbose {
		fmt.Fprintf(out, "found %d schema file(s) in %s\n", len(jsonFiles), filepath.Clean(dir))
	}

	reg, err := schema.LoadDir(dir)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "schema validation failed: %v\n", err)
		return err
	}

	fmt.Fprintln(out, "all schemas valid")
	for _, s := range reg.Iter() {
		printSummary(out, s)
	}
	return nil
}

func printSummary(w io.Writer, s schema.Schema) {
	var required, multiValued int
	typeCounts := make(map[schema.AttributeDataType]int)
	for _, a := range s.Attributes {
		if a.Required {
			required++
		}
		if a.MultiValued {
			multiValued++
		}
		typeCounts[a.Type]++
	}

	fmt.Fprintf(w, "\n  %s (%s)\n", s.Name, s.ID)
	fmt.Fprintf(w, "    attributes: %d, required: %d, multi-valued: %d\n", len(s.Attributes), required, multiValued)
	for t, c := range typeCounts {
		fmt.Fprintf(w, "      - %s: %d\n", t, c)
	}
}
