package main

import (
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "scim-validate <schema-dir>",
	Short: "Validate SCIM schema definition files",
	Long: `scim-validate loads every *.json schema file in a directory through
schema.Registry.LoadDir, the same code path the engine uses to register
schemas at startup, and reports the first structural error it finds.`,
	Version: "1.0.0",
	Args:    cobra.ExactArgs(1),
	RunE:    runValidate,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(); it only needs to happen
// once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "also print how many schema files were found")
}
