// Package cmd implements the CLI commands for wxrpipe using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wxrpipe",
	Short: "wxrpipe — convert WordPress WXR exports into structured YAML",
	Long: `wxrpipe is a deterministic conversion pipeline that turns a WordPress
content export (WXR XML) into a structured YAML document, optionally
normalizing post HTML into Markdown along the way.

Usage:
  wxrpipe convert <export.xml> <output.yaml> [flags]`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
