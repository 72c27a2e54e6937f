// Package cmd — convert command.
// This is the main command that orchestrates the pipeline:
// read → assemble (decode, normalize, resolve) → write.
//
// It handles flag validation, streams items one at a time, and reports
// progress on stdout.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/wxrpipe/core/assemble"
	"github.com/gaurav-prasanna/wxrpipe/core/normalize"
	"github.com/gaurav-prasanna/wxrpipe/core/output"
	"github.com/gaurav-prasanna/wxrpipe/core/phpserial"
	"github.com/gaurav-prasanna/wxrpipe/core/wxr"
)

// Flag variables.
var (
	flagMarkdown      bool
	flagPostTypes     []string
	flagExcludeFields []string
	flagLenient       bool
	flagVerbose       bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <export.xml> <output.yaml>",
	Short: "Convert a WXR export file to YAML",
	Long: `Convert reads a WordPress WXR export, processes each post's fields
(custom-field decoding, gallery resolution, optional HTML→Markdown
normalization), and writes the result as one YAML document.

Examples:
  wxrpipe convert export.xml posts.yaml
  wxrpipe convert export.xml posts.yaml --markdown
  wxrpipe convert export.xml posts.yaml --post-types proyectos,page
  wxrpipe convert export.xml posts.yaml --exclude-custom-fields '_edit_lock,_g_feedback_shortcode*'`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Convert post HTML content to Markdown")
	convertCmd.Flags().StringSliceVar(&flagPostTypes, "post-types", nil, "Post types to include (default: all)")
	convertCmd.Flags().StringSliceVar(&flagExcludeFields, "exclude-custom-fields", nil, "Custom-field keys to exclude (exact or trailing-* prefix)")
	convertCmd.Flags().BoolVar(&flagLenient, "lenient", false, "Tolerate minor XML well-formedness defects")
	convertCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Report recoverable per-field problems on stderr")
}

func runConvert(cmd *cobra.Command, args []string) error {
	xmlPath, yamlPath := args[0], args[1]

	file, err := os.Open(xmlPath)
	if err != nil {
		return fmt.Errorf("opening export file: %w", err)
	}
	defer file.Close()

	// Initialize pipeline components.
	reader := wxr.New(file, flagLenient)
	assembler := assemble.New(assemble.Options{
		PostTypes:       flagPostTypes,
		ExcludeFields:   flagExcludeFields,
		ConvertMarkdown: flagMarkdown,
	}, normalize.New(), phpserial.New())
	if flagVerbose {
		assembler.SetDiagnostics(os.Stderr)
	}

	fmt.Fprintf(os.Stdout, "Reading %s...\n", xmlPath)

	var total int
	for {
		item, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("parsing export (after %d items): %w", total, err)
		}
		assembler.Add(item)
		total++
	}

	posts := assembler.Finish()
	fmt.Fprintf(os.Stdout, "Processed %d items, %d included\n", total, len(posts))

	writer := output.New()
	if err := writer.Write(yamlPath, posts); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "✓ Written: %s\n", yamlPath)
	return nil
}
