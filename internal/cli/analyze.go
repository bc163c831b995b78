package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"autoapply/internal/adapter/classifier"
	"autoapply/internal/adapter/fs"
)

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <form.yaml>",
	Short: "Classify form fields",
	Long: `Classify every field of a form into a semantic category and report whether
it will be drafted by the generation model.

Examples:
  autoapply analyze form.yaml
  autoapply analyze form.yaml --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	form, err := fs.LoadForm(args[0])
	if err != nil {
		return fmt.Errorf("failed to load form: %w", err)
	}

	fields := classifier.New().Analyze(form.Fields)
	if analyzeJSON {
		return printJSON(fields)
	}

	fmt.Printf("Fields in %s:\n\n", args[0])
	for i, f := range fields {
		mode := "resolve"
		if f.NeedsGeneration {
			mode = "generate"
		}
		required := ""
		if f.Required {
			required = " (required)"
		}
		fmt.Printf("%2d. %-32s %-24s %s%s\n", i+1, f.Title(), f.Category, mode, required)
	}
	return nil
}
