package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"autoapply/internal/domain"
)

var (
	regenerateInstructions string
	fieldContent           string
	fieldContentFile       string
	fieldJSON              bool
)

var regenerateCmd = &cobra.Command{
	Use:   "regenerate <application-id> <field-id>",
	Short: "Draft a fresh answer for one field",
	Long: `Draft a fresh answer for one field, bypassing cached drafts. The current answer
is given to the model as a reference. On failure the stored answer is kept.

Examples:
  autoapply regenerate 3f2a... need -i "Lead with the waitlist numbers"`,
	Args: cobra.ExactArgs(2),
	RunE: runRegenerate,
}

var validateCmd = &cobra.Command{
	Use:   "validate <application-id> <field-id>",
	Short: "Score candidate content for a field without saving it",
	Args:  cobra.ExactArgs(2),
	RunE:  runValidate,
}

var updateCmd = &cobra.Command{
	Use:   "update <application-id> <field-id>",
	Short: "Record your own answer for a field",
	Long: `Record a user-written answer for a field. Empty content clears the field.

Examples:
  autoapply update 3f2a... ein --content "12-3456789"
  autoapply update 3f2a... need --file need.md`,
	Args: cobra.ExactArgs(2),
	RunE: runUpdate,
}

var improveCmd = &cobra.Command{
	Use:   "improve <application-id> <field-id>",
	Short: "Ask the model to critique a field's current answer",
	Args:  cobra.ExactArgs(2),
	RunE:  runImprove,
}

func init() {
	rootCmd.AddCommand(regenerateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(improveCmd)

	regenerateCmd.Flags().StringVarP(&regenerateInstructions, "instructions", "i", "", "custom instructions for this draft")
	for _, c := range []*cobra.Command{validateCmd, updateCmd} {
		c.Flags().StringVar(&fieldContent, "content", "", "answer text")
		c.Flags().StringVar(&fieldContentFile, "file", "", "read answer text from a file")
		c.MarkFlagsMutuallyExclusive("content", "file")
	}
	for _, c := range []*cobra.Command{regenerateCmd, validateCmd, updateCmd, improveCmd} {
		c.Flags().BoolVar(&fieldJSON, "json", false, "output as JSON")
	}
}

func runRegenerate(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	st, err := openStore(cfg, GetRootDir())
	if err != nil {
		return err
	}
	defer st.Close()

	engine, err := newEngine(cfg, st)
	if err != nil {
		return err
	}
	defer engine.Close()

	v, err := engine.RegenerateField(cmd.Context(), args[0], args[1], regenerateInstructions)
	if err != nil {
		return fmt.Errorf("regeneration failed: %w", err)
	}
	if fieldJSON {
		return printJSON(v)
	}

	fmt.Printf("%s\n\n", v.Value)
	printValidation(v.Validation)
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	content, err := readContent(fieldContent, fieldContentFile)
	if err != nil {
		return err
	}

	cfg := GetConfig()
	st, err := openStore(cfg, GetRootDir())
	if err != nil {
		return err
	}
	defer st.Close()

	engine, err := newEngine(cfg, st)
	if err != nil {
		return err
	}
	defer engine.Close()

	result, err := engine.ValidateField(cmd.Context(), args[0], args[1], content)
	if err != nil {
		return err
	}
	if fieldJSON {
		return printJSON(result)
	}
	printValidation(result)
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	content, err := readContent(fieldContent, fieldContentFile)
	if err != nil {
		return err
	}

	cfg := GetConfig()
	st, err := openStore(cfg, GetRootDir())
	if err != nil {
		return err
	}
	defer st.Close()

	engine, err := newEngine(cfg, st)
	if err != nil {
		return err
	}
	defer engine.Close()

	v, snap, err := engine.UpdateField(cmd.Context(), args[0], args[1], content)
	if err != nil {
		return err
	}
	if fieldJSON {
		return printJSON(struct {
			Value    domain.ResolvedValue       `json:"value"`
			Snapshot domain.ApplicationSnapshot `json:"snapshot"`
		}{v, snap})
	}

	if v.NeedsUserInput {
		fmt.Printf("Cleared %s.\n\n", args[1])
	} else {
		printValidation(v.Validation)
		fmt.Println()
	}
	printSnapshot(snap)
	return nil
}

func runImprove(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	st, err := openStore(cfg, GetRootDir())
	if err != nil {
		return err
	}
	defer st.Close()

	engine, err := newEngine(cfg, st)
	if err != nil {
		return err
	}
	defer engine.Close()

	result, err := engine.ImproveField(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	if fieldJSON {
		return printJSON(result)
	}
	printValidation(result)
	return nil
}

func printValidation(r domain.ValidationResult) {
	status := "valid"
	if !r.IsValid {
		status = "invalid"
	}
	fmt.Printf("Score: %d (%s)\n", r.Score, status)
	for _, issue := range r.Issues {
		fmt.Printf("  %s: %s\n", issue.Severity, issue.Message)
	}
	if len(r.Improvements) > 0 {
		fmt.Printf("Suggestions:\n")
		for _, s := range r.Improvements {
			fmt.Printf("  - %s\n", s)
		}
	}
}
