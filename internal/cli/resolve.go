package cli

import (
	"fmt"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"autoapply/internal/adapter/fs"
	"autoapply/internal/domain"
	"autoapply/internal/usecase"
)

var (
	resolveOrg          string
	resolveAppID        string
	resolveInstructions string
	resolveJSON         bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <form.yaml>",
	Short: "Resolve every field of an application form",
	Long: `Resolve a form against an organization's stored knowledge. Deterministic fields
are answered from the profile, documents and prior applications; narrative fields
are drafted concurrently by the generation model. The result is stored under an
application id for later regenerate, update and status commands.

When the form lists no fields, the best matching template for its grant is used.

Examples:
  autoapply resolve form.yaml --org riverbend
  autoapply resolve form.yaml --org riverbend -i "Write in first person plural" --json`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringVar(&resolveOrg, "org", "", "organization id of imported knowledge")
	resolveCmd.Flags().StringVar(&resolveAppID, "id", "", "application id (default is a new id; an existing id is replaced)")
	resolveCmd.Flags().StringVarP(&resolveInstructions, "instructions", "i", "", "custom instructions for every drafted answer")
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "output as JSON")
}

func runResolve(cmd *cobra.Command, args []string) error {
	form, err := fs.LoadForm(args[0])
	if err != nil {
		return fmt.Errorf("failed to load form: %w", err)
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

	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var startTime time.Time

	progress := func(done, total int, fieldID string) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Drafting[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}

		bar.Set(done)

		if done < total {
			elapsed := time.Since(startTime)
			rate := float64(done) / elapsed.Seconds()
			if rate > 0 {
				eta := time.Duration(float64(total-done)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]Drafting[reset] %s ETA: %s", fieldID, formatDuration(eta)))
			}
		}
	}
	if resolveJSON {
		progress = nil
	}

	result, err := engine.ResolveApplication(cmd.Context(), usecase.ResolveRequest{
		ApplicationID:  resolveAppID,
		Grant:          form.Grant,
		Fields:         form.Fields,
		User:           domain.UserContext{CustomInstructions: resolveInstructions},
		OrganizationID: resolveOrg,
		Progress:       progress,
	})
	if err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}

	if resolveJSON {
		return printJSON(result)
	}

	if result.Template != "" {
		fmt.Printf("Template: %s (matched by %s)\n", result.Template, result.Match)
	}
	fmt.Printf("\nApplication %s:\n", result.ApplicationID)
	for i, f := range result.Fields {
		printValue(f, result.Values[i])
	}
	fmt.Println()
	printSnapshot(result.Snapshot)
	return nil
}

func printValue(f domain.Field, v domain.ResolvedValue) {
	if v.NeedsUserInput {
		fmt.Printf("  ? %-32s %s\n", f.Title(), v.UserPrompt)
		return
	}
	mark := "+"
	if v.Validation.HasErrors() {
		mark = "!"
	}
	fmt.Printf("  %s %-32s [%s %.0f%%, score %d] %s\n", mark, f.Title(), v.Source, v.Confidence*100, v.Validation.Score, truncate(v.Value, 60))
	for _, issue := range v.Validation.Issues {
		fmt.Printf("      %s: %s\n", issue.Severity, issue.Message)
	}
}

func printSnapshot(s domain.ApplicationSnapshot) {
	fmt.Printf("Completion:  %d%% (%d/%d fields)\n", s.CompletionPercentage, s.CompletedFields, s.TotalFields)
	fmt.Printf("Confidence:  %d%%\n", s.OverallConfidence)
	fmt.Printf("Issues:      %d\n", s.CriticalIssues)
	fmt.Printf("Readiness:   %s\n", s.ReadinessLevel)
	if len(s.MissingRequirements) > 0 {
		fmt.Printf("\nMissing requirements:\n")
		for _, m := range s.MissingRequirements {
			fmt.Printf("  - %s\n", m)
		}
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
