package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"autoapply/internal/adapter/store"
	"autoapply/internal/usecase"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status [application-id]",
	Short: "Show application readiness",
	Long: `Without arguments, list stored applications. With an application id, show
each field's answer and the readiness snapshot.

Examples:
  autoapply status
  autoapply status 3f2a... --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	st, err := openStore(cfg, GetRootDir())
	if err != nil {
		return err
	}
	defer st.Close()

	if len(args) == 0 {
		ids, err := st.ListApplications()
		if err != nil {
			return err
		}
		if statusJSON {
			return printJSON(ids)
		}
		if len(ids) == 0 {
			fmt.Println("No applications. Run 'autoapply resolve' first.")
			return nil
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	}

	state, err := st.GetApplication(args[0])
	if err != nil {
		return err
	}
	snap := usecase.Aggregate(state.Fields, state.Values)
	if statusJSON {
		return printJSON(snap)
	}

	fmt.Printf("Application %s: %s\n\n", state.ID, state.Grant.Title)
	for _, f := range state.Fields {
		v, ok := state.Values[f.ID]
		if !ok {
			fmt.Printf("  ? %-32s not resolved\n", f.Title())
			continue
		}
		printValue(f, v)
	}
	fmt.Println()
	printSnapshot(snap)

	if store.IsStale(state, cfg) {
		fmt.Printf("\nNote: resolution settings changed since this application was resolved; run 'autoapply resolve <form> --id %s' to refresh.\n", state.ID)
	}
	return nil
}
