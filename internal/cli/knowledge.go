package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"autoapply/internal/adapter/fs"
)

var knowledgeOrg string

var knowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Manage organization knowledge",
}

var knowledgeImportCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Import an organization's knowledge directory",
	Long: `Import a knowledge directory into the workspace store. The directory holds
profile.yaml, extracted documents under documents/ and prior applications
under applications/. Re-importing replaces the stored bundle.

Examples:
  autoapply knowledge import ./riverbend
  autoapply knowledge import ./data/org --org riverbend`,
	Args: cobra.ExactArgs(1),
	RunE: runKnowledgeImport,
}

var knowledgeShowCmd = &cobra.Command{
	Use:   "show <org-id>",
	Short: "Print a stored knowledge bundle as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runKnowledgeShow,
}

func init() {
	rootCmd.AddCommand(knowledgeCmd)
	knowledgeCmd.AddCommand(knowledgeImportCmd)
	knowledgeCmd.AddCommand(knowledgeShowCmd)
	knowledgeImportCmd.Flags().StringVar(&knowledgeOrg, "org", "", "organization id (default is the directory name)")
}

func runKnowledgeImport(cmd *cobra.Command, args []string) error {
	dir, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	bundle, err := fs.NewKnowledgeLoader(GetLogger()).Load(dir, knowledgeOrg)
	if err != nil {
		return fmt.Errorf("failed to load knowledge: %w", err)
	}

	st, err := openStore(GetConfig(), GetRootDir())
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.PutKnowledge(bundle); err != nil {
		return fmt.Errorf("failed to store knowledge: %w", err)
	}

	fmt.Printf("Imported knowledge for %s:\n", bundle.OrganizationID)
	fmt.Printf("  Profile:            %v\n", bundle.Profile != nil)
	fmt.Printf("  Documents:          %d\n", len(bundle.Documents))
	fmt.Printf("  Prior applications: %d\n", len(bundle.PriorApplications))
	return nil
}

func runKnowledgeShow(cmd *cobra.Command, args []string) error {
	st, err := openStore(GetConfig(), GetRootDir())
	if err != nil {
		return err
	}
	defer st.Close()

	bundle, err := st.GetKnowledge(args[0])
	if err != nil {
		return err
	}
	return printJSON(bundle)
}
