package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"autoapply/internal/adapter/template"
	"autoapply/internal/domain"
)

var (
	templateTitle      string
	templateFunder     string
	templateFunderType string
	templateCategory   string
	templateJSON       bool
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the built-in form templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := template.NewRegistry()
		for _, name := range reg.Names() {
			t, _ := reg.Get(name)
			fmt.Printf("  %-24s %2d fields\n", name, len(t.Fields))
		}
		return nil
	},
}

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Select the template for a grant",
	Long: `Select the form template that best matches a grant. Program keywords win over
named funders, which win over domain keywords and the funder type.

Examples:
  autoapply template --title "SBIR Phase I: Water Sensors" --funder-type federal
  autoapply template --funder "National Science Foundation" --json`,
	Args: cobra.NoArgs,
	RunE: runTemplate,
}

func init() {
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(templateCmd)
	templateCmd.Flags().StringVar(&templateTitle, "title", "", "grant title")
	templateCmd.Flags().StringVar(&templateFunder, "funder", "", "funder name")
	templateCmd.Flags().StringVar(&templateFunderType, "funder-type", "", "funder type (federal, foundation, corporate, state)")
	templateCmd.Flags().StringVar(&templateCategory, "category", "", "grant category")
	templateCmd.Flags().BoolVar(&templateJSON, "json", false, "output as JSON")
}

func runTemplate(cmd *cobra.Command, args []string) error {
	sel := template.NewRegistry().Select(domain.Grant{
		Title:      templateTitle,
		Funder:     templateFunder,
		FunderType: domain.FunderType(templateFunderType),
		Category:   templateCategory,
	})
	if templateJSON {
		return printJSON(sel)
	}

	fmt.Printf("Template: %s (matched by %s)\n\n", sel.Template.Name, sel.Match)
	for i, f := range sel.Template.Fields {
		fmt.Printf("%2d. %-36s %s\n", i+1, f.Title(), f.InputKind)
	}
	return nil
}
