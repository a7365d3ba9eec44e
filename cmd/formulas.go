package cmd

import (
	"fmt"
	"log"
	"sort"

	"github.com/spf13/cobra"
)

var (
	formulaDBURL string
	formulaName  string
	formulaText  string
	formulaKind  string
)

var formulasCmd = &cobra.Command{
	Use:   "formulas",
	Short: "Manage saved calculated-column formulas",
}

var formulasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved formulas",
	Run: func(cmd *cobra.Command, args []string) {
		db, ctx, cancel := openStore(formulaDBURL)
		defer cancel()
		defer db.Close()

		formulas, err := db.ListFormulas(ctx)
		if err != nil {
			log.Fatalf("error: %v", err)
		}

		names := make([]string, 0, len(formulas))
		for name := range formulas {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("%s = %s\n", name, formulas[name])
		}
	},
}

var formulasSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or update a saved formula",
	Run: func(cmd *cobra.Command, args []string) {
		if formulaName == "" || formulaText == "" {
			log.Fatal("error: --name and --formula are required")
		}
		if formulaKind != "formula" && formulaKind != "answer" {
			log.Fatal("error: --kind must be formula or answer")
		}

		db, ctx, cancel := openStore(formulaDBURL)
		defer cancel()
		defer db.Close()

		if err := db.SaveFormula(ctx, formulaName, formulaText, formulaKind); err != nil {
			log.Fatalf("error: %v", err)
		}
		fmt.Printf("saved %s (%s)\n", formulaName, formulaKind)
	},
}

func init() {
	rootCmd.AddCommand(formulasCmd)
	formulasCmd.AddCommand(formulasListCmd)
	formulasCmd.AddCommand(formulasSetCmd)

	formulasCmd.PersistentFlags().StringVar(&formulaDBURL, "db-url", "", "PostgreSQL connection URL")
	formulasSetCmd.Flags().StringVar(&formulaName, "name", "", "Formula name")
	formulasSetCmd.Flags().StringVar(&formulaText, "formula", "", "Formula text")
	formulasSetCmd.Flags().StringVar(&formulaKind, "kind", "formula", "Formula kind (formula or answer)")
}
