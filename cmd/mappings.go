package cmd

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/amirasyraf/finconv/integrations/postgres"
	"github.com/spf13/cobra"
)

var (
	mappingDBURL string
	mappingKind  string
	mappingKey   string
	mappingValue string
)

var mappingsCmd = &cobra.Command{
	Use:   "mappings",
	Short: "Manage stored mapping tables",
}

var mappingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored mapping entries",
	Run: func(cmd *cobra.Command, args []string) {
		db, ctx, cancel := openStore(mappingDBURL)
		defer cancel()
		defer db.Close()

		kinds := []string{
			postgres.MappingCOA,
			postgres.MappingBankNames,
			postgres.MappingMemo,
			postgres.MappingCompanies,
		}
		if mappingKind != "" {
			kinds = []string{mappingKind}
		}

		for _, kind := range kinds {
			mapping, err := db.LoadMapping(ctx, kind)
			if err != nil {
				log.Fatalf("error: %v", err)
			}
			fmt.Printf("%s (%d entries)\n", kind, len(mapping))

			keys := make([]string, 0, len(mapping))
			for k := range mapping {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Printf("  %s = %s\n", k, mapping[k])
			}
		}
	},
}

var mappingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or update one mapping entry",
	Run: func(cmd *cobra.Command, args []string) {
		if mappingKind == "" || mappingKey == "" {
			log.Fatal("error: --kind and --key are required")
		}

		db, ctx, cancel := openStore(mappingDBURL)
		defer cancel()
		defer db.Close()

		if err := db.SaveMapping(ctx, mappingKind, mappingKey, mappingValue); err != nil {
			log.Fatalf("error: %v", err)
		}
		fmt.Printf("set %s: %s = %s\n", mappingKind, mappingKey, mappingValue)
	},
}

// openStore connects to the mapping store and ensures the schema. Fatal on
// any failure; these are interactive one-shot commands.
func openStore(dbURL string) (*postgres.DB, context.Context, context.CancelFunc) {
	if dbURL == "" {
		log.Fatal("error: --db-url is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	db, err := postgres.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("error: database connection failed: %v", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		log.Fatalf("error: schema creation failed: %v", err)
	}
	return db, ctx, cancel
}

func init() {
	rootCmd.AddCommand(mappingsCmd)
	mappingsCmd.AddCommand(mappingsListCmd)
	mappingsCmd.AddCommand(mappingsSetCmd)

	mappingsCmd.PersistentFlags().StringVar(&mappingDBURL, "db-url", "", "PostgreSQL connection URL")
	mappingsCmd.PersistentFlags().StringVar(&mappingKind, "kind", "", "Mapping table kind (coa, bank_names, memo, companies)")
	mappingsSetCmd.Flags().StringVar(&mappingKey, "key", "", "Normalized lookup key")
	mappingsSetCmd.Flags().StringVar(&mappingValue, "value", "", "Replacement value")
}
