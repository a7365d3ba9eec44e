package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/amirasyraf/finconv/bank"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	exportDBURL   string
	exportAccount string
	exportOutDir  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Re-render stored transactions as an OFX file",
	Long: `Loads one account's previously imported transactions from PostgreSQL and
writes them as an OFX file, so a statement can be regenerated without the
original upload.`,
	Run: func(cmd *cobra.Command, args []string) {
		if exportAccount == "" {
			log.Fatal("error: --account is required")
		}

		db, ctx, cancel := openStore(exportDBURL)
		defer cancel()
		defer db.Close()

		txns, err := db.TransactionsByAccount(ctx, exportAccount)
		if err != nil {
			log.Fatalf("error: %v", err)
		}
		if len(txns) == 0 {
			log.Fatalf("error: no stored transactions for account %s", exportAccount)
		}

		name := bank.FileName(exportAccount, viper.GetStringMapString("companies"))
		path := filepath.Join(exportOutDir, name)
		if err := os.WriteFile(path, []byte(bank.RenderOFX(exportAccount, txns)), 0o644); err != nil {
			log.Fatalf("error: failed to write %s: %v", path, err)
		}
		fmt.Printf("wrote %s (%d transactions)\n", path, len(txns))
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportDBURL, "db-url", "", "PostgreSQL connection URL")
	exportCmd.Flags().StringVarP(&exportAccount, "account", "a", "", "Account number to export")
	exportCmd.Flags().StringVarP(&exportOutDir, "out", "o", ".", "Output directory")
}
