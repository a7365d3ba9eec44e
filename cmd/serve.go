package cmd

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/amirasyraf/finconv/api"
	"github.com/amirasyraf/finconv/integrations/postgres"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	servePort  string
	serveDBURL string
	adminToken string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP API server",
	Long: `Starts the HTTP API server that accepts uploads and returns converted
interchange files. Mapping tables come from the config file, or from
PostgreSQL when --db-url is given.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Configure logging for server mode
		log.SetOutput(os.Stdout)
		log.SetFlags(log.Ltime | log.Lmsgprefix)

		cfg := api.DefaultConfig()
		if servePort != "" {
			cfg.Port = ":" + servePort
		}
		cfg.LogPrefix = "SERVER: "
		cfg.AdminToken = adminToken
		cfg.Mappings = map[string]map[string]string{
			"coa":        viper.GetStringMapString("mappings.coa"),
			"bank_names": viper.GetStringMapString("mappings.bank_names"),
			"memo":       viper.GetStringMapString("mappings.memo"),
			"companies":  viper.GetStringMapString("companies"),
		}

		if serveDBURL != "" {
			if err := loadMappingsFromDB(cfg.Mappings); err != nil {
				log.Fatalf("Failed to load mappings from database: %v", err)
			}
		}

		server := api.New(cfg)
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	},
}

// loadMappingsFromDB overlays database mapping entries on top of the
// config-file tables.
func loadMappingsFromDB(mappings map[string]map[string]string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := postgres.Connect(ctx, serveDBURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}

	kinds := []string{
		postgres.MappingCOA,
		postgres.MappingBankNames,
		postgres.MappingMemo,
		postgres.MappingCompanies,
	}
	for _, kind := range kinds {
		stored, err := db.LoadMapping(ctx, kind)
		if err != nil {
			return err
		}
		if mappings[kind] == nil {
			mappings[kind] = map[string]string{}
		}
		for k, v := range stored {
			mappings[kind][k] = v
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&servePort, "port", "p", "8080", "Port to run the API server on")
	serveCmd.Flags().StringVar(&serveDBURL, "db-url", "", "PostgreSQL connection URL for stored mapping tables")
	serveCmd.Flags().StringVar(&adminToken, "admin-token", "", "Bearer token granting admin capabilities")
}
