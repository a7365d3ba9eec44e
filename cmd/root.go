package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Embedded default configuration. Mapping tables ship empty; users point
// --config at their own file or drop .finconv.yaml next to the binary.
const defaultConfigYAML = `
mappings:
  # COA name remap applied to the designated account column on export
  coa: {}
  # Bank name remap applied to the designated bank column on export
  bank_names: {}
  # Memo fragments appended per normalized key
  memo: {}
# Company names per account number, used to name OFX output files
companies: {}
iif:
  split_column: CLASS
  coa_column: ACCNT
  bank_column: NAME
  memo_column: NAME
  memo_policy: keys
bank:
  format: chase
`

var (
	cfgFile string
	verbose bool
	rootCmd = &cobra.Command{
		Use:   "finconv",
		Short: "Convert spreadsheets and bank statements into interchange formats",
		Long: `finconv re-maps tabular financial data into interchange files:
spreadsheets into IIF via user-defined column mappings, and bank statement
exports into OFX via per-bank normalization.`,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
)

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default is ./.finconv.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func initLogging() {
	if !verbose {
		log.SetOutput(io.Discard)
	} else {
		log.SetFlags(log.Ltime | log.Lmsgprefix)
		log.SetPrefix("INFO: ")
	}
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in current directory and home directory
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigName(".finconv")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// No config file found, use embedded default configuration
			if err := viper.ReadConfig(bytes.NewBufferString(defaultConfigYAML)); err != nil {
				fmt.Printf("Error loading embedded configuration: %v\n", err)
				os.Exit(1)
			}
		} else {
			fmt.Printf("Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}
}
