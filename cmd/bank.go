package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/amirasyraf/finconv/bank"
	"github.com/amirasyraf/finconv/decoder"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	bankFile   string
	bankFormat string
	bankOutDir string
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Normalize bank statements into per-account OFX files",
	Long: `Normalizes one statement file or a directory of statement files through
the selected bank format, groups transactions by account number, and writes
one OFX file per account.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runBank(); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
	},
}

func runBank() error {
	key := bankFormat
	if key == "" {
		key = viper.GetString("bank.format")
	}
	format, ok := bank.Lookup(key)
	if !ok {
		return fmt.Errorf("unknown bank format %q (known: %s)", key, strings.Join(bank.FormatKeys(), ", "))
	}

	var paths []string
	if info, err := os.Stat(bankFile); err != nil {
		return fmt.Errorf("failed to stat %s: %w", bankFile, err)
	} else if info.IsDir() {
		entries, err := os.ReadDir(bankFile)
		if err != nil {
			return fmt.Errorf("failed to read directory: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			lower := strings.ToLower(e.Name())
			if strings.HasSuffix(lower, ".csv") || strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".pdf") {
				paths = append(paths, filepath.Join(bankFile, e.Name()))
			}
		}
	} else {
		paths = []string{bankFile}
	}

	normalizer := bank.NewNormalizer()
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		decoded, err := decoder.Decode(data, path)
		if err != nil {
			log.Printf("Warning: skipping %s: %v", path, err)
			continue
		}
		normalizer.AddFile(format, decoded.RawRows(), path)
	}

	groups := normalizer.Groups()
	if len(groups) == 0 {
		return fmt.Errorf("no transactions extracted from %s", bankFile)
	}

	companies := viper.GetStringMapString("companies")
	for _, account := range normalizer.Accounts() {
		name := bank.FileName(account, companies)
		path := filepath.Join(bankOutDir, name)
		if err := os.WriteFile(path, []byte(bank.RenderOFX(account, groups[account])), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Printf("wrote %s (%d transactions)\n", path, len(groups[account]))
	}

	return nil
}

func init() {
	rootCmd.AddCommand(bankCmd)

	bankCmd.Flags().StringVarP(&bankFile, "file", "f", "", "Statement file or directory")
	bankCmd.Flags().StringVarP(&bankFormat, "format", "F", "", "Bank format key (see config bank.format)")
	bankCmd.Flags().StringVarP(&bankOutDir, "out", "o", ".", "Output directory")

	bankCmd.MarkFlagRequired("file")
}
