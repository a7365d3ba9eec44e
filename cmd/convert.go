package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/amirasyraf/finconv/decoder"
	"github.com/amirasyraf/finconv/remap"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	convertFile     string
	convertTemplate string
	convertOptions  string
	convertOutDir   string
)

// mappingSpec is the on-disk JSON describing how source columns map onto the
// template's target columns.
type mappingSpec struct {
	KeyMapping   map[string][]string `json:"key_mapping"`
	ValueMapping map[string][]string `json:"value_mapping"`
	Positions    map[string]int      `json:"positions"`
	NonZero      []string            `json:"non_zero"`
	SplitColumn  string              `json:"split_column"`
	Calculated   []struct {
		Name    string `json:"name"`
		Replace string `json:"replace"`
		Formula string `json:"formula"`
		Kind    string `json:"kind"`
	} `json:"calculated"`
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Re-map a spreadsheet into per-store IIF files",
	Long: `Decodes a source spreadsheet, applies the configured column mappings and
calculated columns, expands rows against the IIF template schema, and writes
one IIF file per store.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runConvert(); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
	},
}

func runConvert() error {
	sourceBytes, err := os.ReadFile(convertFile)
	if err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}
	templateBytes, err := os.ReadFile(convertTemplate)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}
	optionBytes, err := os.ReadFile(convertOptions)
	if err != nil {
		return fmt.Errorf("failed to read mapping options: %w", err)
	}

	var spec mappingSpec
	if err := json.Unmarshal(optionBytes, &spec); err != nil {
		return fmt.Errorf("invalid mapping options: %w", err)
	}

	decoded, err := decoder.Decode(sourceBytes, convertFile)
	if err != nil {
		return fmt.Errorf("failed to decode source: %w", err)
	}
	schema, err := remap.ParseTemplate(decoder.DecodeText(templateBytes))
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	log.Printf("Decoded %d rows with %d columns", len(decoded.Rows), len(decoded.Columns))

	table := remap.FromStrings(decoded.Columns, decoded.Rows)
	for _, calc := range spec.Calculated {
		kind := remap.KindFormula
		if calc.Kind == "answer" {
			kind = remap.KindAnswer
		}
		err := table.AddCalculated(remap.CalcSpec{
			Name:    calc.Name,
			Replace: calc.Replace,
			Formula: calc.Formula,
			Kind:    kind,
		})
		if err != nil {
			return fmt.Errorf("calculated column %q: %w", calc.Name, err)
		}
	}
	table.FillDates("DATE")
	table.NormalizeDates("DATE")

	nonZero := make(map[string]bool, len(spec.NonZero))
	for _, col := range spec.NonZero {
		nonZero[col] = true
	}

	splitColumn := spec.SplitColumn
	if splitColumn == "" {
		splitColumn = viper.GetString("iif.split_column")
	}

	resolver := &remap.Resolver{
		Table:     table,
		Targets:   schema.Columns,
		Keys:      spec.KeyMapping,
		Values:    spec.ValueMapping,
		Positions: spec.Positions,
		NonZero:   nonZero,
	}

	files, err := resolver.Export(schema, remap.ExportOptions{
		SplitColumn: splitColumn,
		COAColumn:   viper.GetString("iif.coa_column"),
		COAMap:      viper.GetStringMapString("mappings.coa"),
		BankColumn:  viper.GetString("iif.bank_column"),
		BankMap:     viper.GetStringMapString("mappings.bank_names"),
		MemoColumn:  viper.GetString("iif.memo_column"),
		MemoMap:     viper.GetStringMapString("mappings.memo"),
		MemoPolicy:  memoPolicyFromConfig(),
	})
	if err != nil {
		return err
	}

	for _, f := range files {
		path := filepath.Join(convertOutDir, f.Name)
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Println("wrote", path)
	}

	return nil
}

func memoPolicyFromConfig() remap.MemoPolicy {
	switch viper.GetString("iif.memo_policy") {
	case "values":
		return remap.MemoValues
	case "both":
		return remap.MemoBoth
	default:
		return remap.MemoKeys
	}
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&convertFile, "file", "f", "", "Source spreadsheet (.xlsx or .csv)")
	convertCmd.Flags().StringVarP(&convertTemplate, "template", "t", "", "IIF template file")
	convertCmd.Flags().StringVarP(&convertOptions, "mapping", "m", "", "Mapping options JSON file")
	convertCmd.Flags().StringVarP(&convertOutDir, "out", "o", ".", "Output directory")

	convertCmd.MarkFlagRequired("file")
	convertCmd.MarkFlagRequired("template")
	convertCmd.MarkFlagRequired("mapping")
}
