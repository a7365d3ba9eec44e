package postgres

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/amirasyraf/finconv/bank"
	"github.com/amirasyraf/finconv/decoder"
)

// ImportResult tracks the outcome of an import operation
type ImportResult struct {
	Processed int
	Inserted  int
	Skipped   int
	Failed    int
	Errors    []string
}

// ImportOptions configures the import behavior
type ImportOptions struct {
	Format  string // bank format registry key
	Verbose bool
}

// ImportFile normalizes a single statement file and stores its transactions.
// Duplicate transactions (by account + fitid) are skipped by the database.
func (db *DB) ImportFile(ctx context.Context, filePath string, opts ImportOptions) (processed, inserted, failed int, errors []string) {
	fileName := filepath.Base(filePath)

	format, ok := bank.Lookup(opts.Format)
	if !ok {
		return 0, 0, 1, []string{fmt.Sprintf("%s: unknown bank format %q", fileName, opts.Format)}
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return 0, 0, 1, []string{fmt.Sprintf("%s: failed to read file: %v", fileName, err)}
	}

	table, err := decoder.Decode(data, fileName)
	if err != nil {
		return 0, 0, 1, []string{fmt.Sprintf("%s: failed to decode: %v", fileName, err)}
	}

	normalizer := bank.NewNormalizer()
	normalizer.AddFile(format, table.RawRows(), fileName)

	txns := normalizer.Transactions()
	if len(txns) == 0 {
		return 0, 0, 1, []string{fmt.Sprintf("%s: no transactions extracted", fileName)}
	}

	count, err := db.SaveTransactions(ctx, txns)
	if err != nil {
		return 0, 0, 1, []string{fmt.Sprintf("%s: save error: %v", fileName, err)}
	}

	if opts.Verbose {
		log.Printf("OK   %s (%d transactions, %d new)", fileName, len(txns), count)
	}
	return 1, count, 0, nil
}

// ImportDirectory processes all statement files in a directory
func (db *DB) ImportDirectory(ctx context.Context, dirPath string, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var dataFiles []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		lower := strings.ToLower(e.Name())
		if strings.HasSuffix(lower, ".csv") || strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".pdf") {
			dataFiles = append(dataFiles, filepath.Join(dirPath, e.Name()))
		}
	}

	log.Printf("Scanning: %s", dirPath)
	log.Printf("Found %d files (CSV/XLSX/PDF)", len(dataFiles))

	for _, filePath := range dataFiles {
		processed, inserted, failed, errors := db.ImportFile(ctx, filePath, opts)

		result.Processed += processed
		result.Inserted += inserted
		result.Failed += failed
		result.Errors = append(result.Errors, errors...)

		if opts.Verbose && failed > 0 {
			for _, errMsg := range errors {
				log.Printf("FAIL %s", errMsg)
			}
		}
	}

	return result, nil
}

// Import handles both file and directory imports
func (db *DB) Import(ctx context.Context, path string, opts ImportOptions) (*ImportResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	if info.IsDir() {
		return db.ImportDirectory(ctx, path, opts)
	}

	result := &ImportResult{}
	processed, inserted, failed, errors := db.ImportFile(ctx, path, opts)

	result.Processed = processed
	result.Inserted = inserted
	result.Failed = failed
	result.Errors = errors

	return result, nil
}
