package postgres

import (
	"context"
	"fmt"
)

// Mapping table kinds stored in the mappings table.
const (
	MappingCOA       = "coa"
	MappingBankNames = "bank_names"
	MappingMemo      = "memo"
	MappingCompanies = "companies"
)

// LoadMapping fetches one mapping table by kind.
func (db *DB) LoadMapping(ctx context.Context, kind string) (map[string]string, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT key, value FROM mappings WHERE kind = $1
	`, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to query mappings: %w", err)
	}
	defer rows.Close()

	mapping := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan mapping: %w", err)
		}
		mapping[key] = value
	}

	return mapping, rows.Err()
}

// SaveMapping upserts one entry of a mapping table.
func (db *DB) SaveMapping(ctx context.Context, kind, key, value string) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO mappings (kind, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (kind, key) DO UPDATE SET value = $3, updated_at = NOW()
	`, kind, key, value)
	if err != nil {
		return fmt.Errorf("failed to save mapping: %w", err)
	}
	return nil
}

// SaveFormula upserts a saved calculated-column formula.
func (db *DB) SaveFormula(ctx context.Context, name, formula, kind string) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO formulas (name, formula, kind)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET formula = $2, kind = $3
	`, name, formula, kind)
	if err != nil {
		return fmt.Errorf("failed to save formula: %w", err)
	}
	return nil
}

// ListFormulas returns all saved formulas keyed by name.
func (db *DB) ListFormulas(ctx context.Context) (map[string]string, error) {
	rows, err := db.Pool.Query(ctx, `SELECT name, formula FROM formulas ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query formulas: %w", err)
	}
	defer rows.Close()

	formulas := map[string]string{}
	for rows.Next() {
		var name, formula string
		if err := rows.Scan(&name, &formula); err != nil {
			return nil, fmt.Errorf("failed to scan formula: %w", err)
		}
		formulas[name] = formula
	}

	return formulas, rows.Err()
}
