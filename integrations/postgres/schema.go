package postgres

import (
	"context"
	"fmt"
)

const ddl = `
-- Normalized bank transactions, keyed by the derived FITID per account
CREATE TABLE IF NOT EXISTS transactions (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    account_number VARCHAR(50) NOT NULL,
    fitid VARCHAR(100) NOT NULL,
    date DATE NOT NULL,
    name VARCHAR(32) NOT NULL,
    memo VARCHAR(255) NOT NULL DEFAULT '',
    amount NUMERIC(18,2) NOT NULL,
    check_num VARCHAR(50) DEFAULT '',
    type VARCHAR(10) NOT NULL,
    created_at TIMESTAMPTZ DEFAULT NOW(),

    -- Natural key for deduplication across repeated uploads
    UNIQUE(account_number, fitid)
);

-- User-maintained mapping tables: COA names, bank names, memo fragments,
-- company names for output file naming
CREATE TABLE IF NOT EXISTS mappings (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    kind VARCHAR(30) NOT NULL,
    key VARCHAR(255) NOT NULL,
    value VARCHAR(255) NOT NULL,
    updated_at TIMESTAMPTZ DEFAULT NOW(),

    UNIQUE(kind, key)
);

-- Saved calculated-column formulas
CREATE TABLE IF NOT EXISTS formulas (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name VARCHAR(255) NOT NULL,
    formula TEXT NOT NULL,
    kind VARCHAR(10) NOT NULL DEFAULT 'formula',
    created_at TIMESTAMPTZ DEFAULT NOW(),

    UNIQUE(name)
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions(account_number);
CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
CREATE INDEX IF NOT EXISTS idx_mappings_kind ON mappings(kind);
`

// migrateDDL adds columns introduced after the initial schema
const migrateDDL = `
-- Add check_num column if not exists
DO $$ BEGIN
    IF NOT EXISTS (SELECT 1 FROM information_schema.columns
                   WHERE table_name = 'transactions' AND column_name = 'check_num') THEN
        ALTER TABLE transactions ADD COLUMN check_num VARCHAR(50) DEFAULT '';
    END IF;
END $$;

-- Add kind column to formulas if not exists
DO $$ BEGIN
    IF NOT EXISTS (SELECT 1 FROM information_schema.columns
                   WHERE table_name = 'formulas' AND column_name = 'kind') THEN
        ALTER TABLE formulas ADD COLUMN kind VARCHAR(10) NOT NULL DEFAULT 'formula';
    END IF;
END $$;
`

// EnsureSchema creates tables if they don't exist and runs migrations
func (db *DB) EnsureSchema(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, ddl)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// Run migrations for existing tables
	_, err = db.Pool.Exec(ctx, migrateDDL)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
