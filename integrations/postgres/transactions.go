package postgres

import (
	"context"
	"fmt"

	"github.com/amirasyraf/finconv/bank"
	"github.com/jackc/pgx/v5"
)

// SaveTransactions bulk inserts normalized transactions. Duplicates by
// (account_number, fitid) are silently skipped, so re-importing the same
// statement is a no-op.
func (db *DB) SaveTransactions(ctx context.Context, txns []bank.Transaction) (int, error) {
	if len(txns) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, tx := range txns {
		batch.Queue(`
			INSERT INTO transactions (
				account_number, fitid, date, name, memo, amount, check_num, type
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (account_number, fitid) DO NOTHING
		`, tx.Account, tx.ID, tx.Date, tx.Name, tx.Memo, tx.Amount, tx.CheckNum, tx.Type)
	}

	results := db.Pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range txns {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("failed to insert transaction: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}

	return inserted, nil
}

// TransactionsByAccount loads an account's stored transactions in insertion
// order.
func (db *DB) TransactionsByAccount(ctx context.Context, account string) ([]bank.Transaction, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT account_number, fitid, date, name, memo, amount, check_num, type
		FROM transactions
		WHERE account_number = $1
		ORDER BY created_at, fitid
	`, account)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []bank.Transaction
	for rows.Next() {
		var tx bank.Transaction
		if err := rows.Scan(&tx.Account, &tx.ID, &tx.Date, &tx.Name, &tx.Memo,
			&tx.Amount, &tx.CheckNum, &tx.Type); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, tx)
	}

	return txns, rows.Err()
}
