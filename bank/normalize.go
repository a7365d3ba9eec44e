package bank

import (
	"fmt"
	"log"
	"path/filepath"
	"regexp"
	"strings"
)

// Normalizer applies a bank format's extractor across uploaded rows and
// accumulates canonical transactions, grouped by account. All files of one
// processing run share a single normalizer so the grouping pass merges them.
type Normalizer struct {
	txns  []Transaction
	order []string
	index map[string]bool
}

func NewNormalizer() *Normalizer {
	return &Normalizer{index: map[string]bool{}}
}

var (
	leadingDigits = regexp.MustCompile(`^\d+`)
	nonDigits     = regexp.MustCompile(`\D`)
)

const fallbackAccount = "General_Account"

// AddFile normalizes one uploaded file's raw rows. Malformed rows are
// logged and skipped; they never abort the batch.
func (n *Normalizer) AddFile(format Format, rows [][]string, filename string) {
	start := 0
	if format.HasHeader && len(rows) > 0 {
		start = 1
	}

	for i := start; i < len(rows); i++ {
		fields, err := format.Extract(rows[i])
		if err != nil {
			log.Printf("Warning: %s row %d: %v", filepath.Base(filename), i, err)
			continue
		}

		// Rows carrying no information at all are silently dropped.
		if fields.Date.IsZero() && fields.Amount.IsZero() && fields.Description == "" {
			continue
		}

		account := deriveAccount(fields.Account, filename)

		name, memo := ParsePayee(fields.Description)
		if fields.Memo != "" {
			memo = fields.Memo
		}

		txType := TypeCheck
		if fields.CheckNum == "" {
			if fields.Amount.Sign() >= 0 {
				txType = TypeCredit
			} else {
				txType = TypeDebit
			}
		}

		n.txns = append(n.txns, Transaction{
			ID:       transactionID(account, fields, len(n.txns)),
			Date:     fields.Date,
			Name:     truncate(name, maxNameLen),
			Memo:     truncate(memo, maxMemoLen),
			Amount:   fields.Amount,
			CheckNum: fields.CheckNum,
			Account:  account,
			Type:     txType,
		})

		if !n.index[account] {
			n.index[account] = true
			n.order = append(n.order, account)
		}
	}
}

// Transactions returns every normalized transaction in upload order.
func (n *Normalizer) Transactions() []Transaction {
	return n.txns
}

// Groups partitions the run's transactions by account number, preserving
// upload order within each group.
func (n *Normalizer) Groups() map[string][]Transaction {
	groups := make(map[string][]Transaction, len(n.order))
	for _, tx := range n.txns {
		groups[tx.Account] = append(groups[tx.Account], tx)
	}
	return groups
}

// Accounts lists the account numbers in first-seen order.
func (n *Normalizer) Accounts() []string {
	return n.order
}

// transactionID derives the per-run unique transaction id from the account,
// a literal "1", the date's eight digits, and the zero-padded row index.
// Identical input rows in identical order always produce identical ids;
// re-running the same upload produces colliding ids on purpose, since
// deduplication happens downstream.
func transactionID(account string, fields Fields, index int) string {
	return fmt.Sprintf("%s1%s%04d", account, fields.Date.Format("20060102"), index)
}

// deriveAccount picks the working account number: the extractor's value when
// present, else the source filename's leading digit run, else the fallback
// bucket. Whatever survives is stripped to digits, "Unknown" when none.
func deriveAccount(extracted, filename string) string {
	account := strings.TrimSpace(extracted)
	if account == "" {
		account = leadingDigits.FindString(filepath.Base(filename))
	}
	if account == "" {
		account = fallbackAccount
	}

	digits := nonDigits.ReplaceAllString(account, "")
	if digits == "" {
		return "Unknown"
	}
	return digits
}
