// Package bank normalizes heterogeneous per-bank statement exports into one
// canonical transaction model and serializes each account's transactions
// into the OFX-style interchange grammar.
package bank

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types in the interchange output.
const (
	TypeCredit = "CREDIT"
	TypeDebit  = "DEBIT"
	TypeCheck  = "CHECK"
)

// Field length limits applied at normalization time.
const (
	maxNameLen = 32
	maxMemoLen = 255
)

// Transaction is the bank-agnostic normalized transaction record.
type Transaction struct {
	ID       string          `json:"id"`
	Date     time.Time       `json:"date"`
	Name     string          `json:"name"`
	Memo     string          `json:"memo"`
	Amount   decimal.Decimal `json:"amount"`
	CheckNum string          `json:"check_num,omitempty"`
	Account  string          `json:"account"`
	Type     string          `json:"type"`
}

// Fields is the partial tuple a bank format's extractor pulls out of one raw
// row. Zero-valued fields are filled in by the normalizer.
type Fields struct {
	Date        time.Time
	Description string
	Memo        string
	Amount      decimal.Decimal
	CheckNum    string
	Account     string
}

// Format is one entry of the closed bank format registry.
type Format struct {
	Name      string
	HasHeader bool
	Extract   func(row []string) (Fields, error)
}
