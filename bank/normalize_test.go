package bank

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func chaseRows() [][]string {
	return [][]string{
		{"Details", "Posting Date", "Description", "Amount", "Type", "Balance", "Check or Slip #"},
		{"DEBIT", "01/15/2024", "ORIG CO NAME:AMERICAN EXPRESS ORIG ID:123", "-50.00", "ACH_DEBIT", "950.00", ""},
		{"CREDIT", "01/16/2024", "DIRECT DEPOSIT PAYROLL", "75.00", "ACH_CREDIT", "1025.00", ""},
		{"CHECK", "01/17/2024", "CHECK PAID", "-120.00", "CHECK_PAID", "905.00", "1042"},
	}
}

func TestAddFile_SignConvention(t *testing.T) {
	format, _ := Lookup("chase")
	n := NewNormalizer()
	n.AddFile(format, chaseRows(), "123456_statement.csv")

	txns := n.Transactions()
	assert.Len(t, txns, 3)

	assert.Equal(t, TypeDebit, txns[0].Type)
	assert.Equal(t, "-50.00", txns[0].Amount.StringFixed(2))

	assert.Equal(t, TypeCredit, txns[1].Type)
	assert.Equal(t, "75.00", txns[1].Amount.StringFixed(2))

	assert.Equal(t, TypeCheck, txns[2].Type)
	assert.Equal(t, "1042", txns[2].CheckNum)
}

func TestAddFile_PayeeAndMemo(t *testing.T) {
	format, _ := Lookup("chase")
	n := NewNormalizer()
	n.AddFile(format, chaseRows(), "123456_statement.csv")

	tx := n.Transactions()[0]
	assert.Equal(t, "AMERICAN EXPRESS", tx.Name)
	assert.Equal(t, "ORIG CO NAME:AMERICAN EXPRESS ORIG ID:123", tx.Memo)
}

func TestAddFile_SkipsMalformedRows(t *testing.T) {
	rows := chaseRows()
	rows = append(rows, []string{"DEBIT", "not a date", "BROKEN", "x", "", "", ""})
	format, _ := Lookup("chase")

	n := NewNormalizer()
	n.AddFile(format, rows, "123456.csv")
	assert.Len(t, n.Transactions(), 3)
}

func TestTransactionID_Deterministic(t *testing.T) {
	format, _ := Lookup("chase")

	a := NewNormalizer()
	a.AddFile(format, chaseRows(), "123456.csv")
	b := NewNormalizer()
	b.AddFile(format, chaseRows(), "123456.csv")

	for i := range a.Transactions() {
		assert.Equal(t, a.Transactions()[i].ID, b.Transactions()[i].ID)
	}

	first := a.Transactions()[0].ID
	assert.True(t, strings.HasPrefix(first, "123456"+"1"+"20240115"))
	assert.True(t, strings.HasSuffix(first, "0000"))
}

func TestDeriveAccount(t *testing.T) {
	tests := []struct {
		extracted string
		filename  string
		want      string
	}{
		{"9876-54", "ignored.csv", "987654"},
		{"", "123456_jan.csv", "123456"},
		{"", "statement.csv", "Unknown"},
		{"ACME", "statement.csv", "Unknown"},
	}
	for _, test := range tests {
		got := deriveAccount(test.extracted, test.filename)
		assert.Equal(t, test.want, got)
	}
}

func TestGroupsAndAccounts(t *testing.T) {
	format, _ := Lookup("chase")
	n := NewNormalizer()
	n.AddFile(format, chaseRows(), "111.csv")
	n.AddFile(format, chaseRows(), "222.csv")

	assert.Equal(t, []string{"111", "222"}, n.Accounts())

	groups := n.Groups()
	assert.Len(t, groups["111"], 3)
	assert.Len(t, groups["222"], 3)
}
