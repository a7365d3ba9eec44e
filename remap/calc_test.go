package remap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func twoRowTable() *Table {
	return NewTable(
		[]string{"DATE", "Sales", "Tax"},
		[][]Cell{
			{Text("1/5/2024"), Number(100), Number(8)},
			{Text("1/6/2024"), Number(200), Number(16)},
		},
	)
}

func TestAddCalculated_Formula(t *testing.T) {
	table := twoRowTable()
	err := table.AddCalculated(CalcSpec{Name: "Total", Formula: "Sales+Tax", Kind: KindFormula})
	assert.NoError(t, err)

	assert.Equal(t, []string{"DATE", "Sales", "Tax", "Total"}, table.Columns)
	assert.Equal(t, "108", table.Rows[0][3].String())
	assert.Equal(t, "216", table.Rows[1][3].String())

	info, ok := table.CalcInfo("Total")
	assert.True(t, ok)
	assert.False(t, info.CustomString)
}

func TestAddCalculated_CustomString(t *testing.T) {
	table := twoRowTable()
	err := table.AddCalculated(CalcSpec{Name: "Class", Formula: "Daily Sales", Kind: KindFormula})
	assert.NoError(t, err)

	// No token matches a column, so the formula text itself is the value.
	assert.Equal(t, "Daily Sales", table.Rows[0][3].String())
	assert.Equal(t, "Daily Sales", table.Rows[1][3].String())

	info, _ := table.CalcInfo("Class")
	assert.True(t, info.CustomString)
}

func TestAddCalculated_Replace(t *testing.T) {
	table := twoRowTable()
	err := table.AddCalculated(CalcSpec{Replace: "Tax", Formula: "Sales/10", Kind: KindAnswer})
	assert.NoError(t, err)

	assert.Equal(t, 3, len(table.Columns))
	assert.Equal(t, "10", table.Rows[0][2].String())
	assert.Equal(t, "20", table.Rows[1][2].String())
}

func TestAddCalculated_ConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		spec CalcSpec
		want error
	}{
		{"both name and replace", CalcSpec{Name: "X", Replace: "Tax", Formula: "1"}, ErrAmbiguousColumn},
		{"neither name nor replace", CalcSpec{Formula: "1"}, ErrMissingInput},
		{"empty formula", CalcSpec{Name: "X", Formula: " "}, ErrMissingInput},
		{"duplicate column", CalcSpec{Name: "Sales", Formula: "1"}, ErrDuplicateColumn},
		{"replace missing column", CalcSpec{Replace: "Nope", Formula: "1"}, ErrMissingInput},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			table := twoRowTable()
			err := table.AddCalculated(test.spec)
			assert.ErrorIs(t, err, test.want)
			// Configuration errors must leave the table untouched.
			assert.Equal(t, 3, len(table.Columns))
		})
	}
}

func TestAddCalculated_RowErrorYieldsZero(t *testing.T) {
	table := NewTable(
		[]string{"Sales"},
		[][]Cell{
			{Number(10)},
			{Number(0)},
		},
	)
	err := table.AddCalculated(CalcSpec{Name: "Ratio", Formula: "Sales/Sales", Kind: KindAnswer})
	assert.NoError(t, err)

	// Row 0 is 1; row 1 divides zero by zero and falls back to 0.
	assert.Equal(t, "1", table.Rows[0][1].String())
	assert.Equal(t, "0", table.Rows[1][1].String())
}
