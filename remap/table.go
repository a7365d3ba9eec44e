package remap

import (
	"fmt"
	"strings"
)

// CalcKind distinguishes the two user-facing calculated column flavours.
type CalcKind int

const (
	// KindFormula columns carry the formula itself when it references no
	// source columns (custom string), and evaluate per row otherwise.
	KindFormula CalcKind = iota
	// KindAnswer columns always evaluate the formula to a number per row.
	KindAnswer
)

// CalcInfo records how a calculated column was defined. It persists for the
// lifetime of the table and drives the row expansion engine's broadcast
// behaviour.
type CalcInfo struct {
	Kind         CalcKind
	CustomString bool
	Formula      string
}

// Table is an in-memory source table: an ordered header plus rows of cells.
// Rows always have exactly len(Columns) cells; the decoder is responsible
// for padding or truncating before a Table is built.
type Table struct {
	Columns []string
	Rows    [][]Cell

	calc map[string]CalcInfo
}

// NewTable builds a table from already-typed cells.
func NewTable(columns []string, rows [][]Cell) *Table {
	return &Table{Columns: columns, Rows: rows, calc: map[string]CalcInfo{}}
}

// FromStrings builds a table from decoder output, sniffing numeric cells.
func FromStrings(columns []string, rows [][]string) *Table {
	cells := make([][]Cell, len(rows))
	for i, row := range rows {
		r := make([]Cell, len(columns))
		for j := range columns {
			if j < len(row) {
				r[j] = Sniff(row[j])
			} else {
				r[j] = Text("")
			}
		}
		cells[i] = r
	}
	return NewTable(columns, cells)
}

// Index returns the position of a column, or -1 when absent.
func (t *Table) Index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists (case-insensitive).
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}

// CalcInfo returns the calculated-column record for a column, if any.
func (t *Table) CalcInfo(column string) (CalcInfo, bool) {
	info, ok := t.calc[column]
	return info, ok
}

// IsCalculated reports whether the column was produced by a formula.
func (t *Table) IsCalculated(column string) bool {
	_, ok := t.calc[column]
	return ok
}

// Cell fetches the named column's cell for a row, reporting whether the
// column exists.
func (t *Table) Cell(row []Cell, column string) (Cell, bool) {
	idx := t.Index(column)
	if idx < 0 || idx >= len(row) {
		return Cell{}, false
	}
	return row[idx], true
}

// appendColumn adds a column and its per-row values in lockstep.
func (t *Table) appendColumn(name string, values []Cell) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %q has %d values for %d rows", name, len(values), len(t.Rows))
	}
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], values[i])
	}
	return nil
}
