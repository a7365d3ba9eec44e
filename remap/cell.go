// Package remap implements the generic column-remapping engine: it takes
// rows decoded from an arbitrary source spreadsheet and re-maps them into a
// target schema defined by an IIF template, expanding one wide source row
// into multiple narrow target rows where the mapping calls for it.
package remap

import (
	"strconv"
	"strings"
)

// CellKind discriminates the closed set of cell value types.
type CellKind int

const (
	CellText CellKind = iota
	CellNumber
	CellList
)

// Cell is a single spreadsheet cell value: text, number, or a list of cells.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	List   []Cell
}

func Text(s string) Cell      { return Cell{Kind: CellText, Text: s} }
func Number(f float64) Cell   { return Cell{Kind: CellNumber, Number: f} }
func List(cells ...Cell) Cell { return Cell{Kind: CellList, List: cells} }

// String renders the cell the way it would appear in an output file.
// Numbers drop trailing zeros; lists join their elements with a space.
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellList:
		parts := make([]string, len(c.List))
		for i, el := range c.List {
			parts[i] = el.String()
		}
		return strings.Join(parts, " ")
	default:
		return c.Text
	}
}

// Float reports the numeric value of the cell and whether it has one.
// Text cells are numeric if they parse as a float after trimming.
func (c Cell) Float() (float64, bool) {
	switch c.Kind {
	case CellNumber:
		return c.Number, true
	case CellText:
		f, err := strconv.ParseFloat(strings.TrimSpace(c.Text), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// IsEmpty reports whether the cell carries no value at all.
func (c Cell) IsEmpty() bool {
	switch c.Kind {
	case CellText:
		return strings.TrimSpace(c.Text) == ""
	case CellList:
		return len(c.List) == 0
	}
	return false
}

// IsZero reports whether the cell is numerically zero.
func (c Cell) IsZero() bool {
	f, ok := c.Float()
	return ok && f == 0
}

// Sniff converts a raw string into a Cell, detecting numeric values.
func Sniff(s string) Cell {
	trimmed := strings.TrimSpace(s)
	if trimmed != "" {
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return Number(f)
		}
	}
	return Text(s)
}
