package remap

import (
	"log"
	"strings"
)

// CalcSpec describes a calculated column to add. Exactly one of Name (a new
// column) or Replace (overwrite an existing column's values) must be set.
type CalcSpec struct {
	Name    string
	Replace string
	Formula string
	Kind    CalcKind
}

// AddCalculated materializes a calculated column across every row of the
// table. Rows whose formula fails to evaluate get 0 and are logged, never
// aborting the batch. Configuration errors are reported before the table is
// touched.
func (t *Table) AddCalculated(spec CalcSpec) error {
	if spec.Name != "" && spec.Replace != "" {
		return ErrAmbiguousColumn
	}
	name := spec.Name
	replace := false
	if name == "" {
		name = spec.Replace
		replace = true
	}
	if name == "" || strings.TrimSpace(spec.Formula) == "" {
		return ErrMissingInput
	}
	if !replace && t.HasColumn(name) {
		return ErrDuplicateColumn
	}
	if replace && !t.HasColumn(name) {
		return ErrMissingInput
	}

	// A formula that references no existing column is a custom string: the
	// formula text itself becomes the value on every row.
	referenced := t.referencedColumns(spec.Formula)
	custom := len(referenced) == 0

	values := make([]Cell, len(t.Rows))
	if custom {
		for i := range values {
			values[i] = Text(spec.Formula)
		}
	} else {
		for i, row := range t.Rows {
			bindings := make(map[string]Cell, len(referenced))
			for _, col := range referenced {
				if cell, ok := t.Cell(row, col); ok {
					bindings[col] = cell
				}
			}

			result, err := Evaluate(spec.Formula, bindings)
			if err != nil {
				log.Printf("Warning: row %d: %v", i, err)
				values[i] = Number(0)
				continue
			}
			if result.IsText {
				values[i] = Text(result.Text)
			} else {
				values[i] = Number(result.Number)
			}
		}
	}

	if replace {
		idx := t.Index(name)
		if idx < 0 {
			// HasColumn matched case-insensitively; resolve the real name.
			for i, c := range t.Columns {
				if strings.EqualFold(c, name) {
					idx = i
					name = c
					break
				}
			}
		}
		for i := range t.Rows {
			t.Rows[i][idx] = values[i]
		}
	} else if err := t.appendColumn(name, values); err != nil {
		return err
	}

	t.calc[name] = CalcInfo{Kind: spec.Kind, CustomString: custom, Formula: spec.Formula}
	return nil
}

// referencedColumns returns the table columns a formula's tokens refer to,
// matched case-insensitively.
func (t *Table) referencedColumns(formula string) []string {
	var cols []string
	seen := map[string]bool{}
	for _, tok := range TokenizeFormula(formula) {
		if isOperator(tok) {
			continue
		}
		for _, col := range t.Columns {
			if strings.EqualFold(col, tok) && !seen[col] {
				cols = append(cols, col)
				seen[col] = true
			}
		}
	}
	return cols
}
