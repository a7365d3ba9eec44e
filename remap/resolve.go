package remap

// Mapping associates a target column with an ordered list of source columns.
// A value mapping supplies the source columns' row values; a key mapping
// supplies the source columns' names themselves as literal labels.
type Mapping map[string][]string

// Value is one resolved payload element for a target column. Source records
// which source column produced it (empty for labels); Zero marks a value
// suppressed by the non-zero rule, which poisons its slot downstream.
type Value struct {
	Cell   Cell
	Source string
	Label  bool
	Zero   bool
}

// ResolvedRow is one source row resolved into per-target-column payloads.
type ResolvedRow map[string][]Value

// Resolver turns source rows into per-target-column value lists according
// to the configured key/value mappings.
type Resolver struct {
	Table     *Table
	Targets   []string       // target schema columns, in order
	Keys      Mapping        // target -> source columns used as labels
	Values    Mapping        // target -> source columns used as data
	Positions map[string]int // source column -> 1-based expansion slot
	NonZero   map[string]bool
}

// ResolveRow gathers, for each target column, the mapped source values
// followed by the mapped key labels. Dangling references to columns no
// longer in the table resolve to a default, not an error: 0 for calculated
// columns, empty text otherwise.
func (r *Resolver) ResolveRow(row []Cell) ResolvedRow {
	resolved := make(ResolvedRow, len(r.Targets))

	for _, target := range r.Targets {
		var values []Value

		for _, col := range r.Values[target] {
			cell, ok := r.Table.Cell(row, col)
			if !ok {
				if r.Table.IsCalculated(col) {
					cell = Number(0)
				} else {
					cell = Text("")
				}
			}
			v := Value{Cell: cell, Source: col}
			if r.NonZero[col] && cell.IsZero() {
				v.Zero = true
			}
			values = append(values, v)
		}

		for _, col := range r.Keys[target] {
			values = append(values, Value{Cell: Text(col), Source: col, Label: true})
		}

		if len(values) > 0 {
			resolved[target] = values
		}
	}

	return resolved
}

// MaxSlots is the number of target rows the resolved row expands into: the
// longest payload list across all target columns.
func (res ResolvedRow) MaxSlots() int {
	max := 0
	for _, values := range res {
		if len(values) > max {
			max = len(values)
		}
	}
	return max
}
