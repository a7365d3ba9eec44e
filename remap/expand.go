package remap

import "slices"

// Row expansion: one wide source row fans out into up to MaxSlots narrow
// target rows. Placement happens per target column in four passes:
// explicit position hints first, then sequential fill of plain values, then
// broadcast of calculated values, then leftovers. Slots poisoned by a
// zero-suppressed value are dropped at the end.

// Record is one fully-materialized target row. Target columns with no value
// for a slot are simply absent.
type Record map[string]Cell

// Expand turns one resolved source row into its target rows. A nil result
// means the whole source row was suppressed.
func (r *Resolver) Expand(res ResolvedRow) []Record {
	if r.suppressRow(res) {
		return nil
	}

	maxSlots := res.MaxSlots()
	if maxSlots == 0 {
		return nil
	}

	type placement struct {
		slots    []Value
		filled   []bool
		occupied []bool
	}

	placements := make(map[string]*placement, len(res))

	for target, values := range res {
		p := &placement{
			slots:    make([]Value, maxSlots),
			filled:   make([]bool, maxSlots),
			occupied: make([]bool, maxSlots),
		}
		placements[target] = p

		pool := make([]bool, len(values)) // consumed flags

		// Pass 1: explicit position hints for value-mapped columns.
		for i, v := range values {
			if v.Label {
				continue
			}
			pos, ok := r.Positions[v.Source]
			if !ok || pos < 1 || pos > maxSlots {
				continue
			}
			if p.occupied[pos-1] {
				continue
			}
			p.slots[pos-1] = v
			p.filled[pos-1] = true
			p.occupied[pos-1] = true
			pool[i] = true
		}

		// Pass 2: sequential fill of non-calculated values (and of
		// Formula-kind columns that are not custom strings).
		slot := 0
		for i, v := range values {
			if pool[i] || !r.sequentialFill(v) {
				continue
			}
			for slot < maxSlots && p.occupied[slot] {
				slot++
			}
			if slot >= maxSlots {
				break
			}
			p.slots[slot] = v
			p.filled[slot] = true
			p.occupied[slot] = true
			pool[i] = true
		}

		// Pass 3: broadcast calculated values into every open slot.
		for i, v := range values {
			if pool[i] || !r.broadcast(v) {
				continue
			}
			for s := 0; s < maxSlots; s++ {
				if p.occupied[s] {
					continue
				}
				p.slots[s] = v
				p.filled[s] = true
				p.occupied[s] = true
			}
			pool[i] = true
		}

		// Pass 4: any leftover values take the remaining open slots in order.
		for i, v := range values {
			if pool[i] {
				continue
			}
			placed := false
			for s := 0; s < maxSlots; s++ {
				if p.occupied[s] {
					continue
				}
				p.slots[s] = v
				p.filled[s] = true
				p.occupied[s] = true
				pool[i] = true
				placed = true
				break
			}
			if !placed {
				break
			}
		}
	}

	// Date propagation: every slot inherits the row's DATE when it has none.
	var rowDate Value
	haveDate := false
	if dates := res[dateColumn]; len(dates) > 0 {
		rowDate = dates[0]
		haveDate = true
	}

	records := make([]Record, 0, maxSlots)
	for s := 0; s < maxSlots; s++ {
		rec := Record{}
		poisoned := false
		for target, p := range placements {
			if !p.filled[s] {
				continue
			}
			if p.slots[s].Zero {
				poisoned = true
				break
			}
			rec[target] = p.slots[s].Cell
		}
		if poisoned {
			continue
		}
		if haveDate && !rowDate.Zero {
			if cell, ok := rec[dateColumn]; !ok || cell.IsEmpty() {
				rec[dateColumn] = rowDate.Cell
			}
		}
		records = append(records, rec)
	}

	return records
}

// suppressRow applies the duplicate-mapping-with-zero rule: a zero-valued
// payload for a target whose mapping duplicates another target's mapping
// suppresses the entire source row.
func (r *Resolver) suppressRow(res ResolvedRow) bool {
	for target, values := range res {
		hasZero := false
		for _, v := range values {
			if v.Zero {
				hasZero = true
				break
			}
		}
		if !hasZero {
			continue
		}
		for _, other := range r.Targets {
			if other == target {
				continue
			}
			if slices.Equal(r.Values[target], r.Values[other]) &&
				slices.Equal(r.Keys[target], r.Keys[other]) {
				return true
			}
		}
	}
	return false
}

// sequentialFill reports whether a value takes part in the left-to-right
// fill pass: anything not calculated, plus Formula-kind columns whose
// formula actually references row data.
func (r *Resolver) sequentialFill(v Value) bool {
	if v.Label {
		return true
	}
	info, ok := r.Table.CalcInfo(v.Source)
	if !ok {
		return true
	}
	return info.Kind == KindFormula && !info.CustomString
}

// broadcast reports whether a value is copied into every open slot: Answer
// columns and custom-string Formula columns carry one per-row scalar that
// applies to all rows the source row expands into.
func (r *Resolver) broadcast(v Value) bool {
	if v.Label {
		return false
	}
	info, ok := r.Table.CalcInfo(v.Source)
	if !ok {
		return false
	}
	return info.Kind == KindAnswer || (info.Kind == KindFormula && info.CustomString)
}
