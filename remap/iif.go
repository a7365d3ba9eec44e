package remap

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// IIF output: expanded rows are partitioned by a designated store column,
// each store's rows sorted by date, and serialized into the tab-delimited
// TRNS/SPL/ENDTRNS interchange grammar under the template's header lines.

const memoColumn = "MEMO"

// Schema is the target schema parsed from an IIF template: the template's
// two leading header lines reproduced verbatim, plus the ordered target
// column names.
type Schema struct {
	Header  []string
	Columns []string
}

// ParseTemplate reads an IIF template. The first line's tab-separated cells
// after the record marker define the target columns; the first two lines are
// kept verbatim for serialization.
func ParseTemplate(text string) (*Schema, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var kept []string
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	if len(kept) < 2 {
		return nil, fmt.Errorf("template needs at least two header lines, got %d", len(kept))
	}

	cells := strings.Split(kept[0], "\t")
	columns := make([]string, 0, len(cells))
	for _, c := range cells {
		c = strings.TrimSpace(c)
		if c == "" || strings.HasPrefix(c, "!") {
			continue
		}
		columns = append(columns, c)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("template header defines no target columns")
	}

	return &Schema{Header: []string{kept[0], kept[1]}, Columns: columns}, nil
}

// MemoPolicy selects how the memo augmentation fragment is chosen.
type MemoPolicy int

const (
	// MemoKeys appends the mapping's literal value.
	MemoKeys MemoPolicy = iota
	// MemoValues treats the mapping's value as a column name and appends
	// that column's value for the row, matched by normalized name.
	MemoValues
	// MemoBoth prefers the Values lookup and falls back to the literal.
	MemoBoth
)

// ExportOptions configures the store-split export.
type ExportOptions struct {
	SplitColumn string // target column whose value partitions output files

	COAColumn string // target column remapped through COAMap
	COAMap    map[string]string

	BankColumn string // target column remapped through BankMap
	BankMap    map[string]string

	MemoColumn string // target column whose value keys MemoMap
	MemoMap    map[string]string
	MemoPolicy MemoPolicy
}

// File is one named output blob, ready for packaging.
type File struct {
	Name    string
	Content string
}

// chunkSize bounds how many source rows are expanded per scheduling chunk.
// Chunking never changes output, it only bounds working-set growth on large
// tables.
const chunkSize = 500

// ExpandAll resolves and expands every source row, preserving row order.
// Each element is the group of target rows one source row produced; fully
// suppressed rows yield no group.
func (r *Resolver) ExpandAll() [][]Record {
	groups := make([][]Record, 0, len(r.Table.Rows))
	for start := 0; start < len(r.Table.Rows); start += chunkSize {
		end := start + chunkSize
		if end > len(r.Table.Rows) {
			end = len(r.Table.Rows)
		}
		for _, row := range r.Table.Rows[start:end] {
			records := r.Expand(r.ResolveRow(row))
			if len(records) > 0 {
				groups = append(groups, records)
			}
		}
	}
	return groups
}

// Preview returns the first limit expanded target rows in source order, for
// display before a full export.
func (r *Resolver) Preview(limit int) []Record {
	var out []Record
	for _, group := range r.ExpandAll() {
		for _, rec := range group {
			if len(out) >= limit {
				return out
			}
			out = append(out, rec)
		}
	}
	return out
}

// Export partitions the expanded rows by store and serializes one IIF file
// per store. The split column must be mapped before anything is generated.
func (r *Resolver) Export(schema *Schema, opts ExportOptions) ([]File, error) {
	if len(r.Values[opts.SplitColumn]) == 0 && len(r.Keys[opts.SplitColumn]) == 0 {
		return nil, ErrUnmappedSplitColumn
	}

	groups := r.ExpandAll()

	// Partition source-row groups by the split column value of their first
	// row; groups move between files as units.
	stores := map[string][][]Record{}
	var order []string
	for _, group := range groups {
		store := group[0][opts.SplitColumn].String()
		if _, ok := stores[store]; !ok {
			order = append(order, store)
		}
		stores[store] = append(stores[store], group)
	}

	files := make([]File, 0, len(order))
	for _, store := range order {
		storeGroups := stores[store]
		sort.SliceStable(storeGroups, func(i, j int) bool {
			return groupDate(storeGroups[i]).Before(groupDate(storeGroups[j]))
		})

		for _, group := range storeGroups {
			for _, rec := range group {
				applyRemaps(rec, opts)
			}
		}

		name := store
		if name == "" {
			name = "unassigned"
		}
		files = append(files, File{
			Name:    sanitizeFileName(name) + ".iif",
			Content: serializeStore(schema, storeGroups),
		})
	}

	return files, nil
}

func groupDate(group []Record) time.Time {
	if d, ok := ParseCanonicalDate(group[0][dateColumn].String()); ok {
		return d
	}
	return time.Time{}
}

// applyRemaps rewrites a record in place: COA and bank-name substitution
// plus the memo augmentation pass, all keyed by normalized lookup.
func applyRemaps(rec Record, opts ExportOptions) {
	if opts.COAColumn != "" {
		if mapped, ok := opts.COAMap[normalizeKey(rec[opts.COAColumn].String())]; ok {
			rec[opts.COAColumn] = Text(mapped)
		}
	}
	if opts.BankColumn != "" {
		if mapped, ok := opts.BankMap[normalizeKey(rec[opts.BankColumn].String())]; ok {
			rec[opts.BankColumn] = Text(mapped)
		}
	}
	if opts.MemoColumn == "" {
		return
	}
	entry, ok := opts.MemoMap[normalizeKey(rec[opts.MemoColumn].String())]
	if !ok {
		return
	}

	fragment := ""
	switch opts.MemoPolicy {
	case MemoKeys:
		fragment = entry
	case MemoValues:
		fragment = lookupByName(rec, entry)
	case MemoBoth:
		fragment = lookupByName(rec, entry)
		if fragment == "" {
			fragment = entry
		}
	}
	if fragment == "" {
		return
	}

	memo := rec[memoColumn].String()
	if memo != "" {
		memo += " "
	}
	rec[memoColumn] = Text(memo + fragment)
}

// lookupByName finds a record column by normalized name match.
func lookupByName(rec Record, name string) string {
	want := normalizeKey(name)
	for col, cell := range rec {
		if normalizeKey(col) == want {
			return cell.String()
		}
	}
	return ""
}

// serializeStore renders one store's groups: the verbatim template headers,
// then a TRNS record at every date boundary with SPL records between, and an
// ENDTRNS marker before each boundary and after the final row.
func serializeStore(schema *Schema, groups [][]Record) string {
	var b strings.Builder
	for _, line := range schema.Header {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	current := ""
	first := true
	for _, group := range groups {
		for _, rec := range group {
			date := rec[dateColumn].String()
			marker := "SPL"
			if first || date != current {
				b.WriteString("ENDTRNS\n")
				marker = "TRNS"
				current = date
				first = false
			}
			b.WriteString(marker)
			for _, col := range schema.Columns {
				b.WriteByte('\t')
				b.WriteString(rec[col].String())
			}
			b.WriteByte('\n')
		}
	}
	if !first {
		b.WriteString("ENDTRNS\n")
	}

	return b.String()
}

// normalizeKey lowercases and strips everything but letters and digits, so
// mapping lookups survive punctuation and spacing differences.
func normalizeKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func sanitizeFileName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, strings.TrimSpace(s))
}
