package remap

import (
	"fmt"
	"regexp"
	"time"
)

// dateColumn is the target-schema column carrying transaction dates.
const dateColumn = "DATE"

var canonicalDate = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`)

// Spreadsheet serial day 0 is 1899-12-30; serial 25569 is 1970-01-01.
const serialEpochOffset = 25569

// CanonicalDate converts a spreadsheet date cell into M/D/YYYY display form.
// Strings already in that form pass through unchanged; numeric cells are
// interpreted as spreadsheet date serials. Anything else is returned as-is.
func CanonicalDate(c Cell) string {
	if c.Kind == CellText {
		return c.Text
	}
	if f, ok := c.Float(); ok {
		t := time.Unix(int64((f-serialEpochOffset)*86400), 0).UTC()
		return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
	}
	return c.String()
}

// ParseCanonicalDate parses an M/D/YYYY string into a calendar date for
// comparison. Returns the zero time when the string is not a date.
func ParseCanonicalDate(s string) (time.Time, bool) {
	if !canonicalDate.MatchString(s) {
		return time.Time{}, false
	}
	t, err := time.Parse("1/2/2006", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FillDates forward-fills empty cells in the named column: each row lacking
// a value inherits the most recent non-empty value seen above it. Rows
// before the first dated row are left untouched.
func (t *Table) FillDates(column string) {
	idx := t.Index(column)
	if idx < 0 {
		return
	}

	var last Cell
	haveLast := false
	for _, row := range t.Rows {
		if idx >= len(row) {
			continue
		}
		if !row[idx].IsEmpty() {
			last = row[idx]
			haveLast = true
			continue
		}
		if haveLast {
			row[idx] = last
		}
	}
}

// NormalizeDates rewrites every cell of the named column to canonical
// M/D/YYYY display form.
func (t *Table) NormalizeDates(column string) {
	idx := t.Index(column)
	if idx < 0 {
		return
	}
	for _, row := range t.Rows {
		if idx < len(row) && !row[idx].IsEmpty() {
			row[idx] = Text(CanonicalDate(row[idx]))
		}
	}
}
