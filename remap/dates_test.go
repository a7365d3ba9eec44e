package remap

import "testing"

func TestCanonicalDate_TextPassthrough(t *testing.T) {
	got := CanonicalDate(Text("1/5/2024"))
	if got != "1/5/2024" {
		t.Errorf("Expected '1/5/2024', got '%s'", got)
	}
}

func TestCanonicalDate_Serial(t *testing.T) {
	// Spreadsheet serial 45292 is 2024-01-01.
	got := CanonicalDate(Number(45292))
	if got != "1/1/2024" {
		t.Errorf("Expected '1/1/2024', got '%s'", got)
	}
}

func TestCanonicalDate_SerialMidYear(t *testing.T) {
	// 45292 + 181 days lands on 2024-06-30.
	got := CanonicalDate(Number(45473))
	if got != "6/30/2024" {
		t.Errorf("Expected '6/30/2024', got '%s'", got)
	}
}

func TestParseCanonicalDate(t *testing.T) {
	d, ok := ParseCanonicalDate("3/15/2024")
	if !ok {
		t.Fatal("Expected parse to succeed")
	}
	if d.Year() != 2024 || int(d.Month()) != 3 || d.Day() != 15 {
		t.Errorf("Got %v", d)
	}

	if _, ok := ParseCanonicalDate("not a date"); ok {
		t.Error("Expected parse to fail for non-date")
	}
	if _, ok := ParseCanonicalDate("3/15/24"); ok {
		t.Error("Expected parse to fail for two-digit year")
	}
}

func TestFillDates_ForwardFill(t *testing.T) {
	table := NewTable(
		[]string{"DATE", "Amount"},
		[][]Cell{
			{Text(""), Number(1)},
			{Text("1/5/2024"), Number(2)},
			{Text(""), Number(3)},
			{Text(""), Number(4)},
			{Text("1/6/2024"), Number(5)},
			{Text(""), Number(6)},
		},
	)
	table.FillDates("DATE")

	want := []string{"", "1/5/2024", "1/5/2024", "1/5/2024", "1/6/2024", "1/6/2024"}
	for i, w := range want {
		if got := table.Rows[i][0].String(); got != w {
			t.Errorf("Row %d: expected '%s', got '%s'", i, w, got)
		}
	}
}

func TestNormalizeDates(t *testing.T) {
	table := NewTable(
		[]string{"DATE"},
		[][]Cell{
			{Number(45292)},
			{Text("2/10/2024")},
			{Text("")},
		},
	)
	table.NormalizeDates("DATE")

	if got := table.Rows[0][0].String(); got != "1/1/2024" {
		t.Errorf("Expected '1/1/2024', got '%s'", got)
	}
	if got := table.Rows[1][0].String(); got != "2/10/2024" {
		t.Errorf("Expected '2/10/2024', got '%s'", got)
	}
	if !table.Rows[2][0].IsEmpty() {
		t.Error("Expected empty cell to stay empty")
	}
}
