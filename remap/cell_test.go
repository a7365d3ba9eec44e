package remap

import "testing"

func TestSniff(t *testing.T) {
	tests := []struct {
		in   string
		kind CellKind
	}{
		{"100", CellNumber},
		{" 3.25 ", CellNumber},
		{"-7", CellNumber},
		{"1/5/2024", CellText},
		{"Acme", CellText},
		{"", CellText},
	}
	for _, test := range tests {
		if got := Sniff(test.in).Kind; got != test.kind {
			t.Errorf("Sniff(%q): expected kind %d, got %d", test.in, test.kind, got)
		}
	}
}

func TestCellString(t *testing.T) {
	if got := Number(10.50).String(); got != "10.5" {
		t.Errorf("Expected '10.5', got '%s'", got)
	}
	if got := Number(100).String(); got != "100" {
		t.Errorf("Expected '100', got '%s'", got)
	}
	if got := Text("memo").String(); got != "memo" {
		t.Errorf("Expected 'memo', got '%s'", got)
	}
	if got := List(Text("a"), Number(2)).String(); got != "a 2" {
		t.Errorf("Expected 'a 2', got '%s'", got)
	}
}

func TestCellFloat(t *testing.T) {
	if f, ok := Text(" 42 ").Float(); !ok || f != 42 {
		t.Errorf("Expected 42, got %v (ok=%v)", f, ok)
	}
	if _, ok := Text("n/a").Float(); ok {
		t.Error("Expected non-numeric text to have no float value")
	}
	if _, ok := List(Number(1)).Float(); ok {
		t.Error("Expected list cell to have no float value")
	}
}

func TestCellIsZero(t *testing.T) {
	if !Number(0).IsZero() {
		t.Error("Expected numeric zero to be zero")
	}
	if !Text("0.00").IsZero() {
		t.Error("Expected '0.00' text to be zero")
	}
	if Text("").IsZero() {
		t.Error("Expected empty text not to count as zero")
	}
	if Number(0.01).IsZero() {
		t.Error("Expected 0.01 not to be zero")
	}
}

func TestCellIsEmpty(t *testing.T) {
	if !Text("  ").IsEmpty() {
		t.Error("Expected whitespace text to be empty")
	}
	if Number(0).IsEmpty() {
		t.Error("Expected numeric zero not to be empty")
	}
	if !List().IsEmpty() {
		t.Error("Expected empty list to be empty")
	}
}
