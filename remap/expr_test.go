package remap

import (
	"testing"
)

func TestEvaluate_Precedence(t *testing.T) {
	result, err := Evaluate("2+3*4", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Number != 14 {
		t.Errorf("Expected 14, got %v", result.Number)
	}
}

func TestEvaluate_Parentheses(t *testing.T) {
	result, err := Evaluate("(2+3)*4", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Number != 20 {
		t.Errorf("Expected 20, got %v", result.Number)
	}
}

func TestEvaluate_UnaryMinus(t *testing.T) {
	result, err := Evaluate("-5+3", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Number != -2 {
		t.Errorf("Expected -2, got %v", result.Number)
	}
}

func TestEvaluate_ColumnSubstitution(t *testing.T) {
	bindings := map[string]Cell{
		"Amount": Number(100),
		"Tax":    Number(8.25),
	}
	result, err := Evaluate("Amount+Tax", bindings)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Number != 108.25 {
		t.Errorf("Expected 108.25, got %v", result.Number)
	}
}

func TestEvaluate_CaseInsensitiveLookup(t *testing.T) {
	bindings := map[string]Cell{"Amount": Number(50)}
	result, err := Evaluate("amount*2", bindings)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Number != 100 {
		t.Errorf("Expected 100, got %v", result.Number)
	}
}

// A column named "col1" must never be substituted inside "col10".
func TestEvaluate_WordBoundarySafety(t *testing.T) {
	bindings := map[string]Cell{
		"col1":  Number(2),
		"col10": Number(100),
	}
	result, err := Evaluate("col1+col10", bindings)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Number != 102 {
		t.Errorf("Expected 102, got %v", result.Number)
	}
}

func TestEvaluate_EmptyCellIsZero(t *testing.T) {
	bindings := map[string]Cell{
		"A": Number(10),
		"B": Text(""),
	}
	result, err := Evaluate("A+B", bindings)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Number != 10 {
		t.Errorf("Expected 10, got %v", result.Number)
	}
}

func TestEvaluate_StringMode(t *testing.T) {
	bindings := map[string]Cell{"Memo": Text("store credit")}
	result, err := Evaluate("Memo+1", bindings)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.IsText {
		t.Fatal("Expected string-mode result")
	}
	if result.Text != "store credit" {
		t.Errorf("Expected 'store credit', got '%s'", result.Text)
	}
}

func TestEvaluate_UnknownToken(t *testing.T) {
	_, err := Evaluate("Missing+1", nil)
	if err == nil {
		t.Fatal("Expected error for unbound token, got nil")
	}
	if _, ok := err.(*SyntaxError); !ok {
		t.Errorf("Expected *SyntaxError, got %T", err)
	}
}

func TestEvaluate_DivisionByZero(t *testing.T) {
	_, err := Evaluate("1/0", nil)
	if err == nil {
		t.Fatal("Expected error for non-finite result, got nil")
	}
	if _, ok := err.(*EvalError); !ok {
		t.Errorf("Expected *EvalError, got %T", err)
	}
}

func TestEvaluate_UnbalancedParen(t *testing.T) {
	_, err := Evaluate("(1+2", nil)
	if err == nil {
		t.Error("Expected error for unbalanced parenthesis, got nil")
	}
}

func TestEvaluate_EmptyFormula(t *testing.T) {
	_, err := Evaluate("   ", nil)
	if err == nil {
		t.Error("Expected error for empty formula, got nil")
	}
}

func TestTokenizeFormula(t *testing.T) {
	tokens := TokenizeFormula("Amount + (Tax*2)")
	expected := []string{"Amount", "+", "(", "Tax", "*", "2", ")"}
	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}
	for i := range expected {
		if tokens[i] != expected[i] {
			t.Errorf("Token %d: expected '%s', got '%s'", i, expected[i], tokens[i])
		}
	}
}
