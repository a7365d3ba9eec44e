package bank

import "testing"

func TestParsePayee_ACHDescription(t *testing.T) {
	desc := "ORIG CO NAME:AMERICAN EXPRESS ORIG ID:1234567890 DESC DATE:240115"
	name, memo := ParsePayee(desc)

	if name != "AMERICAN EXPRESS" {
		t.Errorf("Expected 'AMERICAN EXPRESS', got '%s'", name)
	}
	if memo != desc {
		t.Errorf("Expected memo to carry the full description, got '%s'", memo)
	}
}

func TestParsePayee_TerminatorVariants(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"ORIG CO NAME:ACME PAYROLL DESC DATE:240201 SEC:PPD", "ACME PAYROLL"},
		{"ORIG CO NAME:UTILITY CO CO ENTRY DESCR:BILLPAY", "UTILITY CO"},
		{"ORIG CO NAME:VENDOR LLC CO ENTRY", "VENDOR LLC"},
	}
	for _, test := range tests {
		name, _ := ParsePayee(test.desc)
		if name != test.want {
			t.Errorf("%q: expected '%s', got '%s'", test.desc, test.want, name)
		}
	}
}

func TestParsePayee_NoMarker(t *testing.T) {
	name, memo := ParsePayee("CHECK PAID #1042")
	if name != "CHECK PAID #1042" {
		t.Errorf("Expected raw description as name, got '%s'", name)
	}
	if memo != "CHECK PAID #1042" {
		t.Errorf("Expected raw description as memo, got '%s'", memo)
	}
}

func TestParsePayee_NameTruncatedAt32(t *testing.T) {
	long := "ORIG CO NAME:" + "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789" + " ORIG ID:1"
	name, _ := ParsePayee(long)
	if len(name) != 32 {
		t.Errorf("Expected 32-char name, got %d: '%s'", len(name), name)
	}
}

func TestParsePayee_NoTerminator(t *testing.T) {
	name, _ := ParsePayee("ORIG CO NAME:LONE VENDOR")
	if name != "LONE VENDOR" {
		t.Errorf("Expected 'LONE VENDOR', got '%s'", name)
	}
}
