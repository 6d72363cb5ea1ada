package airtable

import (
	"strings"
	"testing"
)

func TestEscape(t *testing.T) {
	if got := Escape(`plain`); got != `plain` {
		t.Errorf("got %q", got)
	}
	if got := Escape(`a"b`); got != `a\"b` {
		t.Errorf("got %q", got)
	}
	if got := Escape(`a\b`); got != `a\\b` {
		t.Errorf("got %q", got)
	}
}

func TestEq_EscapesValue(t *testing.T) {
	got := Eq("Name", `Robert" , DROP`)
	if !strings.Contains(got, `\"`) {
		t.Fatalf("quote not escaped: %q", got)
	}
	if got != `{Name} = "Robert\" , DROP"` {
		t.Fatalf("got %q", got)
	}
}

func TestField_RejectsBraces(t *testing.T) {
	if got := Field("Na}me"); got != "{}" {
		t.Fatalf("brace injection not neutralized: %q", got)
	}
	if got := Field("Card Number"); got != "{Card Number}" {
		t.Fatalf("got %q", got)
	}
}

func TestOr(t *testing.T) {
	if got := Or("a = 1"); got != "a = 1" {
		t.Fatalf("single clause altered: %q", got)
	}
	if got := Or("a", "b"); got != "OR(a, b)" {
		t.Fatalf("got %q", got)
	}
}

func TestPhoneEq(t *testing.T) {
	got := PhoneEq("4165550100")
	want := `OR(SUBSTITUTE(Phone, "-", "") = "4165550100", SUBSTITUTE(SUBSTITUTE(Phone, "+", ""), "-", "") = "4165550100")`
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestPhoneContains(t *testing.T) {
	got := PhoneContains(`555"0100`)
	if strings.Contains(got, `"555"0100"`) {
		t.Fatalf("unescaped quote in formula: %q", got)
	}
	if !strings.HasPrefix(got, `FIND("555\"0100"`) {
		t.Fatalf("got %q", got)
	}
}
