package domain

import "testing"

func TestNextIntakeField_Sequence(t *testing.T) {
	want := []string{"FirstName", "LastName", "Email", "Birthday", "PassportNumber", "Address"}
	got := IntakeFields()
	if len(got) != len(want) {
		t.Fatalf("IntakeFields = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("IntakeFields[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// Walk the chain; the last field transitions to Done.
	cur := IntakeStart
	for i := 0; i < len(want)-1; i++ {
		next, ok := NextIntakeField(cur)
		if !ok {
			t.Fatalf("no transition from %q", cur)
		}
		cur = next
	}
	next, ok := NextIntakeField(cur)
	if !ok || next != IntakeDone {
		t.Fatalf("expected %q -> Done, got %q ok=%v", cur, next, ok)
	}
}

func TestValidIntakeField(t *testing.T) {
	if !ValidIntakeField("Email") {
		t.Error("Email should be writable")
	}
	if ValidIntakeField(IntakeDone) {
		t.Error("Done is not writable")
	}
	if ValidIntakeField("DROP TABLE") {
		t.Error("unknown pointer values must be rejected")
	}
}

func TestIsNameField(t *testing.T) {
	if !IsNameField("FirstName") || !IsNameField("LastName") {
		t.Error("name fields misclassified")
	}
	if IsNameField("Email") {
		t.Error("Email is not a name field")
	}
}

func TestEnumValidators(t *testing.T) {
	for _, s := range CardStatuses() {
		if !ValidCardStatus(s) {
			t.Errorf("status %q should validate", s)
		}
	}
	if ValidCardStatus("active") {
		t.Error("status check must be case-sensitive (store enums are exact)")
	}
	for _, s := range CardTypes() {
		if !ValidCardType(s) {
			t.Errorf("type %q should validate", s)
		}
	}
	if ValidCardType("Prepaid") {
		t.Error("unknown card type accepted")
	}
	for _, s := range CallTypes() {
		if !ValidCallType(s) {
			t.Errorf("call type %q should validate", s)
		}
	}
	if ValidCallType("Chat") {
		t.Error("unknown call type accepted")
	}
}
