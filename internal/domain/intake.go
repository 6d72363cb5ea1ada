// Intake sequence for new clients.
//
// Inbound SMS replies populate one client field at a time. Which field comes
// next is stored per client in NEXT_FIELD_UPDATE; the transition table below
// is the source of truth for the order and for which pointer values are
// legal. The stored pointer is validated against this table before any write
// happens, so a corrupted pointer can never direct an SMS into an arbitrary
// column.
package domain

// IntakeDone is the pointer value marking a completed intake sequence.
const IntakeDone = "Done"

// intakeOrder is the transition table: each field maps to the field the
// webhook should request next.
var intakeOrder = map[string]string{
	"FirstName":      "LastName",
	"LastName":       "Email",
	"Email":          "Birthday",
	"Birthday":       "PassportNumber",
	"PassportNumber": "Address",
	"Address":        IntakeDone,
}

// IntakeStart is the first field a new client is asked for.
const IntakeStart = "FirstName"

// nameFields are intake fields holding person names; inbound values for
// these are title-cased before being written.
var nameFields = map[string]bool{
	"FirstName": true,
	"LastName":  true,
}

// ValidIntakeField reports whether name is a field the intake sequence is
// allowed to write. IntakeDone is not writable.
func ValidIntakeField(name string) bool {
	_, ok := intakeOrder[name]
	return ok
}

// NextIntakeField returns the field that follows current in the intake
// sequence. The second return value is false when current is not part of
// the sequence (including IntakeDone).
func NextIntakeField(current string) (string, bool) {
	next, ok := intakeOrder[current]
	return next, ok
}

// IsNameField reports whether values written to field should be normalized
// as person names.
func IsNameField(field string) bool {
	return nameFields[field]
}

// IntakeFields returns the writable intake fields in sequence order,
// for error messages and documentation.
func IntakeFields() []string {
	out := make([]string, 0, len(intakeOrder))
	for f := IntakeStart; f != IntakeDone; {
		out = append(out, f)
		next, ok := intakeOrder[f]
		if !ok {
			break
		}
		f = next
	}
	return out
}
