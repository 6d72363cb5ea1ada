// Formula construction for record filtering.
//
// The record store's query language is a formula string; it offers no
// parameterized filters, so every lookup interpolates values into the
// formula text. The helpers here are the only sanctioned way to build
// formulas: values pass through Escape, field references are validated,
// and callers compose the result instead of concatenating strings.
package airtable

import (
	"fmt"
	"strings"
)

// Escape returns s with embedded double quotes and backslashes escaped so
// it can be interpolated into a quoted formula literal. Formula strings use
// backslash escaping inside double quotes.
func Escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}

// Field wraps a field name in braces for use inside a formula. Names
// containing braces are rejected at build time by returning a reference to
// a field that cannot exist, which makes the lookup match nothing instead
// of corrupting the formula.
func Field(name string) string {
	if strings.ContainsAny(name, "{}") {
		return "{}"
	}
	return "{" + name + "}"
}

// Eq builds an exact string equality check: {Field} = "value".
func Eq(field, value string) string {
	return fmt.Sprintf(`%s = "%s"`, Field(field), Escape(value))
}

// Or joins clauses with OR(...). A single clause is returned unchanged.
func Or(clauses ...string) string {
	if len(clauses) == 1 {
		return clauses[0]
	}
	return "OR(" + strings.Join(clauses, ", ") + ")"
}

// PhoneEq matches records whose Phone field equals the given digit string
// after stripping "-" and "+" separators on the store side. Phone numbers
// are entered inconsistently ("+1-416...", "416-555-...") so plain equality
// on the raw column is unreliable.
func PhoneEq(digits string) string {
	d := Escape(digits)
	return Or(
		fmt.Sprintf(`SUBSTITUTE(Phone, "-", "") = "%s"`, d),
		fmt.Sprintf(`SUBSTITUTE(SUBSTITUTE(Phone, "+", ""), "-", "") = "%s"`, d),
	)
}

// PhoneContains matches records whose separator-stripped Phone field
// contains the given digit string. Used for operator lookups where only a
// suffix of the number is known.
func PhoneContains(digits string) string {
	return fmt.Sprintf(`FIND("%s", SUBSTITUTE(SUBSTITUTE(Phone, "+", ""), "-", "")) > 0`, Escape(digits))
}
