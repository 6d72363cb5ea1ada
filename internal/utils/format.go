// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "strconv"

// NormalizePhone reduces a phone number to its canonical digit string used
// for lookups against the record store. All non-digit characters ("+", "-",
// spaces, parentheses) are stripped, and a leading "1" country code is
// dropped from 11-digit NANP numbers so that "+1-416-555-0100",
// "14165550100", and "416-555-0100" all normalize to "4165550100".
func NormalizePhone(phone string) string {
	digits := make([]byte, 0, len(phone))
	for i := 0; i < len(phone); i++ {
		if c := phone[i]; c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	return string(digits)
}

// NormalizeCardNumber strips spaces and dashes from a card number so that
// "4242 4242 4242 4242" and "4242-4242-4242-4242" compare equal to the
// stored 16-digit form. Other characters are preserved so that invalid
// input still fails downstream validation.
func NormalizeCardNumber(cardNumber string) string {
	out := make([]byte, 0, len(cardNumber))
	for i := 0; i < len(cardNumber); i++ {
		switch c := cardNumber[i]; c {
		case ' ', '-':
		default:
			out = append(out, c)
		}
	}
	return string(out)
}

// IsDigits reports whether s is non-empty and consists only of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
