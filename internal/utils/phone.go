package utils

import "strings"

// NormalizePhone reduces a phone number to its canonical stored form:
// digits only, 10 to 15 of them. A leading + and the usual separators
// (spaces, dashes, dots, parentheses) are dropped. Returns "" when any
// other character appears or the digit count is out of range.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			// country-code prefix, dropped
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
			// separator, dropped
		default:
			return ""
		}
	}
	digits := b.String()
	if len(digits) < 10 || len(digits) > 15 {
		return ""
	}
	return digits
}
