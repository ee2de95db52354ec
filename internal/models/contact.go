package models

import (
	"strings"
	"unicode"
)

// Contact holds the phone number reports are shared with.
type Contact struct {
	Phone string
}

// IsSet returns true if a phone number is configured.
func (c Contact) IsSet() bool {
	return c.Phone != ""
}

// Masked shows only the last four digits.
func (c Contact) Masked() string {
	if len(c.Phone) <= 4 {
		return c.Phone
	}
	return "..." + c.Phone[len(c.Phone)-4:]
}

// NormalizePhone keeps digits only and strips one leading zero (011 -> 11).
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimPrefix(b.String(), "0")
}
