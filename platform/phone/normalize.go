// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "MX"

// CanonicalDigits is the length of a canonical national phone number.
const CanonicalDigits = 10

// Normalize reduces a free-form phone input to the canonical 10-digit national
// form used as the customer lookup key. Inputs carrying a country prefix are
// parsed first so that "+52 55 1234 5678" and "5512345678" normalize to the
// same value; otherwise all non-digits are stripped and the last 10 digits
// kept.
func Normalize(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}

	if number, err := phonenumbers.Parse(trimmed, defaultRegion); err == nil && phonenumbers.IsValidNumber(number) {
		return lastDigits(phonenumbers.GetNationalSignificantNumber(number))
	}

	return lastDigits(trimmed)
}

// IsCanonical reports whether value is exactly 10 ASCII digits.
func IsCanonical(value string) bool {
	if len(value) != CanonicalDigits {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}

func lastDigits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > CanonicalDigits {
		return digits[len(digits)-CanonicalDigits:]
	}
	return digits
}
