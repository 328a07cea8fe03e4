package util

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinPasswordLength is the minimum number of characters ValidatePassword accepts.
const MinPasswordLength = 8

// ValidatePassword reports whether s has at least MinPasswordLength characters
// and contains an uppercase letter, a lowercase letter and a digit.
func ValidatePassword(s string) bool {
	if utf8.RuneCountInString(s) < MinPasswordLength {
		return false
	}
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

// IsValidEmail is a shape check, not an RFC 5322 validator: exactly one '@',
// non-empty local and domain parts, and a '.' somewhere in the domain.
func IsValidEmail(s string) bool {
	if strings.Count(s, "@") != 1 {
		return false
	}
	local, domain, _ := strings.Cut(s, "@")
	if local == "" || domain == "" {
		return false
	}
	return strings.Contains(domain, ".")
}
