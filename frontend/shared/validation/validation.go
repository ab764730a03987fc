// Package validation holds the field checks every form runs before a backend call.
//
// The plain functions return "" for a valid value or the message to show under the input.
// Forms declare their rules as struct tags and are checked with Check.
package validation

import (
	"regexp"
	"strings"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	passwordCharset = regexp.MustCompile(`^[A-Za-z\d@$!%*?&_#]+$`)
	phonePattern    = regexp.MustCompile(`^\+?[1-9]\d{6,14}$`)
)

const passwordSpecials = "@$!%*?&_#"

const MinPasswordLength = 8

// Required fails on empty or whitespace-only values.
func Required(value, label string) string {
	if strings.TrimSpace(value) == "" {
		return label + " is required"
	}
	return ""
}

func Email(value string) string {
	if value == "" {
		return "Email is required"
	}
	if !emailPattern.MatchString(value) {
		return "Please enter a valid email address"
	}
	return ""
}

// Password requires MinPasswordLength characters drawn from letters, digits and
// passwordSpecials, with at least one of each class.
func Password(value string) string {
	if value == "" {
		return "Password is required"
	}
	if len(value) < MinPasswordLength {
		return "Password must be at least 8 characters long"
	}
	if !passwordCharset.MatchString(value) || !hasPasswordClasses(value) {
		return "Password must contain uppercase, lowercase, number, and special character"
	}
	return ""
}

func hasPasswordClasses(value string) bool {
	var lower, upper, digit, special bool
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	return lower && upper && digit && special
}

// Phone is optional. A present value must be international dial shaped: an optional "+",
// a leading 1-9 and 6 to 14 further digits. This is stricter than the backend, which accepts
// 1 to 14 further digits; short values such as "123" or "+14" are rejected here on purpose.
func Phone(value string) string {
	if value == "" {
		return ""
	}
	if !phonePattern.MatchString(value) {
		return "Please enter a valid phone number with country code"
	}
	return ""
}
