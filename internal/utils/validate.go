package utils

import (
	"net/mail"
	"strings"
	"unicode"
)

// ValidEmail reports whether the address parses as an RFC 5322 address.
func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// ValidPassword enforces the account password policy: at least eight
// characters with one uppercase letter, one lowercase letter and one digit.
func ValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range password {
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

// ValidUsername requires a trimmed name of at least three characters.
func ValidUsername(username string) bool {
	return len(strings.TrimSpace(username)) >= 3
}
