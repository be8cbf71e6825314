// Package policy holds the account validation rules as pure predicates,
// kept out of the request handlers so they can be tested on their own.
package policy

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrWeakPassword = errors.New("password too weak")
)

// Only Gmail addresses are accepted. Case-sensitive, no second @ allowed.
var emailPattern = regexp.MustCompile(`^[^@]+@gmail\.com$`)

const specialChars = `!@#$%^&*(),.?":{}|<>`

// ValidateEmail reports whether email is an acceptable account address.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword enforces the minimum password strength: at least 6
// characters, one uppercase ASCII letter and one special character.
// There is deliberately no lowercase, digit or maximum-length rule.
// Length is counted in characters, not bytes.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < 6 {
		return ErrWeakPassword
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		return ErrWeakPassword
	}
	if !strings.ContainsAny(password, specialChars) {
		return ErrWeakPassword
	}
	return nil
}
