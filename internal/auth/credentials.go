package auth

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode"
)

// Credential limits.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MaxEmailLength    = 254
)

// ValidationError names the rule a field violated.
// Messages are safe to show to clients.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

// ValidateUsername checks the 3-20 alphanumeric/underscore rule.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return &ValidationError{Field: "username", Message: "username must be 3-20 alphanumeric characters or underscores"}
	}
	return nil
}

// ValidatePassword enforces length and character class rules.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return &ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	if len(password) > MaxPasswordLength {
		return &ValidationError{Field: "password", Message: "password must be at most 128 characters"}
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}

	if !upper {
		return &ValidationError{Field: "password", Message: "password must contain an uppercase letter"}
	}
	if !lower {
		return &ValidationError{Field: "password", Message: "password must contain a lowercase letter"}
	}
	if !digit {
		return &ValidationError{Field: "password", Message: "password must contain a digit"}
	}
	return nil
}

// ValidateEmail accepts a single bare address such as "alice@example.com".
func ValidateEmail(email string) error {
	invalid := &ValidationError{Field: "email", Message: "email must be a valid address"}

	if email == "" || len(email) > MaxEmailLength {
		return invalid
	}
	if strings.IndexFunc(email, unicode.IsSpace) >= 0 {
		return invalid
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Name != "" || addr.Address != email {
		return invalid
	}

	at := strings.LastIndexByte(email, '@')
	if at <= 0 || !strings.Contains(email[at+1:], ".") {
		return invalid
	}
	return nil
}
