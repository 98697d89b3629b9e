package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{4,20}$`)

// ValidationError represents a validation error on a named field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateUsername checks that a username is 4-20 characters of letters,
// digits and underscores.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ValidationError{Field: "username", Message: "username is required"}
	}
	if !usernameRegex.MatchString(username) {
		return ValidationError{Field: "username", Message: "username must be 4-20 characters of letters, numbers and underscores"}
	}
	return nil
}

// ValidatePassword checks that a password is 8-20 characters and contains an
// upper-case letter, a lower-case letter, a digit and a special character.
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 || len(password) > 20 {
		return ValidationError{Field: "password", Message: "password must be 8-20 characters"}
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return ValidationError{Field: "password", Message: "password must contain upper and lower case letters, a number and a special character"}
	}
	return nil
}

// ValidateMessage checks a chat message body.
func ValidateMessage(content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return ValidationError{Field: "content", Message: "message is required"}
	}
	if len(content) > 500 {
		return ValidationError{Field: "content", Message: "message must be at most 500 characters"}
	}
	return nil
}
