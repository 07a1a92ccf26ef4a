package utils

import (
	"regexp"
	"strings"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MinPasswordLength = 6
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// FieldError is a single validation failure, reported per field so a 400
// response can list every failing field at once.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return e.Message
}

// ValidateUsername validates username format.
// Rules: 3-30 characters, letters, numbers, underscores only.
func ValidateUsername(username string) *FieldError {
	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return &FieldError{Field: "username", Message: "Username must be between 3 and 30 characters"}
	}
	if !usernameRegex.MatchString(username) {
		return &FieldError{Field: "username", Message: "Username can only contain letters, numbers, and underscores"}
	}
	return nil
}

// ValidateEmail validates email format.
func ValidateEmail(email string) *FieldError {
	if !emailRegex.MatchString(email) {
		return &FieldError{Field: "email", Message: "Please enter a valid email"}
	}
	return nil
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) *FieldError {
	if len(password) < MinPasswordLength {
		return &FieldError{Field: "password", Message: "Password must be at least 6 characters"}
	}
	return nil
}

// ValidateSignup checks all signup fields and returns every failure, not
// just the first.
func ValidateSignup(username, email, password string) []FieldError {
	var errs []FieldError
	if err := ValidateUsername(username); err != nil {
		errs = append(errs, *err)
	}
	if err := ValidateEmail(email); err != nil {
		errs = append(errs, *err)
	}
	if err := ValidatePassword(password); err != nil {
		errs = append(errs, *err)
	}
	return errs
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
