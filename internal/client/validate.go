package client

import (
	"errors"
	"strings"
	"unicode"
)

// Form validation applied before any request leaves the process. A
// validation failure means zero HTTP calls were made.

var (
	ErrUsernameTooShort = errors.New("username must be at least 4 characters")
	ErrUsernameInvalid  = errors.New("username may only contain letters, digits and underscores")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrLocatorEmpty     = errors.New("locator key and value are required")
)

// ValidateUsername rejects usernames shorter than 4 characters, containing
// whitespace, or containing anything outside [A-Za-z0-9_].
func ValidateUsername(name string) error {
	if len(name) < 4 {
		return ErrUsernameTooShort
	}
	for _, r := range name {
		if unicode.IsSpace(r) {
			return ErrUsernameInvalid
		}
		ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '_'
		if !ok {
			return ErrUsernameInvalid
		}
	}
	return nil
}

// ValidateNewUser gates CreateUser submission: username rules plus the
// password confirmation match.
func ValidateNewUser(username, password, confirm string) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}

// ValidateLocator gates locator creation: both key and value must be
// non-empty after trimming.
func ValidateLocator(key, value string) error {
	if strings.TrimSpace(key) == "" || strings.TrimSpace(value) == "" {
		return ErrLocatorEmpty
	}
	return nil
}
