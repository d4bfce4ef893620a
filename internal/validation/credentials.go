package validation

import (
	"errors"
	"strings"
)

const minPasswordLength = 6

var (
	ErrEmailRequired    = errors.New("Please enter your email")
	ErrPasswordRequired = errors.New("Please enter your password")
	ErrPasswordMismatch = errors.New("Passwords do not match")
	ErrPasswordTooShort = errors.New("Password must be at least 6 characters long")
)

// ValidateCredentials checks basic presence before a sign-in attempt.
// No email format validation beyond presence; the service owns that.
func ValidateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmailRequired
	}
	if password == "" {
		return ErrPasswordRequired
	}
	return nil
}

// ValidateRegistration applies the local sign-up preconditions. A
// violation fails here, before any network call is made. Mismatch is
// reported before length, matching the order the form checks them.
func ValidateRegistration(email, password, confirm string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmailRequired
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}
