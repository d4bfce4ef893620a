package validation

import (
	"errors"
	"testing"
)

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid", "user@example.com", "secret1", nil},
		{"empty email", "", "secret1", ErrEmailRequired},
		{"whitespace email", "   ", "secret1", ErrEmailRequired},
		{"empty password", "user@example.com", "", ErrPasswordRequired},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateCredentials(tc.email, tc.password)
			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateCredentials() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("ValidateCredentials() = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name     string
		password string
		confirm  string
		wantErr  error
	}{
		{"valid", "abcdef", "abcdef", nil},
		{"mismatch", "abcdef", "abcxyz", ErrPasswordMismatch},
		{"too short", "abcde", "abcde", ErrPasswordTooShort},
		{"exactly six", "sixsix", "sixsix", nil},
		// Mismatch wins over length: the form reports it first.
		{"short and mismatched", "abc", "xyz", ErrPasswordMismatch},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRegistration("user@example.com", tc.password, tc.confirm)
			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateRegistration() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("ValidateRegistration() = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestRegistrationMessages(t *testing.T) {
	if got := ErrPasswordMismatch.Error(); got != "Passwords do not match" {
		t.Errorf("mismatch message = %q", got)
	}
	if got := ErrPasswordTooShort.Error(); got != "Password must be at least 6 characters long" {
		t.Errorf("length message = %q", got)
	}
}
