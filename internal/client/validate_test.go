package client

import "testing"

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  error
	}{
		{"too short", "ab", ErrUsernameTooShort},
		{"exactly four chars", "abcd", nil},
		{"underscore allowed", "dev_user", nil},
		{"digits allowed", "user42", nil},
		{"space rejected", "a user", ErrUsernameInvalid},
		{"tab rejected", "user\tx", ErrUsernameInvalid},
		{"dash rejected", "my-name", ErrUsernameInvalid},
		{"dot rejected", "a.b.c", ErrUsernameInvalid},
		{"unicode rejected", "tëst", ErrUsernameInvalid},
		{"empty", "", ErrUsernameTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateUsername(tt.username); err != tt.wantErr {
				t.Errorf("ValidateUsername(%q) = %v, want %v", tt.username, err, tt.wantErr)
			}
		})
	}
}

func TestValidateNewUser(t *testing.T) {
	if err := ValidateNewUser("alice", "pw1", "pw1"); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
	if err := ValidateNewUser("alice", "pw1", "pw2"); err != ErrPasswordMismatch {
		t.Errorf("mismatched passwords = %v, want ErrPasswordMismatch", err)
	}
	// username rules are checked first
	if err := ValidateNewUser("ab", "x", "x"); err != ErrUsernameTooShort {
		t.Errorf("short username = %v, want ErrUsernameTooShort", err)
	}
}

func TestValidateLocator(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr error
	}{
		{"both set", "submit_btn", "//button[@id='go']", nil},
		{"empty key", "", "//a", ErrLocatorEmpty},
		{"empty value", "link", "", ErrLocatorEmpty},
		{"whitespace only key", "   ", "//a", ErrLocatorEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateLocator(tt.key, tt.value); err != tt.wantErr {
				t.Errorf("ValidateLocator(%q, %q) = %v, want %v", tt.key, tt.value, err, tt.wantErr)
			}
		})
	}
}
