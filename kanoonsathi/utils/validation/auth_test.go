package validation

import (
	"strings"
	"testing"
)

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name            string
		username        string
		password        string
		confirmPassword string
		email           string
		wantErr         string
	}{
		{
			name:     "valid without email",
			username: "subu", password: "secret1", confirmPassword: "secret1",
		},
		{
			name:     "valid with email",
			username: "subu", password: "secret1", confirmPassword: "secret1",
			email: "subu@example.com",
		},
		{
			name:     "minimum username length",
			username: "abc", password: "secret1", confirmPassword: "secret1",
		},
		{
			name:     "empty username",
			username: "  ", password: "secret1", confirmPassword: "secret1",
			wantErr: "Username is required",
		},
		{
			name:     "username too short",
			username: "ab", password: "secret1", confirmPassword: "secret1",
			wantErr: "Username must be between 3 and 50 characters",
		},
		{
			name:     "username too long",
			username: strings.Repeat("a", 51), password: "secret1", confirmPassword: "secret1",
			wantErr: "Username must be between 3 and 50 characters",
		},
		{
			name:     "missing password",
			username: "subu",
			wantErr:  "Password is required",
		},
		{
			name:     "password too short",
			username: "subu", password: "five5", confirmPassword: "five5",
			wantErr: "Password must be at least 6 characters long",
		},
		{
			name:     "confirmation mismatch",
			username: "subu", password: "secret1", confirmPassword: "secret2",
			wantErr: "Passwords do not match",
		},
		{
			name:     "bad email",
			username: "subu", password: "secret1", confirmPassword: "secret1",
			email:   "not-an-email",
			wantErr: "Please enter a valid email address",
		},
		{
			name:     "first failing rule wins",
			username: "ab", password: "x", confirmPassword: "y", email: "bad",
			wantErr: "Username must be between 3 and 50 characters",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistration(tt.username, tt.password, tt.confirmPassword, tt.email)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %q, got nil", tt.wantErr)
			}
			if err.Error() != tt.wantErr {
				t.Errorf("got error %q, want %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateLogin(t *testing.T) {
	if err := ValidateLogin("subu", "pw"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateLogin("", "pw"); err == nil || err.Error() != "Username is required" {
		t.Errorf("got %v, want username error", err)
	}
	if err := ValidateLogin("subu", ""); err == nil || err.Error() != "Password is required" {
		t.Errorf("got %v, want password error", err)
	}
}

func TestValidateProfile(t *testing.T) {
	if err := ValidateProfile("subu", ""); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateProfile("subu", "subu@example.com"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateProfile("ab", ""); err == nil {
		t.Error("expected short username to fail")
	}
	if err := ValidateProfile("subu", "nope"); err == nil {
		t.Error("expected bad email to fail")
	}
}
