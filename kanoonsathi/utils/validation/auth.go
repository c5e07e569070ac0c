// kanoonsathi/utils/validation/auth.go
//
// Pre-network validation of auth forms. Rules run in order and the first
// violation wins; its message is shown to the user verbatim.
package validation

import (
	"errors"
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidateLogin(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return errors.New("Username is required")
	}
	if password == "" {
		return errors.New("Password is required")
	}
	return nil
}

func ValidateRegistration(username, password, confirmPassword, email string) error {
	if strings.TrimSpace(username) == "" {
		return errors.New("Username is required")
	}
	if len(username) < 3 || len(username) > 50 {
		return errors.New("Username must be between 3 and 50 characters")
	}
	if password == "" {
		return errors.New("Password is required")
	}
	if len(password) < 6 {
		return errors.New("Password must be at least 6 characters long")
	}
	if password != confirmPassword {
		return errors.New("Passwords do not match")
	}
	if email != "" && !emailRe.MatchString(email) {
		return errors.New("Please enter a valid email address")
	}
	return nil
}

func ValidateProfile(username, email string) error {
	if strings.TrimSpace(username) == "" {
		return errors.New("Username is required")
	}
	if len(username) < 3 || len(username) > 50 {
		return errors.New("Username must be between 3 and 50 characters")
	}
	if email != "" && !emailRe.MatchString(email) {
		return errors.New("Please enter a valid email address")
	}
	return nil
}
