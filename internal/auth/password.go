// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package auth

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordLength is counted in characters.
	MinPasswordLength = 8
	// MaxPasswordLength is counted in characters.
	MaxPasswordLength = 150
	// maxPasswordBytes is the bcrypt input limit.
	maxPasswordBytes = 72
)

// ErrWrongPassword is returned by CheckPassword for a mismatch.
var ErrWrongPassword = errors.New("incorrect password")

// PasswordPolicyError lists every rule a candidate password broke.
type PasswordPolicyError struct {
	Problems []string
}

func (e *PasswordPolicyError) Error() string {
	return strings.Join(e.Problems, " ")
}

// commonPasswords is a short deny-list of the most frequently leaked passwords.
var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "12345678": {}, "123456789": {}, "1234567890": {},
	"qwerty123": {}, "qwertyuiop": {}, "iloveyou": {}, "sunshine": {}, "princess": {},
	"football": {}, "baseball": {}, "welcome1": {}, "admin123": {}, "letmein1": {},
	"11111111": {}, "00000000": {}, "abc12345": {}, "passw0rd": {}, "trustno1": {},
}

// ValidatePassword checks password against the account policy. attrs are the
// user's identifying values (username, email, names); a password containing
// one of them is rejected.
func ValidatePassword(password string, attrs ...string) error {
	var problems []string

	n := utf8.RuneCountInString(password)
	if n < MinPasswordLength {
		problems = append(problems, fmt.Sprintf("Password must contain at least %d characters.", MinPasswordLength))
	}
	if n > MaxPasswordLength {
		problems = append(problems, fmt.Sprintf("Password must contain at most %d characters.", MaxPasswordLength))
	} else if len(password) > maxPasswordBytes {
		problems = append(problems, fmt.Sprintf("Password must be at most %d bytes long.", maxPasswordBytes))
	}

	if _, common := commonPasswords[strings.ToLower(password)]; common {
		problems = append(problems, "Password is too common.")
	}
	if password != "" && strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		problems = append(problems, "Password cannot be entirely numeric.")
	}
	if similarToAttributes(password, attrs) {
		problems = append(problems, "Password is too similar to the account details.")
	}

	if len(problems) > 0 {
		return &PasswordPolicyError{Problems: problems}
	}
	return nil
}

func similarToAttributes(password string, attrs []string) bool {
	lower := strings.ToLower(password)
	for _, attr := range attrs {
		attr = strings.ToLower(attr)
		if local, _, ok := strings.Cut(attr, "@"); ok {
			attr = local
		}
		if utf8.RuneCountInString(attr) < 3 {
			continue
		}
		if strings.Contains(lower, attr) || strings.Contains(attr, lower) {
			return true
		}
	}
	return false
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares password with a bcrypt hash.
func CheckPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrWrongPassword
	}
	if err != nil {
		return fmt.Errorf("failed to compare password: %w", err)
	}
	return nil
}
