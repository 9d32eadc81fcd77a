// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		attrs    []string
		wantErr  string
	}{
		{"acceptable", "Borscht-with-dill", []string{"cook", "cook@example.com"}, ""},
		{"too short", "Ab1!x", nil, "at least 8"},
		{"too many characters", strings.Repeat("ж", MaxPasswordLength+1), nil, "at most 150"},
		{"too many bytes", strings.Repeat("ж", 40), nil, "72 bytes"},
		{"common", "Password1", nil, "too common"},
		{"numeric", "918273645", nil, "entirely numeric"},
		{"contains username", "chefmaster99", []string{"chefmaster"}, "too similar"},
		{"contains email local part", "xx-cook.smith-xx", []string{"cook.smith@example.com"}, "too similar"},
		{"short attribute ignored", "Yellow-onion-soup", []string{"on"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidatePassword(tt.password, tt.attrs...)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidatePassword() unexpected error: %v", err)
				}
				return
			}
			var policyErr *PasswordPolicyError
			if !errors.As(err, &policyErr) {
				t.Fatalf("ValidatePassword() error = %v, want *PasswordPolicyError", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidatePassword() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("Borscht-with-dill")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "Borscht-with-dill" {
		t.Fatal("hash equals the plain password")
	}

	if err := CheckPassword(hash, "Borscht-with-dill"); err != nil {
		t.Errorf("CheckPassword(correct) = %v", err)
	}
	if err := CheckPassword(hash, "borscht-with-dill"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("CheckPassword(wrong) = %v, want ErrWrongPassword", err)
	}
	if err := CheckPassword("not-a-hash", "x"); err == nil || errors.Is(err, ErrWrongPassword) {
		t.Errorf("CheckPassword(bad hash) = %v, want a non-mismatch error", err)
	}
}
