// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package authz

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func setupEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	e, err := NewEnforcer(EnforcerConfig{})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	return e
}

func assertEnforce(t *testing.T, e *Enforcer, role, path, method string, want bool) {
	t.Helper()
	got, err := e.Enforce(role, path, method)
	if err != nil {
		t.Fatalf("Enforce(%s, %s, %s) error = %v", role, path, method, err)
	}
	if got != want {
		t.Errorf("Enforce(%s, %s, %s) = %v, want %v", role, path, method, got, want)
	}
}

func TestEmbeddedPolicy(t *testing.T) {
	t.Parallel()

	e := setupEnforcer(t)

	tests := []struct {
		role, path, method string
		want               bool
	}{
		{"guest", "/api/recipes", "GET", true},
		{"guest", "/api/recipes/12", "GET", true},
		{"guest", "/api/recipes", "POST", false},
		{"guest", "/api/users", "POST", true},
		{"guest", "/api/users/3", "GET", true},
		{"guest", "/api/users/me", "GET", false},
		{"guest", "/api/auth/token/login", "POST", true},
		{"guest", "/api/recipes/download_shopping_cart", "GET", false},
		{"guest", "/api/recipes/5/favorite", "POST", false},

		{"user", "/api/recipes", "GET", true},
		{"user", "/api/recipes", "POST", true},
		{"user", "/api/recipes/5", "PATCH", true},
		{"user", "/api/recipes/5", "DELETE", true},
		{"user", "/api/recipes/5/favorite", "POST", true},
		{"user", "/api/recipes/5/shopping_cart", "DELETE", true},
		{"user", "/api/recipes/5/other", "POST", false},
		{"user", "/api/users/me", "GET", true},
		{"user", "/api/users/9/subscribe", "POST", true},
		{"user", "/api/recipes/download_shopping_cart", "GET", true},
		{"user", "/api/tags", "POST", false},
		{"user", "/api/ingredients", "POST", false},

		{"admin", "/api/tags", "POST", true},
		{"admin", "/api/ingredients", "POST", true},
		{"admin", "/api/recipes/5/favorite", "POST", true},
		{"admin", "/api/tags/1", "GET", true},

		{"stranger", "/api/recipes", "GET", false},
	}

	for _, tt := range tests {
		t.Run(tt.role+" "+tt.method+" "+tt.path, func(t *testing.T) {
			t.Parallel()
			assertEnforce(t, e, tt.role, tt.path, tt.method, tt.want)
		})
	}
}

func TestEnforceUsesCache(t *testing.T) {
	t.Parallel()

	e := setupEnforcer(t)
	assertEnforce(t, e, "guest", "/api/tags", "GET", true)
	assertEnforce(t, e, "guest", "/api/tags", "GET", true)
	if n := e.cache.len(); n != 1 {
		t.Errorf("cache len = %d, want 1", n)
	}
}

func TestReloadWithoutFile(t *testing.T) {
	t.Parallel()

	e := setupEnforcer(t)
	if err := e.Reload(); !errors.Is(err, ErrNoAdapter) {
		t.Errorf("Reload() = %v, want ErrNoAdapter", err)
	}
	if len(e.Policy()) == 0 {
		t.Error("embedded policy is empty")
	}
}

func TestPolicyFileAndReload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "policy.csv")
	write := func(content string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	write("p, guest, ^/api/recipes$, ^GET$\n")
	e, err := NewEnforcer(EnforcerConfig{PolicyPath: path})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	assertEnforce(t, e, "guest", "/api/recipes", "GET", true)
	assertEnforce(t, e, "guest", "/api/tags", "GET", false)

	write("p, guest, ^/api/tags$, ^GET$\n")
	if err := e.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	assertEnforce(t, e, "guest", "/api/recipes", "GET", false)
	assertEnforce(t, e, "guest", "/api/tags", "GET", true)
}

func TestMissingPolicyFileFallsBack(t *testing.T) {
	t.Parallel()

	e, err := NewEnforcer(EnforcerConfig{PolicyPath: filepath.Join(t.TempDir(), "absent.csv")})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	assertEnforce(t, e, "admin", "/api/tags", "POST", true)
	if err := e.Reload(); !errors.Is(err, ErrNoAdapter) {
		t.Errorf("Reload() = %v, want ErrNoAdapter", err)
	}
}
