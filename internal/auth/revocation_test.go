// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package auth

import (
	"testing"
	"time"
)

func newTestRevocationStore(t *testing.T, path string) *RevocationStore {
	t.Helper()
	s, err := OpenRevocationStore(path)
	if err != nil {
		t.Fatalf("OpenRevocationStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRevocationStore(t *testing.T) {
	t.Parallel()

	s := newTestRevocationStore(t, "")

	revoked, err := s.IsRevoked("jti-1")
	if err != nil || revoked {
		t.Fatalf("IsRevoked(unknown) = %v, %v", revoked, err)
	}

	if err := s.Revoke("jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	revoked, err = s.IsRevoked("jti-1")
	if err != nil || !revoked {
		t.Errorf("IsRevoked(revoked) = %v, %v", revoked, err)
	}

	if revoked, _ := s.IsRevoked("jti-2"); revoked {
		t.Error("unrelated jti reported as revoked")
	}
}

func TestRevokeExpiredTokenIsNoop(t *testing.T) {
	t.Parallel()

	s := newTestRevocationStore(t, "")
	if err := s.Revoke("old", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if revoked, _ := s.IsRevoked("old"); revoked {
		t.Error("an already expired token should not be stored")
	}
	if err := s.Revoke("", time.Now().Add(time.Hour)); err == nil {
		t.Error("Revoke with empty jti should fail")
	}
}

func TestRevocationSurvivesReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, err := OpenRevocationStore(dir)
	if err != nil {
		t.Fatalf("OpenRevocationStore: %v", err)
	}
	if err := s.Revoke("persisted", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := newTestRevocationStore(t, dir)
	if revoked, err := reopened.IsRevoked("persisted"); err != nil || !revoked {
		t.Errorf("IsRevoked after reopen = %v, %v", revoked, err)
	}
}
