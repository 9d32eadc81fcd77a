// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tomtom215/foodgram/internal/audit"
)

func TestAuditTrail(t *testing.T) {
	s := newTestServer(t)

	user, token := s.register("audited")
	s.do(http.MethodPost, "/api/auth/token/login", "", LoginRequest{Email: user.Email, Password: "wrong-password"})
	s.do(http.MethodPost, "/api/tags", token, TagRequest{Name: "Lunch", Color: "#49b64e", Slug: "lunch"})
	if rec := s.do(http.MethodPost, "/api/auth/token/logout", token, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d", rec.Code)
	}

	admin := s.admin()

	t.Run("admin lists newest first", func(t *testing.T) {
		var events []audit.Event
		env := decodeData(t, s.do(http.MethodGet, "/api/audit/events", admin, nil), http.StatusOK, &events)

		want := []audit.EventType{
			audit.EventTypeLogout,
			audit.EventTypeAuthzDenied,
			audit.EventTypeLoginFailure,
			audit.EventTypeLoginSuccess,
			audit.EventTypeUserCreated,
		}
		if len(events) != len(want) {
			t.Fatalf("got %d events, want %d", len(events), len(want))
		}
		for i, eventType := range want {
			if events[i].Type != eventType {
				t.Errorf("events[%d].Type = %s, want %s", i, events[i].Type, eventType)
			}
		}
		if env.Meta == nil || env.Meta.Pagination == nil || env.Meta.Pagination.Total != len(want) {
			t.Errorf("pagination = %+v, want total %d", env.Meta, len(want))
		}
		if events[1].Target == nil || events[1].Target.ID != "/api/tags" {
			t.Errorf("denied target = %+v, want /api/tags", events[1].Target)
		}
		if !strings.Contains(events[2].Description, "wrong password") {
			t.Errorf("failure description = %q", events[2].Description)
		}
	})

	t.Run("filter by type and outcome", func(t *testing.T) {
		var events []audit.Event
		decodeData(t, s.do(http.MethodGet, "/api/audit/events?outcome=failure&type=auth.failure", admin, nil), http.StatusOK, &events)
		if len(events) != 1 || events[0].Actor.ID != user.Email {
			t.Errorf("events = %+v, want one failure for %s", events, user.Email)
		}
	})

	t.Run("user is forbidden", func(t *testing.T) {
		_, other := s.register("curious")
		expectError(t, s.do(http.MethodGet, "/api/audit/events", other, nil), http.StatusForbidden, ErrCodeForbidden)
	})

	t.Run("guest must log in", func(t *testing.T) {
		expectError(t, s.do(http.MethodGet, "/api/audit/events", "", nil), http.StatusUnauthorized, ErrCodeUnauthorized)
	})
}

func TestAuditTrailDisabled(t *testing.T) {
	t.Parallel()

	h := &Handler{config: testConfig()}
	rec := httptest.NewRecorder()
	h.ListAuditEvents(rec, httptest.NewRequest(http.MethodGet, "/api/audit/events", nil))
	expectError(t, rec, http.StatusServiceUnavailable, ErrCodeServiceUnavailable)
}
