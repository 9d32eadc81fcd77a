// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package authz

import (
	"net/http"
	"strings"

	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/metrics"
	"github.com/tomtom215/foodgram/internal/models"
)

// RouteMatcher reports whether a route exists for method and path.
// Requests for unknown routes skip authorization so the router can answer
// 404 or 405.
type RouteMatcher func(method, path string) bool

// DenyHook observes requests refused by the policy.
type DenyHook func(r *http.Request, role string)

// Middleware enforces the route policy for the caller's role.
type Middleware struct {
	enforcer *Enforcer
	match    RouteMatcher
	respond  auth.ErrorResponder
	onDeny   DenyHook
}

// NewMiddleware creates the authorization middleware. match may be nil, in
// which case every request is authorized.
func NewMiddleware(enforcer *Enforcer, match RouteMatcher, respond auth.ErrorResponder) *Middleware {
	if respond == nil {
		respond = func(w http.ResponseWriter, _ *http.Request, status int, _, message string) {
			http.Error(w, message, status)
		}
	}
	return &Middleware{enforcer: enforcer, match: match, respond: respond}
}

// OnDeny registers fn to be called for every denied request.
func (m *Middleware) OnDeny(fn DenyHook) *Middleware {
	m.onDeny = fn
	return m
}

// Authorize must run after auth.Middleware.Authenticate. A guest denied
// access gets 401 so the client knows to log in; an authenticated caller
// gets 403.
func (m *Middleware) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		path := normalizePath(r.URL.Path)
		method := r.Method
		if method == http.MethodHead {
			method = http.MethodGet
		}
		if m.match != nil && !m.match(r.Method, path) {
			next.ServeHTTP(w, r)
			return
		}

		role := auth.RoleFromContext(r.Context())
		allowed, err := m.enforcer.Enforce(role, path, method)
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Authorization error")
			m.respond(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
			return
		}

		if !allowed {
			metrics.AuthzDecisions.WithLabelValues(role, "deny").Inc()
			if m.onDeny != nil {
				m.onDeny(r, role)
			}
			if role == models.RoleGuest {
				m.respond(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication credentials were not provided")
				return
			}
			m.respond(w, r, http.StatusForbidden, "FORBIDDEN", "You do not have permission to perform this action")
			return
		}

		metrics.AuthzDecisions.WithLabelValues(role, "allow").Inc()
		next.ServeHTTP(w, r)
	})
}

func normalizePath(path string) string {
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}
