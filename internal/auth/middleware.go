// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/models"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// TokenCookieName is the cookie checked when no Authorization header is sent.
const TokenCookieName = "token"

// ErrorResponder writes an error response. The API package supplies one so
// that middleware errors share the JSON envelope of the handlers.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, status int, code, message string)

// Middleware resolves the caller from a bearer token.
type Middleware struct {
	jwt         *JWTManager
	revocations *RevocationStore
	respond     ErrorResponder
}

// NewMiddleware creates the authentication middleware. revocations may be nil.
func NewMiddleware(jwtManager *JWTManager, revocations *RevocationStore, respond ErrorResponder) *Middleware {
	if respond == nil {
		respond = func(w http.ResponseWriter, _ *http.Request, status int, _, message string) {
			http.Error(w, message, status)
		}
	}
	return &Middleware{jwt: jwtManager, revocations: revocations, respond: respond}
}

// Authenticate attaches the caller's claims to the request context when a
// token is presented. Requests without a token pass through as anonymous;
// requests with an invalid, expired or revoked token are rejected with 401.
// Route access is decided later by the authorization layer.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Rejected token")
			m.respond(w, r, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		if m.revocations != nil {
			revoked, err := m.revocations.IsRevoked(claims.ID)
			if err != nil {
				logging.Ctx(r.Context()).Error().Err(err).Msg("Token revocation check failed")
				m.respond(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Authentication unavailable")
				return
			}
			if revoked {
				m.respond(w, r, http.StatusUnauthorized, "INVALID_TOKEN", "Token has been revoked")
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

// RequireUser rejects anonymous requests with 401.
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ClaimsFromContext(r.Context()); !ok {
			m.respond(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication credentials were not provided")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractToken reads "Authorization: Token <t>" or "Bearer <t>", falling
// back to the token cookie.
func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && (strings.EqualFold(parts[0], "Bearer") || strings.EqualFold(parts[0], "Token")) {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := r.Cookie(TokenCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// ContextWithClaims stores claims in ctx and tags the request logger with
// the user id.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	ctx = context.WithValue(ctx, claimsContextKey, claims)
	return logging.ContextWithUserID(ctx, claims.UserID)
}

// ClaimsFromContext returns the caller's claims, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok && claims != nil
}

// UserIDFromContext returns the caller's id, or 0 for anonymous requests.
func UserIDFromContext(ctx context.Context) int64 {
	if claims, ok := ClaimsFromContext(ctx); ok {
		return claims.UserID
	}
	return 0
}

// RoleFromContext returns the caller's role, or guest for anonymous requests.
func RoleFromContext(ctx context.Context) string {
	if claims, ok := ClaimsFromContext(ctx); ok && claims.Role != "" {
		return claims.Role
	}
	return models.RoleGuest
}
