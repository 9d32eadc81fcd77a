// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"errors"
	"net/http"
	"sync"

	"github.com/tomtom215/foodgram/internal/audit"
	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/database"
	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/metrics"
	"github.com/tomtom215/foodgram/internal/validation"
)

const invalidCredentials = "Unable to log in with provided credentials"

// dummyHash is compared against when the email is unknown, so that a
// missing account costs the same bcrypt round as a wrong password.
var (
	dummyHash     string
	dummyHashOnce sync.Once
)

func compareDummyHash(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = auth.HashPassword("foodgram-login-timing")
	})
	_ = auth.CheckPassword(dummyHash, password)
}

// Login exchanges email and password for a token.
//
// @Summary Obtain a token
// @Description Attempts are throttled per email address.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} APIResponse{data=TokenResponse}
// @Failure 400 {object} APIResponse "Invalid credentials"
// @Failure 429 {object} APIResponse "Too many attempts"
// @Router /auth/token/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondDomainError(w, r, err)
		return
	}
	req.normalize()
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondDomainError(w, r, verr)
		return
	}

	ctx := r.Context()
	rw := NewResponseWriter(w, r)
	src := audit.SourceFromRequest(r)

	if h.throttle != nil && !h.throttle.Allow(req.Email) {
		metrics.LoginAttempts.WithLabelValues("throttled").Inc()
		h.audit.LogLoginThrottled(ctx, req.Email, src)
		logging.Ctx(ctx).Warn().Msg("Login throttled")
		rw.TooManyRequests("Too many login attempts, try again later")
		return
	}

	user, err := h.db.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, database.ErrUserNotFound) {
		compareDummyHash(req.Password)
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		h.audit.LogLoginFailure(ctx, req.Email, src, "unknown email")
		rw.BadRequest(invalidCredentials)
		return
	}
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		h.audit.LogLoginFailure(ctx, req.Email, src, "wrong password")
		logging.Ctx(ctx).Info().Int64("login_user_id", user.ID).Msg("Login failed")
		rw.BadRequest(invalidCredentials)
		return
	}

	token, _, err := h.jwt.GenerateToken(user)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to issue token")
		rw.InternalError("Failed to issue token")
		return
	}
	if h.throttle != nil {
		h.throttle.Reset(req.Email)
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	h.audit.LogLoginSuccess(ctx, user.ID, user.Email, user.Role, src)
	logging.Ctx(ctx).Info().Int64("login_user_id", user.ID).Msg("Login succeeded")
	rw.Success(TokenResponse{AuthToken: token})
}

// Logout revokes the presented token.
//
// @Summary Revoke the current token
// @Tags Auth
// @Security TokenAuth
// @Success 204
// @Failure 401 {object} APIResponse
// @Router /auth/token/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		rw.Unauthorized("Authentication credentials were not provided")
		return
	}
	if h.revocations != nil {
		if err := h.revocations.Revoke(claims.ID, claims.ExpiresAt.Time); err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to revoke token")
			rw.InternalError("Failed to revoke token")
			return
		}
	}

	h.audit.LogLogout(r.Context(), auth.UserIDFromContext(r.Context()), auth.RoleFromContext(r.Context()),
		claims.ID, audit.SourceFromRequest(r))
	logging.Ctx(r.Context()).Info().Msg("Token revoked")
	rw.NoContent()
}
