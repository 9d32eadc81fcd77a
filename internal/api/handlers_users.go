// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"net/http"

	"github.com/tomtom215/foodgram/internal/audit"
	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/models"
	"github.com/tomtom215/foodgram/internal/validation"
)

// CreateUser registers an account.
//
// @Summary Register a user
// @Tags Users
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "New account"
// @Success 201 {object} APIResponse{data=models.User}
// @Failure 400 {object} APIResponse "Validation failed or email/username taken"
// @Router /users [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondDomainError(w, r, err)
		return
	}
	req.normalize()
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondDomainError(w, r, verr)
		return
	}
	if err := auth.ValidatePassword(req.Password, req.Email, req.Username, req.FirstName, req.LastName); err != nil {
		respondDomainError(w, r, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		NewResponseWriter(w, r).InternalError("Failed to hash password")
		return
	}

	user, err := h.db.CreateUser(r.Context(), models.NewUser{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		Role:         models.RoleUser,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	h.audit.LogUserCreated(r.Context(), user.ID, user.Email, audit.SourceFromRequest(r))
	logging.Ctx(r.Context()).Info().Int64("new_user_id", user.ID).Msg("User registered")
	NewResponseWriter(w, r).Created(user)
}

// ListUsers returns a page of users annotated with is_subscribed.
//
// @Summary List users
// @Tags Users
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size"
// @Success 200 {object} APIResponse{data=[]models.User}
// @Router /users [get]
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	p := parsePage(r, h.config.API)
	users, total, err := h.db.ListUsers(r.Context(), auth.UserIDFromContext(r.Context()), p.Limit, p.Offset())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	NewResponseWriter(w, r).SuccessWithPagination(users, p.Meta(total, len(users)))
}

// GetUser returns one user.
//
// @Summary Get a user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} APIResponse{data=models.User}
// @Failure 404 {object} APIResponse
// @Router /users/{id} [get]
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		NewResponseWriter(w, r).NotFound("user not found")
		return
	}
	user, err := h.db.GetUserByID(r.Context(), auth.UserIDFromContext(r.Context()), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(user)
}

// Me returns the authenticated user.
//
// @Summary Current user
// @Tags Users
// @Produce json
// @Security TokenAuth
// @Success 200 {object} APIResponse{data=models.User}
// @Failure 401 {object} APIResponse
// @Router /users/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserIDFromContext(r.Context())
	user, err := h.db.GetUserByID(r.Context(), uid, uid)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(user)
}

// SetPassword changes the password of the authenticated user.
//
// @Summary Change password
// @Tags Users
// @Accept json
// @Security TokenAuth
// @Param body body SetPasswordRequest true "Current and new password"
// @Success 204
// @Failure 400 {object} APIResponse
// @Router /users/set_password [post]
func (h *Handler) SetPassword(w http.ResponseWriter, r *http.Request) {
	var req SetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondDomainError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondDomainError(w, r, verr)
		return
	}

	ctx := r.Context()
	uid := auth.UserIDFromContext(ctx)
	user, err := h.db.GetUserByID(ctx, uid, uid)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.CurrentPassword); err != nil {
		h.audit.LogPasswordChanged(ctx, uid, user.Role, audit.SourceFromRequest(r), false)
		respondDomainError(w, r, err)
		return
	}
	if err := auth.ValidatePassword(req.NewPassword, user.Email, user.Username, user.FirstName, user.LastName); err != nil {
		respondDomainError(w, r, err)
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		NewResponseWriter(w, r).InternalError("Failed to hash password")
		return
	}
	if err := h.db.SetPassword(ctx, uid, hash); err != nil {
		respondDomainError(w, r, err)
		return
	}

	h.audit.LogPasswordChanged(ctx, uid, user.Role, audit.SourceFromRequest(r), true)
	logging.Ctx(ctx).Info().Msg("Password changed")
	NewResponseWriter(w, r).NoContent()
}
