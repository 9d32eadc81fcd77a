// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"net/http"

	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/events"
)

// ListSubscriptions returns a page of the authors the caller follows.
//
// @Summary List subscriptions
// @Tags Subscriptions
// @Produce json
// @Security TokenAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size"
// @Param recipes_limit query int false "Recipes per author, all when omitted"
// @Success 200 {object} APIResponse{data=[]models.Subscription}
// @Router /users/subscriptions [get]
func (h *Handler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	p := parsePage(r, h.config.API)
	subs, total, err := h.db.ListSubscriptions(r.Context(),
		auth.UserIDFromContext(r.Context()), getIntParam(r, "recipes_limit", 0), p.Limit, p.Offset())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	NewResponseWriter(w, r).SuccessWithPagination(subs, p.Meta(total, len(subs)))
}

// Subscribe follows an author.
//
// @Summary Subscribe to an author
// @Tags Subscriptions
// @Produce json
// @Security TokenAuth
// @Param id path int true "Author ID"
// @Param recipes_limit query int false "Recipes to include, all when omitted"
// @Success 201 {object} APIResponse{data=models.Subscription}
// @Failure 400 {object} APIResponse "Self subscription or already subscribed"
// @Failure 404 {object} APIResponse
// @Router /users/{id}/subscribe [post]
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	authorID, err := pathID(r)
	if err != nil {
		NewResponseWriter(w, r).NotFound("user not found")
		return
	}

	ctx := r.Context()
	uid := auth.UserIDFromContext(ctx)
	if err := h.db.Subscribe(ctx, uid, authorID); err != nil {
		respondDomainError(w, r, err)
		return
	}
	h.notify(ctx, events.SubscriptionChanged, uid, 0)

	sub, err := h.db.GetSubscription(ctx, uid, authorID, getIntParam(r, "recipes_limit", 0))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(sub)
}

// Unsubscribe stops following an author.
//
// @Summary Unsubscribe from an author
// @Tags Subscriptions
// @Security TokenAuth
// @Param id path int true "Author ID"
// @Success 204
// @Failure 400 {object} APIResponse "Not subscribed"
// @Failure 404 {object} APIResponse "Author does not exist"
// @Router /users/{id}/subscribe [delete]
func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	authorID, err := pathID(r)
	if err != nil {
		NewResponseWriter(w, r).NotFound("user not found")
		return
	}

	ctx := r.Context()
	uid := auth.UserIDFromContext(ctx)
	if err := h.db.Unsubscribe(ctx, uid, authorID); err != nil {
		respondDomainError(w, r, err)
		return
	}
	h.notify(ctx, events.SubscriptionChanged, uid, 0)
	NewResponseWriter(w, r).NoContent()
}
