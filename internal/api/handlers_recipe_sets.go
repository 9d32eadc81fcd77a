// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/database"
	"github.com/tomtom215/foodgram/internal/events"
	"github.com/tomtom215/foodgram/internal/models"
)

// recipeSetOps are the store operations of one per-user recipe set.
type recipeSetOps struct {
	add       func(ctx context.Context, userID, recipeID int64) (*models.RecipeShort, error)
	remove    func(ctx context.Context, userID, recipeID int64) error
	eventType string
}

func (h *Handler) favorites() recipeSetOps {
	return recipeSetOps{add: h.db.AddFavorite, remove: h.db.RemoveFavorite, eventType: events.FavoriteChanged}
}

func (h *Handler) cart() recipeSetOps {
	return recipeSetOps{add: h.db.AddToCart, remove: h.db.RemoveFromCart, eventType: events.CartChanged}
}

// addToSet answers a missing recipe with 400: the recipe is the request's
// payload here, not the resource being addressed.
func (h *Handler) addToSet(w http.ResponseWriter, r *http.Request, ops recipeSetOps) {
	id, err := pathID(r)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	ctx := r.Context()
	uid := auth.UserIDFromContext(ctx)
	recipe, err := ops.add(ctx, uid, id)
	if errors.Is(err, database.ErrRecipeNotFound) {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	h.notify(ctx, ops.eventType, uid, id)
	NewResponseWriter(w, r).Created(recipe)
}

func (h *Handler) removeFromSet(w http.ResponseWriter, r *http.Request, ops recipeSetOps) {
	id, err := pathID(r)
	if err != nil {
		NewResponseWriter(w, r).NotFound("recipe does not exist")
		return
	}

	ctx := r.Context()
	uid := auth.UserIDFromContext(ctx)
	if err := ops.remove(ctx, uid, id); err != nil {
		respondDomainError(w, r, err)
		return
	}

	h.notify(ctx, ops.eventType, uid, id)
	NewResponseWriter(w, r).NoContent()
}

// AddFavorite adds a recipe to the caller's favorites.
//
// @Summary Favorite a recipe
// @Tags Favorites
// @Produce json
// @Security TokenAuth
// @Param id path int true "Recipe ID"
// @Success 201 {object} APIResponse{data=models.RecipeShort}
// @Failure 400 {object} APIResponse "Already a favorite or recipe does not exist"
// @Router /recipes/{id}/favorite [post]
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	h.addToSet(w, r, h.favorites())
}

// RemoveFavorite removes a recipe from the caller's favorites.
//
// @Summary Unfavorite a recipe
// @Tags Favorites
// @Security TokenAuth
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 400 {object} APIResponse "Not a favorite"
// @Failure 404 {object} APIResponse
// @Router /recipes/{id}/favorite [delete]
func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	h.removeFromSet(w, r, h.favorites())
}

// AddToCart adds a recipe to the caller's shopping cart.
//
// @Summary Add a recipe to the shopping cart
// @Tags Shopping cart
// @Produce json
// @Security TokenAuth
// @Param id path int true "Recipe ID"
// @Success 201 {object} APIResponse{data=models.RecipeShort}
// @Failure 400 {object} APIResponse "Already in the cart or recipe does not exist"
// @Router /recipes/{id}/shopping_cart [post]
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	h.addToSet(w, r, h.cart())
}

// RemoveFromCart removes a recipe from the caller's shopping cart.
//
// @Summary Remove a recipe from the shopping cart
// @Tags Shopping cart
// @Security TokenAuth
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 400 {object} APIResponse "Not in the cart"
// @Failure 404 {object} APIResponse
// @Router /recipes/{id}/shopping_cart [delete]
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	h.removeFromSet(w, r, h.cart())
}
