// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"net/http"

	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/events"
	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/models"
	"github.com/tomtom215/foodgram/internal/validation"
)

// recipeFilter builds the listing filter from the query string.
func recipeFilter(r *http.Request, viewerID int64, p page) models.RecipeFilter {
	q := r.URL.Query()
	return models.RecipeFilter{
		ViewerID:  viewerID,
		AuthorID:  int64(getIntParam(r, "author", 0)),
		TagSlugs:  q["tags"],
		Favorited: getBoolParam(r, "is_favorited"),
		InCart:    getBoolParam(r, "is_in_shopping_cart"),
		Limit:     p.Limit,
		Offset:    p.Offset(),
	}
}

// ListRecipes returns a page of recipes, newest first.
//
// @Summary List recipes
// @Description The is_favorited and is_in_shopping_cart filters only apply to authenticated viewers.
// @Tags Recipes
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size"
// @Param author query int false "Author ID"
// @Param tags query []string false "Tag slugs, any match" collectionFormat(multi)
// @Param is_favorited query int false "1 to show only favorites"
// @Param is_in_shopping_cart query int false "1 to show only the cart"
// @Success 200 {object} APIResponse{data=[]models.Recipe}
// @Router /recipes [get]
func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	p := parsePage(r, h.config.API)
	filter := recipeFilter(r, auth.UserIDFromContext(r.Context()), p)

	recipes, total, err := h.db.ListRecipes(r.Context(), filter)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	NewResponseWriter(w, r).SuccessWithPagination(recipes, p.Meta(total, len(recipes)))
}

// GetRecipe returns one recipe annotated for the viewer.
//
// @Summary Get a recipe
// @Tags Recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} APIResponse{data=models.Recipe}
// @Failure 404 {object} APIResponse
// @Router /recipes/{id} [get]
func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		NewResponseWriter(w, r).NotFound("recipe does not exist")
		return
	}
	recipe, err := h.db.GetRecipe(r.Context(), auth.UserIDFromContext(r.Context()), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(recipe)
}

// decodeRecipe reads and validates a recipe write.
func decodeRecipe(w http.ResponseWriter, r *http.Request) (*RecipeRequest, bool) {
	var req RecipeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondDomainError(w, r, err)
		return nil, false
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondDomainError(w, r, verr)
		return nil, false
	}
	return &req, true
}

// CreateRecipe publishes a recipe authored by the caller.
//
// @Summary Create a recipe
// @Tags Recipes
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param body body RecipeRequest true "Recipe"
// @Success 201 {object} APIResponse{data=models.Recipe}
// @Failure 400 {object} APIResponse "Validation failed or unknown tags/ingredients"
// @Failure 401 {object} APIResponse
// @Router /recipes [post]
func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRecipe(w, r)
	if !ok {
		return
	}
	if req.Image == "" {
		NewResponseWriter(w, r).ValidationError("image is required", fieldDetails("image", "image is required"))
		return
	}

	ctx := r.Context()
	recipe, err := h.db.CreateRecipe(ctx, auth.UserIDFromContext(ctx), req.toInput())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	logging.Ctx(ctx).Info().Int64("recipe_id", recipe.ID).Msg("Recipe created")
	NewResponseWriter(w, r).Created(recipe)
}

// UpdateRecipe replaces the fields, tags and ingredients of a recipe.
// Only the author may update. An empty image keeps the stored one.
//
// @Summary Update a recipe
// @Tags Recipes
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param id path int true "Recipe ID"
// @Param body body RecipeRequest true "Recipe"
// @Success 200 {object} APIResponse{data=models.Recipe}
// @Failure 400 {object} APIResponse
// @Failure 403 {object} APIResponse "Not the author"
// @Failure 404 {object} APIResponse
// @Router /recipes/{id} [patch]
func (h *Handler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		NewResponseWriter(w, r).NotFound("recipe does not exist")
		return
	}

	ctx := r.Context()
	uid := auth.UserIDFromContext(ctx)
	existing, err := h.db.GetRecipe(ctx, uid, id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if existing.Author.ID != uid {
		respondDomainError(w, r, ErrNotAuthor)
		return
	}

	req, ok := decodeRecipe(w, r)
	if !ok {
		return
	}
	in := req.toInput()
	if in.Image == "" {
		in.Image = existing.Image
	}

	if err := h.db.UpdateRecipe(ctx, id, in); err != nil {
		respondDomainError(w, r, err)
		return
	}
	h.notify(ctx, events.RecipeChanged, uid, id)

	updated, err := h.db.GetRecipe(ctx, uid, id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	logging.Ctx(ctx).Info().Int64("recipe_id", id).Msg("Recipe updated")
	NewResponseWriter(w, r).Success(updated)
}

// DeleteRecipe removes a recipe with its ingredient, tag, favorite and cart
// rows. Only the author may delete.
//
// @Summary Delete a recipe
// @Tags Recipes
// @Security TokenAuth
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 403 {object} APIResponse "Not the author"
// @Failure 404 {object} APIResponse
// @Router /recipes/{id} [delete]
func (h *Handler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		NewResponseWriter(w, r).NotFound("recipe does not exist")
		return
	}

	ctx := r.Context()
	uid := auth.UserIDFromContext(ctx)
	authorID, err := h.db.RecipeAuthorID(ctx, id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if authorID != uid {
		respondDomainError(w, r, ErrNotAuthor)
		return
	}

	if err := h.db.DeleteRecipe(ctx, id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	h.notify(ctx, events.RecipeChanged, uid, id)

	logging.Ctx(ctx).Info().Int64("recipe_id", id).Msg("Recipe deleted")
	NewResponseWriter(w, r).NoContent()
}
