// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/models"
	"github.com/tomtom215/foodgram/internal/validation"
)

// ListTags returns every tag ordered by name. Tags are not paginated.
//
// @Summary List tags
// @Tags Tags
// @Produce json
// @Success 200 {object} APIResponse{data=[]models.Tag}
// @Router /tags [get]
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.db.ListTags(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(tags)
}

// GetTag returns one tag.
//
// @Summary Get a tag
// @Tags Tags
// @Produce json
// @Param id path int true "Tag ID"
// @Success 200 {object} APIResponse{data=models.Tag}
// @Failure 404 {object} APIResponse
// @Router /tags/{id} [get]
func (h *Handler) GetTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		NewResponseWriter(w, r).NotFound("tag not found")
		return
	}
	tag, err := h.db.GetTag(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(tag)
}

// CreateTag adds a tag. Admin only.
//
// @Summary Create a tag
// @Tags Tags
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param body body TagRequest true "Tag"
// @Success 201 {object} APIResponse{data=models.Tag}
// @Failure 400 {object} APIResponse
// @Failure 409 {object} APIResponse "Name, color or slug taken"
// @Router /tags [post]
func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req TagRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondDomainError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondDomainError(w, r, verr)
		return
	}

	tag, err := h.db.CreateTag(r.Context(), req.toModel())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	logging.Ctx(r.Context()).Info().Str("slug", tag.Slug).Msg("Tag created")
	NewResponseWriter(w, r).Created(tag)
}

// ListIngredients returns ingredients. With ?name= the ones whose name
// starts with it come first, then fuzzy matches.
//
// @Summary List ingredients
// @Tags Ingredients
// @Produce json
// @Param name query string false "Name search"
// @Success 200 {object} APIResponse{data=[]models.Ingredient}
// @Router /ingredients [get]
func (h *Handler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.db.ListIngredients(r.Context(), "")
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if name := r.URL.Query().Get("name"); name != "" {
		ingredients = rankIngredients(name, ingredients)
	}
	NewResponseWriter(w, r).Success(ingredients)
}

// GetIngredient returns one ingredient.
//
// @Summary Get an ingredient
// @Tags Ingredients
// @Produce json
// @Param id path int true "Ingredient ID"
// @Success 200 {object} APIResponse{data=models.Ingredient}
// @Failure 404 {object} APIResponse
// @Router /ingredients/{id} [get]
func (h *Handler) GetIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		NewResponseWriter(w, r).NotFound("ingredient not found")
		return
	}
	in, err := h.db.GetIngredient(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(in)
}

// CreateIngredient adds an ingredient. Admin only.
//
// @Summary Create an ingredient
// @Tags Ingredients
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param body body IngredientRequest true "Ingredient"
// @Success 201 {object} APIResponse{data=models.Ingredient}
// @Failure 409 {object} APIResponse "Name and unit already exist"
// @Router /ingredients [post]
func (h *Handler) CreateIngredient(w http.ResponseWriter, r *http.Request) {
	var req IngredientRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondDomainError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondDomainError(w, r, verr)
		return
	}

	in, err := h.db.CreateIngredient(r.Context(), models.Ingredient{
		Name:            strings.TrimSpace(req.Name),
		MeasurementUnit: strings.TrimSpace(req.MeasurementUnit),
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(in)
}
