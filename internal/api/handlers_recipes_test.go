// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/tomtom215/foodgram/internal/models"
)

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestRecipeLifecycle(t *testing.T) {
	s := newTestServer(t)
	tag, ings := s.seedCatalog(
		IngredientRequest{Name: "flour", MeasurementUnit: "g"},
		IngredientRequest{Name: "milk", MeasurementUnit: "ml"},
	)
	_, authorToken := s.register("author")
	_, otherToken := s.register("other")

	recipe := s.createRecipe(authorToken, "pancakes", tag.ID,
		IngredientAmountRequest{ID: ings[0].ID, Amount: 200},
		IngredientAmountRequest{ID: ings[1].ID, Amount: 300},
	)
	path := "/api/recipes/" + itoa(recipe.ID)

	update := RecipeRequest{
		Ingredients: []IngredientAmountRequest{{ID: ings[0].ID, Amount: 250}},
		Tags:        []int64{tag.ID},
		Name:        "Fluffy pancakes",
		Text:        "Whisk, rest, fry.",
		CookingTime: 25,
	}

	t.Run("non-author cannot update", func(t *testing.T) {
		expectError(t, s.do(http.MethodPatch, path, otherToken, update), http.StatusForbidden, ErrCodeForbidden)
	})

	t.Run("guest cannot update", func(t *testing.T) {
		expectError(t, s.do(http.MethodPatch, path, "", update), http.StatusUnauthorized, ErrCodeUnauthorized)
	})

	t.Run("author updates and keeps image", func(t *testing.T) {
		var got models.Recipe
		decodeData(t, s.do(http.MethodPatch, path, authorToken, update), http.StatusOK, &got)
		if got.Name != "Fluffy pancakes" || got.CookingTime != 25 {
			t.Errorf("fields not updated: %+v", got)
		}
		if got.Image != recipe.Image {
			t.Errorf("image = %q, want %q", got.Image, recipe.Image)
		}
		if len(got.Ingredients) != 1 || got.Ingredients[0].Amount != 250 {
			t.Errorf("ingredients = %+v", got.Ingredients)
		}
	})

	t.Run("anonymous viewer sees false flags", func(t *testing.T) {
		var got models.Recipe
		decodeData(t, s.do(http.MethodGet, path, "", nil), http.StatusOK, &got)
		if got.IsFavorited || got.IsInShoppingCart {
			t.Errorf("anonymous flags = %+v", got.RecipeStatus)
		}
	})

	t.Run("non-author cannot delete", func(t *testing.T) {
		expectError(t, s.do(http.MethodDelete, path, otherToken, nil), http.StatusForbidden, ErrCodeForbidden)
	})

	t.Run("author deletes", func(t *testing.T) {
		if rec := s.do(http.MethodDelete, path, authorToken, nil); rec.Code != http.StatusNoContent {
			t.Fatalf("delete status = %d: %s", rec.Code, rec.Body.String())
		}
		expectError(t, s.do(http.MethodGet, path, "", nil), http.StatusNotFound, ErrCodeNotFound)
	})
}

func TestCreateRecipeValidation(t *testing.T) {
	s := newTestServer(t)
	tag, ings := s.seedCatalog(IngredientRequest{Name: "salt", MeasurementUnit: "g"})
	_, token := s.register("validator")

	valid := func() RecipeRequest {
		return RecipeRequest{
			Ingredients: []IngredientAmountRequest{{ID: ings[0].ID, Amount: 5}},
			Tags:        []int64{tag.ID},
			Image:       "img.png",
			Name:        "Salted water",
			Text:        "Boil.",
			CookingTime: 10,
		}
	}

	tests := []struct {
		name   string
		mutate func(*RecipeRequest)
	}{
		{"duplicate ingredient", func(r *RecipeRequest) {
			r.Ingredients = append(r.Ingredients, IngredientAmountRequest{ID: ings[0].ID, Amount: 7})
		}},
		{"zero amount", func(r *RecipeRequest) { r.Ingredients[0].Amount = 0 }},
		{"amount above bound", func(r *RecipeRequest) { r.Ingredients[0].Amount = 32001 }},
		{"zero cooking time", func(r *RecipeRequest) { r.CookingTime = 0 }},
		{"no ingredients", func(r *RecipeRequest) { r.Ingredients = nil }},
		{"no tags", func(r *RecipeRequest) { r.Tags = nil }},
		{"unknown tag", func(r *RecipeRequest) { r.Tags = []int64{9999} }},
		{"unknown ingredient", func(r *RecipeRequest) { r.Ingredients[0].ID = 9999 }},
		{"missing image", func(r *RecipeRequest) { r.Image = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			expectError(t, s.do(http.MethodPost, "/api/recipes", token, req), http.StatusBadRequest, ErrCodeValidationFailed)
		})
	}

	t.Run("malformed body", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/recipes", token, "not an object")
		expectError(t, rec, http.StatusBadRequest, ErrCodeBadRequest)
	})
}

func TestFavoritesAndFilters(t *testing.T) {
	s := newTestServer(t)
	tag, ings := s.seedCatalog(IngredientRequest{Name: "egg", MeasurementUnit: "pcs"})
	_, authorToken := s.register("chef")
	_, fanToken := s.register("fan")

	first := s.createRecipe(authorToken, "omelette", tag.ID, IngredientAmountRequest{ID: ings[0].ID, Amount: 2})
	s.createRecipe(authorToken, "scramble", tag.ID, IngredientAmountRequest{ID: ings[0].ID, Amount: 3})
	favPath := "/api/recipes/" + itoa(first.ID) + "/favorite"

	var short models.RecipeShort
	decodeData(t, s.do(http.MethodPost, favPath, fanToken, nil), http.StatusCreated, &short)
	if short.ID != first.ID || short.Name != "omelette" {
		t.Errorf("short = %+v", short)
	}

	apiErr := expectError(t, s.do(http.MethodPost, favPath, fanToken, nil), http.StatusBadRequest, ErrCodeBadRequest)
	if apiErr.Message != "recipe is already in favorites" {
		t.Errorf("duplicate message = %q", apiErr.Message)
	}

	var got models.Recipe
	decodeData(t, s.do(http.MethodGet, "/api/recipes/"+itoa(first.ID), fanToken, nil), http.StatusOK, &got)
	if !got.IsFavorited || got.IsInShoppingCart {
		t.Errorf("fan flags = %+v", got.RecipeStatus)
	}

	var listed []models.Recipe
	env := decodeData(t, s.do(http.MethodGet, "/api/recipes?is_favorited=1", fanToken, nil), http.StatusOK, &listed)
	if len(listed) != 1 || listed[0].ID != first.ID || env.Meta.Pagination.Total != 1 {
		t.Errorf("favorited filter = %+v", listed)
	}

	// The status filters are ignored for anonymous viewers.
	decodeData(t, s.do(http.MethodGet, "/api/recipes?is_favorited=1", "", nil), http.StatusOK, &listed)
	if len(listed) != 2 {
		t.Errorf("anonymous favorited filter returned %d recipes, want 2", len(listed))
	}

	decodeData(t, s.do(http.MethodGet, "/api/recipes?tags=breakfast&tags=dinner", "", nil), http.StatusOK, &listed)
	if len(listed) != 2 || listed[0].ID < listed[1].ID {
		t.Errorf("tag filter = %+v, want both recipes newest first", listed)
	}

	if rec := s.do(http.MethodDelete, favPath, fanToken, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("unfavorite status = %d", rec.Code)
	}
	apiErr = expectError(t, s.do(http.MethodDelete, favPath, fanToken, nil), http.StatusBadRequest, ErrCodeBadRequest)
	if apiErr.Message != "recipe is not in favorites" {
		t.Errorf("absent message = %q", apiErr.Message)
	}

	apiErr = expectError(t, s.do(http.MethodPost, "/api/recipes/99999/favorite", fanToken, nil), http.StatusBadRequest, ErrCodeBadRequest)
	if apiErr.Message != "recipe does not exist" {
		t.Errorf("missing recipe message = %q", apiErr.Message)
	}
}
