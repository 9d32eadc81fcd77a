// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/tomtom215/foodgram/internal/models"
)

func TestRouteAuthorization(t *testing.T) {
	s := newTestServer(t)
	_, userToken := s.register("grace")
	adminToken := s.admin()

	tag := TagRequest{Name: "Dinner", Color: "#49b64e", Slug: "dinner"}

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		status int
		code   string
	}{
		{"guest creates recipe", http.MethodPost, "/api/recipes", "", RecipeRequest{}, http.StatusUnauthorized, ErrCodeUnauthorized},
		{"guest reads me", http.MethodGet, "/api/users/me", "", nil, http.StatusUnauthorized, ErrCodeUnauthorized},
		{"guest downloads cart", http.MethodGet, "/api/recipes/download_shopping_cart", "", nil, http.StatusUnauthorized, ErrCodeUnauthorized},
		{"user creates tag", http.MethodPost, "/api/tags", userToken, tag, http.StatusForbidden, ErrCodeForbidden},
		{"user creates ingredient", http.MethodPost, "/api/ingredients", userToken, IngredientRequest{Name: "x", MeasurementUnit: "g"}, http.StatusForbidden, ErrCodeForbidden},
		{"garbage token", http.MethodGet, "/api/recipes", "not-a-jwt", nil, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"unknown route", http.MethodGet, "/api/nope", "", nil, http.StatusNotFound, ErrCodeNotFound},
		{"unsupported method", http.MethodDelete, "/api/tags", adminToken, nil, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, s.do(tt.method, tt.path, tt.token, tt.body), tt.status, tt.code)
		})
	}

	t.Run("admin creates tag", func(t *testing.T) {
		var created models.Tag
		decodeData(t, s.do(http.MethodPost, "/api/tags", adminToken, tag), http.StatusCreated, &created)
		if created.Color != "#49B64E" {
			t.Errorf("color = %q, want upper-cased", created.Color)
		}
		expectError(t, s.do(http.MethodPost, "/api/tags", adminToken, tag), http.StatusConflict, ErrCodeConflict)
	})

	t.Run("guests read public resources", func(t *testing.T) {
		for _, path := range []string{"/api/recipes", "/api/tags", "/api/ingredients", "/api/users", "/api/health"} {
			if rec := s.do(http.MethodGet, path, "", nil); rec.Code != http.StatusOK {
				t.Errorf("GET %s = %d: %s", path, rec.Code, rec.Body.String())
			}
		}
	})

	t.Run("trailing slash", func(t *testing.T) {
		if rec := s.do(http.MethodGet, "/api/tags/", "", nil); rec.Code != http.StatusOK {
			t.Errorf("GET /api/tags/ = %d", rec.Code)
		}
	})
}

func TestIngredientSearch(t *testing.T) {
	s := newTestServer(t)
	s.seedCatalog(
		IngredientRequest{Name: "Sugar", MeasurementUnit: "g"},
		IngredientRequest{Name: "brown sugar", MeasurementUnit: "g"},
		IngredientRequest{Name: "salt", MeasurementUnit: "g"},
	)

	var got []models.Ingredient
	decodeData(t, s.do(http.MethodGet, "/api/ingredients?name=sug", "", nil), http.StatusOK, &got)
	if len(got) != 2 || got[0].Name != "Sugar" || got[1].Name != "brown sugar" {
		t.Errorf("search = %+v, want prefix match before substring match", got)
	}

	decodeData(t, s.do(http.MethodGet, "/api/ingredients", "", nil), http.StatusOK, &got)
	if len(got) != 3 {
		t.Errorf("unfiltered list has %d ingredients, want 3", len(got))
	}

	expectError(t, s.do(http.MethodGet, "/api/ingredients/99999", "", nil), http.StatusNotFound, ErrCodeNotFound)
	expectError(t, s.do(http.MethodGet, "/api/tags/abc", "", nil), http.StatusNotFound, ErrCodeNotFound)
}

func TestSubscriptions(t *testing.T) {
	s := newTestServer(t)
	tag, ings := s.seedCatalog(IngredientRequest{Name: "rice", MeasurementUnit: "g"})
	author, authorToken := s.register("heidi")
	_, fanToken := s.register("ivan")

	for _, name := range []string{"pilaf", "risotto", "congee"} {
		s.createRecipe(authorToken, name, tag.ID, IngredientAmountRequest{ID: ings[0].ID, Amount: 100})
	}
	path := "/api/users/" + itoa(author.ID) + "/subscribe"

	expectError(t, s.do(http.MethodPost, path, authorToken, nil), http.StatusBadRequest, ErrCodeBadRequest)
	expectError(t, s.do(http.MethodPost, "/api/users/99999/subscribe", fanToken, nil), http.StatusNotFound, ErrCodeNotFound)
	expectError(t, s.do(http.MethodDelete, "/api/users/99999/subscribe", fanToken, nil), http.StatusNotFound, ErrCodeNotFound)

	var sub models.Subscription
	decodeData(t, s.do(http.MethodPost, path+"?recipes_limit=2", fanToken, nil), http.StatusCreated, &sub)
	if !sub.IsSubscribed || sub.RecipesCount != 3 || len(sub.Recipes) != 2 {
		t.Errorf("subscription = %+v", sub)
	}

	expectError(t, s.do(http.MethodPost, path, fanToken, nil), http.StatusBadRequest, ErrCodeBadRequest)

	var subs []models.Subscription
	decodeData(t, s.do(http.MethodGet, "/api/users/subscriptions", fanToken, nil), http.StatusOK, &subs)
	if len(subs) != 1 || subs[0].ID != author.ID || len(subs[0].Recipes) != 3 {
		t.Errorf("subscriptions = %+v", subs)
	}

	var seen models.User
	decodeData(t, s.do(http.MethodGet, "/api/users/"+itoa(author.ID), fanToken, nil), http.StatusOK, &seen)
	if !seen.IsSubscribed {
		t.Error("author should show is_subscribed for the follower")
	}

	if rec := s.do(http.MethodDelete, path, fanToken, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("unsubscribe status = %d", rec.Code)
	}
	expectError(t, s.do(http.MethodDelete, path, fanToken, nil), http.StatusBadRequest, ErrCodeBadRequest)
}

func TestDownloadShoppingCart(t *testing.T) {
	s := newTestServer(t)
	tag, ings := s.seedCatalog(
		IngredientRequest{Name: "flour", MeasurementUnit: "g"},
		IngredientRequest{Name: "sugar", MeasurementUnit: "g"},
	)
	_, authorToken := s.register("judy")
	_, buyerToken := s.register("ken")

	bread := s.createRecipe(authorToken, "bread", tag.ID, IngredientAmountRequest{ID: ings[0].ID, Amount: 300})
	cake := s.createRecipe(authorToken, "cake", tag.ID,
		IngredientAmountRequest{ID: ings[0].ID, Amount: 200},
		IngredientAmountRequest{ID: ings[1].ID, Amount: 150},
	)

	for _, r := range []models.Recipe{bread, cake} {
		var short models.RecipeShort
		decodeData(t, s.do(http.MethodPost, "/api/recipes/"+itoa(r.ID)+"/shopping_cart", buyerToken, nil), http.StatusCreated, &short)
	}

	rec := s.do(http.MethodGet, "/api/recipes/download_shopping_cart?format=txt", buyerToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("download status = %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="shopping_list.txt"` {
		t.Errorf("Content-Disposition = %q", got)
	}
	body := rec.Body.String()
	for _, want := range []string{"flour (g) — 500", "sugar (g) — 150"} {
		if !strings.Contains(body, want) {
			t.Errorf("list missing %q:\n%s", want, body)
		}
	}

	t.Run("cart removal invalidates cached list", func(t *testing.T) {
		if rec := s.do(http.MethodDelete, "/api/recipes/"+itoa(cake.ID)+"/shopping_cart", buyerToken, nil); rec.Code != http.StatusNoContent {
			t.Fatalf("remove status = %d", rec.Code)
		}
		body := s.do(http.MethodGet, "/api/recipes/download_shopping_cart?format=txt", buyerToken, nil).Body.String()
		if !strings.Contains(body, "flour (g) — 300") || strings.Contains(body, "sugar") {
			t.Errorf("stale list after removal:\n%s", body)
		}
	})

	t.Run("recipe edit invalidates cached list", func(t *testing.T) {
		update := RecipeRequest{
			Ingredients: []IngredientAmountRequest{{ID: ings[0].ID, Amount: 450}},
			Tags:        []int64{tag.ID},
			Name:        "bread",
			Text:        "Knead.",
			CookingTime: 60,
		}
		if rec := s.do(http.MethodPut, "/api/recipes/"+itoa(bread.ID), authorToken, update); rec.Code != http.StatusOK {
			t.Fatalf("update status = %d: %s", rec.Code, rec.Body.String())
		}
		body := s.do(http.MethodGet, "/api/recipes/download_shopping_cart?format=txt", buyerToken, nil).Body.String()
		if !strings.Contains(body, "flour (g) — 450") {
			t.Errorf("stale list after recipe edit:\n%s", body)
		}
	})

	t.Run("pdf by default", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/recipes/download_shopping_cart", buyerToken, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
			t.Errorf("Content-Type = %q", ct)
		}
		if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
			t.Error("body is not a PDF")
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/recipes/download_shopping_cart?format=docx", buyerToken, nil)
		expectError(t, rec, http.StatusBadRequest, ErrCodeBadRequest)
	})

	t.Run("missing recipe", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/recipes/99999/shopping_cart", buyerToken, nil)
		expectError(t, rec, http.StatusBadRequest, ErrCodeBadRequest)
	})

	t.Run("empty cart", func(t *testing.T) {
		_, token := s.register("lena")
		rec := s.do(http.MethodGet, "/api/recipes/download_shopping_cart?format=txt", token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}
