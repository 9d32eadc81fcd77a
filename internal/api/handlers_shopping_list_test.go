// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/tomtom215/foodgram/internal/events"
)

// lostEvents accepts events and delivers none of them, like a publisher
// with an open breaker or an unreachable broker.
type lostEvents struct {
	mu    sync.Mutex
	types []string
}

func (l *lostEvents) Notify(_ context.Context, e events.Event) {
	l.mu.Lock()
	l.types = append(l.types, e.Type)
	l.mu.Unlock()
}

func (l *lostEvents) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.types)
}

func TestShoppingListFreshWithoutEventDelivery(t *testing.T) {
	lost := &lostEvents{}

	tests := []struct {
		name   string
		option serverOption
		lost   *lostEvents
	}{
		{"events lost", func(d *Dependencies) { d.Events = lost }, lost},
		{"no event sink", func(d *Dependencies) { d.Events = nil }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.option)
			tag, ings := s.seedCatalog(IngredientRequest{Name: "flour", MeasurementUnit: "g"})
			_, authorToken := s.register("olga")
			_, buyerToken := s.register("petr")

			first := s.createRecipe(authorToken, "pancakes", tag.ID, IngredientAmountRequest{ID: ings[0].ID, Amount: 200})
			second := s.createRecipe(authorToken, "bread", tag.ID, IngredientAmountRequest{ID: ings[0].ID, Amount: 300})

			download := func() string {
				t.Helper()
				rec := s.do(http.MethodGet, "/api/recipes/download_shopping_cart?format=txt", buyerToken, nil)
				if rec.Code != http.StatusOK {
					t.Fatalf("download status = %d: %s", rec.Code, rec.Body.String())
				}
				return rec.Body.String()
			}
			cart := func(method string, recipeID int64, want int) {
				t.Helper()
				if rec := s.do(method, "/api/recipes/"+itoa(recipeID)+"/shopping_cart", buyerToken, nil); rec.Code != want {
					t.Fatalf("%s cart status = %d, want %d", method, rec.Code, want)
				}
			}

			cart(http.MethodPost, first.ID, http.StatusCreated)
			if body := download(); !strings.Contains(body, "flour (g) — 200") {
				t.Fatalf("first list:\n%s", body)
			}

			cart(http.MethodPost, second.ID, http.StatusCreated)
			if body := download(); !strings.Contains(body, "flour (g) — 500") {
				t.Errorf("after second recipe, want flour 500:\n%s", body)
			}

			update := RecipeRequest{
				Ingredients: []IngredientAmountRequest{{ID: ings[0].ID, Amount: 250}},
				Tags:        []int64{tag.ID},
				Name:        "pancakes",
				Text:        "Whisk.",
				CookingTime: 10,
			}
			if rec := s.do(http.MethodPatch, "/api/recipes/"+itoa(first.ID), authorToken, update); rec.Code != http.StatusOK {
				t.Fatalf("update status = %d: %s", rec.Code, rec.Body.String())
			}
			if body := download(); !strings.Contains(body, "flour (g) — 550") {
				t.Errorf("after recipe edit, want flour 550:\n%s", body)
			}

			cart(http.MethodDelete, first.ID, http.StatusNoContent)
			cart(http.MethodDelete, second.ID, http.StatusNoContent)
			if body := download(); strings.Contains(body, "flour") {
				t.Errorf("emptied cart still lists flour:\n%s", body)
			}

			if tt.lost != nil && tt.lost.count() == 0 {
				t.Error("writes should still publish events")
			}
		})
	}
}
