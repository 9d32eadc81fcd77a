// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"context"
	"time"

	"github.com/tomtom215/foodgram/internal/audit"
	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/database"
	"github.com/tomtom215/foodgram/internal/events"
	"github.com/tomtom215/foodgram/internal/shoppinglist"
)

// EventNotifier publishes domain events after a successful write.
// *events.Publisher satisfies it.
type EventNotifier interface {
	Notify(ctx context.Context, e events.Event)
}

// Dependencies are the collaborators of the API handlers. Events and Audit
// may be nil.
type Dependencies struct {
	DB           *database.DB
	Config       *config.Config
	JWT          *auth.JWTManager
	Revocations  *auth.RevocationStore
	Throttle     *auth.LoginThrottle
	ShoppingList *shoppinglist.Service
	Events       EventNotifier
	Audit        *audit.Logger
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files by resource:
//   - handlers_users.go: registration, profiles, password change
//   - handlers_auth.go: token login and logout
//   - handlers_catalog.go: tags and ingredients
//   - handlers_recipes.go: recipe CRUD
//   - handlers_recipe_sets.go: favorites and shopping cart
//   - handlers_subscriptions.go: follows
//   - handlers_shopping_list.go: shopping list download
//   - handlers_audit.go: security audit trail
//   - handlers_health.go: health check
type Handler struct {
	db           *database.DB
	config       *config.Config
	jwt          *auth.JWTManager
	revocations  *auth.RevocationStore
	throttle     *auth.LoginThrottle
	shoppingList *shoppinglist.Service
	events       EventNotifier
	audit        *audit.Logger
	startTime    time.Time
}

// NewHandler creates the API handler.
func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		db:           deps.DB,
		config:       deps.Config,
		jwt:          deps.JWT,
		revocations:  deps.Revocations,
		throttle:     deps.Throttle,
		shoppingList: deps.ShoppingList,
		events:       deps.Events,
		audit:        deps.Audit,
		startTime:    time.Now(),
	}
}

// notify drops the cached shopping lists this write made stale, then
// publishes the change for other consumers and replicas. The local drop does
// not depend on the event being delivered.
func (h *Handler) notify(ctx context.Context, eventType string, userID, recipeID int64) {
	switch eventType {
	case events.CartChanged:
		h.shoppingList.InvalidateUser(userID)
	case events.RecipeChanged:
		h.shoppingList.InvalidateAll()
	}
	if h.events == nil {
		return
	}
	h.events.Notify(ctx, events.New(eventType, userID, recipeID))
}
