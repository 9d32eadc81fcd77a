// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package shoppinglist

import (
	"context"
	"fmt"

	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/metrics"
	"github.com/tomtom215/foodgram/internal/models"
)

// Store returns the grouped cart totals of a user, one line per ingredient,
// ordered by name then unit.
type Store interface {
	CartIngredientTotals(ctx context.Context, userID int64) ([]models.ShoppingListLine, error)
}

// Service consolidates a user's cart into a shopping list.
type Service struct {
	store        Store
	maxLineTotal int64
	cache        *Cache
}

// NewService creates a service. cache may be nil.
func NewService(store Store, maxLineTotal int64, cache *Cache) *Service {
	return &Service{store: store, maxLineTotal: maxLineTotal, cache: cache}
}

// Consolidate returns the shopping list of userID. An empty cart yields a
// list with no lines. Lines whose total exceeds the configured maximum are
// flagged, never truncated. The returned list must not be modified.
func (s *Service) Consolidate(ctx context.Context, userID int64) (*models.ShoppingList, error) {
	var gen uint64
	if s.cache != nil {
		if list, ok := s.cache.Get(userID); ok {
			return list, nil
		}
		gen = s.cache.Generation()
	}

	lines, err := s.store.CartIngredientTotals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to consolidate shopping list: %w", err)
	}

	overflows := 0
	for i := range lines {
		if lines[i].Total > s.maxLineTotal {
			lines[i].Overflow = true
			overflows++
			logging.Ctx(ctx).Warn().
				Int64("ingredient_id", lines[i].IngredientID).
				Int64("total", lines[i].Total).
				Int64("max", s.maxLineTotal).
				Msg("Shopping list line exceeds maximum total")
		}
	}
	metrics.RecordShoppingList(len(lines), overflows)

	list := &models.ShoppingList{UserID: userID, Lines: lines}
	if s.cache != nil {
		s.cache.Put(gen, list)
	}
	return list, nil
}

// InvalidateUser drops userID's cached list in this process. Handlers call
// it after a committed cart write, before the change event goes out to
// other replicas.
func (s *Service) InvalidateUser(userID int64) {
	if s == nil || s.cache == nil {
		return
	}
	s.cache.InvalidateUser(userID)
}

// InvalidateAll drops every cached list in this process.
func (s *Service) InvalidateAll() {
	if s == nil || s.cache == nil {
		return
	}
	s.cache.InvalidateAll()
}
