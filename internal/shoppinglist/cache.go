// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package shoppinglist

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/tomtom215/foodgram/internal/events"
	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/metrics"
	"github.com/tomtom215/foodgram/internal/models"
)

const cacheType = "shopping_list"

type cacheEntry struct {
	list      *models.ShoppingList
	expiresAt time.Time
}

// Cache keeps consolidated lists per user. Entries expire after ttl and are
// dropped early by cart and recipe change events.
//
// A generation counter guards against a list computed before an
// invalidation being stored after it: Put is ignored when any invalidation
// happened since the caller read Generation.
type Cache struct {
	lru *lru.Cache
	ttl time.Duration
	now func() time.Time

	mu  sync.Mutex
	gen uint64
}

// NewCache creates a cache holding up to size lists.
func NewCache(size int, ttl time.Duration) (*Cache, error) {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	l, err := lru.NewWithEvict(size, func(_, _ interface{}) {
		metrics.CacheEvictions.WithLabelValues(cacheType, "capacity").Inc()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create shopping list cache: %w", err)
	}
	return &Cache{lru: l, ttl: ttl, now: time.Now}, nil
}

// Get returns the cached list for userID.
func (c *Cache) Get(userID int64) (*models.ShoppingList, bool) {
	v, ok := c.lru.Get(userID)
	if !ok {
		metrics.CacheMisses.WithLabelValues(cacheType).Inc()
		return nil, false
	}
	entry := v.(cacheEntry)
	if c.now().After(entry.expiresAt) {
		c.lru.Remove(userID)
		metrics.CacheEvictions.WithLabelValues(cacheType, "expired").Inc()
		metrics.CacheMisses.WithLabelValues(cacheType).Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues(cacheType).Inc()
	return entry.list, true
}

// Generation returns the current invalidation generation.
func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Put stores list unless an invalidation happened after gen was read.
func (c *Cache) Put(gen uint64, list *models.ShoppingList) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.lru.Add(list.UserID, cacheEntry{list: list, expiresAt: c.now().Add(c.ttl)})
	metrics.CacheSize.WithLabelValues(cacheType).Set(float64(c.lru.Len()))
	return true
}

// InvalidateUser drops userID's list.
func (c *Cache) InvalidateUser(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if c.lru.Remove(userID) {
		metrics.CacheEvictions.WithLabelValues(cacheType, "invalidated").Inc()
	}
	metrics.CacheSize.WithLabelValues(cacheType).Set(float64(c.lru.Len()))
}

// InvalidateAll drops every list. A recipe edit can change any cart.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.lru.Purge()
	metrics.CacheSize.WithLabelValues(cacheType).Set(0)
}

// Len returns the number of cached lists.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// HandleEvent applies a domain event to the cache.
func (c *Cache) HandleEvent(ctx context.Context, e events.Event) error {
	switch e.Type {
	case events.CartChanged:
		c.InvalidateUser(e.UserID)
	case events.RecipeChanged:
		c.InvalidateAll()
	default:
		return nil
	}
	logging.Ctx(ctx).Debug().Str("event", e.Type).Int64("user_id", e.UserID).Msg("Shopping list cache invalidated")
	return nil
}

// Register subscribes the cache to the events that affect it.
func (c *Cache) Register(router *events.Router) {
	router.AddConsumer("shopping-list-cache-cart", events.CartChanged, c.HandleEvent)
	router.AddConsumer("shopping-list-cache-recipe", events.RecipeChanged, c.HandleEvent)
}
