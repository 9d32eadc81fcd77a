// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package authz

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/tomtom215/foodgram/internal/metrics"
)

const decisionCacheType = "authz"

// decisionCache memoizes (role, path, method) decisions. Paths carry ids,
// so the cache is size-bounded and evicts least recently used entries.
type decisionCache struct {
	lru *lru.Cache
}

func newDecisionCache(size int) (*decisionCache, error) {
	if size <= 0 {
		size = 4096
	}
	c, err := lru.NewWithEvict(size, func(_, _ interface{}) {
		metrics.CacheEvictions.WithLabelValues(decisionCacheType, "capacity").Inc()
	})
	if err != nil {
		return nil, err
	}
	return &decisionCache{lru: c}, nil
}

func decisionKey(subject, object, action string) string {
	return subject + "\x00" + object + "\x00" + action
}

func (c *decisionCache) get(subject, object, action string) (allowed, ok bool) {
	v, ok := c.lru.Get(decisionKey(subject, object, action))
	if !ok {
		metrics.CacheMisses.WithLabelValues(decisionCacheType).Inc()
		return false, false
	}
	metrics.CacheHits.WithLabelValues(decisionCacheType).Inc()
	return v.(bool), true
}

func (c *decisionCache) set(subject, object, action string, allowed bool) {
	c.lru.Add(decisionKey(subject, object, action), allowed)
	metrics.CacheSize.WithLabelValues(decisionCacheType).Set(float64(c.lru.Len()))
}

func (c *decisionCache) clear() {
	c.lru.Purge()
	metrics.CacheSize.WithLabelValues(decisionCacheType).Set(0)
}

func (c *decisionCache) len() int {
	return c.lru.Len()
}
