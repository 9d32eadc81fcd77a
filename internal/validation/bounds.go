// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package validation

import (
	"sync"

	"github.com/tomtom215/foodgram/internal/config"
)

// Bounds are the inclusive ranges enforced by the "amount" and
// "cooking_time" tags.
type Bounds struct {
	MinAmount      int
	MaxAmount      int
	MinCookingTime int
	MaxCookingTime int
}

// DefaultBounds match the defaults of the recipes config section.
var DefaultBounds = Bounds{
	MinAmount:      1,
	MaxAmount:      32000,
	MinCookingTime: 1,
	MaxCookingTime: 32000,
}

var (
	boundsMu sync.RWMutex
	bounds   = DefaultBounds
)

// SetBounds installs the configured recipe bounds.
func SetBounds(cfg config.RecipesConfig) {
	boundsMu.Lock()
	defer boundsMu.Unlock()
	bounds = Bounds{
		MinAmount:      cfg.MinAmount,
		MaxAmount:      cfg.MaxAmount,
		MinCookingTime: cfg.MinCookingTime,
		MaxCookingTime: cfg.MaxCookingTime,
	}
}

// CurrentBounds returns the bounds in effect.
func CurrentBounds() Bounds {
	boundsMu.RLock()
	defer boundsMu.RUnlock()
	return bounds
}
