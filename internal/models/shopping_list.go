// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package models

// ShoppingListLine is one consolidated ingredient of a user's cart.
type ShoppingListLine struct {
	IngredientID    int64  `json:"ingredient_id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Total           int64  `json:"total"`

	// Overflow is set when Total exceeds the configured per-line maximum.
	// Total still holds the exact sum.
	Overflow bool `json:"overflow,omitempty"`
}

// ShoppingList is the consolidated list for one user.
type ShoppingList struct {
	UserID int64              `json:"user_id"`
	Lines  []ShoppingListLine `json:"lines"`
}

// HasOverflow reports whether any line exceeded the per-line maximum.
func (l *ShoppingList) HasOverflow() bool {
	for _, line := range l.Lines {
		if line.Overflow {
			return true
		}
	}
	return false
}
