// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/foodgram/internal/models"
)

// CartIngredientTotals consolidates the user's cart: one line per distinct
// ingredient referenced by any cart recipe, with amount summed across those
// recipes, ordered by name then unit. The sum is computed as BIGINT so that it
// never wraps at the INTEGER column range. An empty cart gives an empty slice.
func (db *DB) CartIngredientTotals(ctx context.Context, userID int64) ([]models.ShoppingListLine, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT i.id, i.name, i.measurement_unit, CAST(SUM(CAST(ri.amount AS BIGINT)) AS BIGINT) AS total
		FROM carts c
		JOIN recipe_ingredients ri ON ri.recipe_id = c.recipe_id
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE c.user_id = ?
		GROUP BY i.id, i.name, i.measurement_unit
		ORDER BY i.name, i.measurement_unit`, userID)
	observe("select", "carts", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to consolidate shopping cart: %w", err)
	}
	defer rows.Close()

	lines := []models.ShoppingListLine{}
	for rows.Next() {
		var line models.ShoppingListLine
		if err := rows.Scan(&line.IngredientID, &line.Name, &line.MeasurementUnit, &line.Total); err != nil {
			return nil, fmt.Errorf("failed to scan shopping list line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shopping list: %w", err)
	}
	return lines, nil
}
