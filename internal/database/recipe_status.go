// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/foodgram/internal/metrics"
	"github.com/tomtom215/foodgram/internal/models"
)

// statusExprs returns the is_favorited and is_in_shopping_cart expressions for
// viewerID against the recipe aliased as alias, plus their arguments in order.
// Each is an EXISTS probe on the (user_id, recipe_id) primary key, so no
// favorite or cart rows are materialized. The anonymous viewer gets FALSE.
func statusExprs(viewerID int64, alias string) (favorited, inCart string, args []interface{}) {
	if viewerID == 0 {
		return "FALSE", "FALSE", nil
	}
	favorited = fmt.Sprintf("EXISTS (SELECT 1 FROM favorites f WHERE f.user_id = ? AND f.recipe_id = %s.id)", alias)
	inCart = fmt.Sprintf("EXISTS (SELECT 1 FROM carts c WHERE c.user_id = ? AND c.recipe_id = %s.id)", alias)
	return favorited, inCart, []interface{}{viewerID, viewerID}
}

// RecipeStatuses reports, for each recipe id, whether viewerID has it in
// favorites and in the shopping cart. Both flags for the whole batch come from
// one query. Viewer 0 is anonymous: every flag is false and nothing is queried.
// Ids with no recipe row are reported with both flags false.
func (db *DB) RecipeStatuses(ctx context.Context, viewerID int64, recipeIDs []int64) (map[int64]models.RecipeStatus, error) {
	ids := uniqueIDs(recipeIDs)
	statuses := make(map[int64]models.RecipeStatus, len(ids))
	for _, id := range ids {
		statuses[id] = models.RecipeStatus{}
	}
	if viewerID == 0 || len(ids) == 0 {
		return statuses, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	metrics.RecipeStatusBatchSize.Observe(float64(len(ids)))

	favExpr, cartExpr, args := statusExprs(viewerID, "r")
	query := fmt.Sprintf(`SELECT r.id, %s, %s FROM recipes r WHERE r.id IN (%s)`,
		favExpr, cartExpr, placeholders(len(ids)))
	args = append(args, int64Args(ids)...)

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	observe("select", "recipe_status", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipe statuses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var st models.RecipeStatus
		if err := rows.Scan(&id, &st.IsFavorited, &st.IsInShoppingCart); err != nil {
			return nil, fmt.Errorf("failed to scan recipe status: %w", err)
		}
		statuses[id] = st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipe statuses: %w", err)
	}
	return statuses, nil
}
