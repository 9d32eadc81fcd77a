// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

/*
Package database is the DuckDB persistence layer for users, tags,
ingredients, recipes and the per-user recipe sets.

# Schema

Versioned migrations (migrations.go) create:

  - users, tags, ingredients, recipes (sequence-backed BIGINT ids)
  - recipe_ingredients (recipe_id, ingredient_id) with amount
  - recipe_tags (recipe_id, tag_id)
  - favorites, carts (user_id, recipe_id)
  - subscriptions (user_id, author_id) with CHECK (user_id <> author_id)

Every join and set table is keyed by its pair. DuckDB does not cascade
foreign keys, so references are checked in Go and recipe deletion removes
dependent rows in the same transaction.

# Read paths

RecipeStatuses and the recipe listing annotate recipes for a viewer with
EXISTS probes on the favorites and carts keys. Viewer id 0 is anonymous and
always sees false. CartIngredientTotals consolidates a cart with a single
GROUP BY over the cart's recipe_ingredients rows.

# Errors

Uniqueness failures surface as sentinel errors (ErrAlreadyInCart,
ErrAlreadySubscribed, ...) that callers match with errors.Is and report as
rejected requests.
*/
package database
