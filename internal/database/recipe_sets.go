// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/foodgram/internal/models"
)

// recipeSet describes a per-user set of recipes keyed by (user_id, recipe_id).
type recipeSet struct {
	table     string
	errExists error
	errAbsent error
}

var (
	favoritesSet = recipeSet{table: "favorites", errExists: ErrAlreadyInFavorites, errAbsent: ErrNotInFavorites}
	cartSet      = recipeSet{table: "carts", errExists: ErrAlreadyInCart, errAbsent: ErrNotInCart}
)

// AddFavorite adds a recipe to the user's favorites.
func (db *DB) AddFavorite(ctx context.Context, userID, recipeID int64) (*models.RecipeShort, error) {
	return db.addToSet(ctx, favoritesSet, userID, recipeID)
}

// RemoveFavorite removes a recipe from the user's favorites.
func (db *DB) RemoveFavorite(ctx context.Context, userID, recipeID int64) error {
	return db.removeFromSet(ctx, favoritesSet, userID, recipeID)
}

// AddToCart adds a recipe to the user's shopping cart.
func (db *DB) AddToCart(ctx context.Context, userID, recipeID int64) (*models.RecipeShort, error) {
	return db.addToSet(ctx, cartSet, userID, recipeID)
}

// RemoveFromCart removes a recipe from the user's shopping cart.
func (db *DB) RemoveFromCart(ctx context.Context, userID, recipeID int64) error {
	return db.removeFromSet(ctx, cartSet, userID, recipeID)
}

// addToSet inserts the pair. The primary key is the only guard against a
// concurrent duplicate: the losing insert fails with a constraint error,
// which is reported as set.errExists.
func (db *DB) addToSet(ctx context.Context, set recipeSet, userID, recipeID int64) (*models.RecipeShort, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	recipe, err := db.GetRecipeShort(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	_, err = db.conn.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (user_id, recipe_id, created_at) VALUES (?, ?, ?)`, set.table),
		userID, recipeID, time.Now().UTC())
	observe("insert", set.table, start, err)
	if err != nil {
		if isDuplicateInsert(err) {
			return nil, set.errExists
		}
		return nil, fmt.Errorf("failed to add recipe to %s: %w", set.table, err)
	}
	return recipe, nil
}

func (db *DB) removeFromSet(ctx context.Context, set recipeSet, userID, recipeID int64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE user_id = ? AND recipe_id = ?`, set.table),
		userID, recipeID)
	observe("delete", set.table, start, err)
	if err != nil {
		return fmt.Errorf("failed to remove recipe from %s: %w", set.table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n > 0 {
		return nil
	}

	if _, err := db.GetRecipeShort(ctx, recipeID); err != nil {
		if errors.Is(err, ErrRecipeNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	return set.errAbsent
}
