// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/foodgram/internal/metrics"
	"github.com/tomtom215/foodgram/internal/models"
)

// MissingReferenceError reports tag or ingredient ids of a recipe write that
// do not exist.
type MissingReferenceError struct {
	Kind string // "tags" or "ingredients"
	IDs  []int64
}

func (e *MissingReferenceError) Error() string {
	parts := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("unknown %s: %s", e.Kind, strings.Join(parts, ", "))
}

// CreateRecipe inserts a recipe with its ingredient and tag rows in one
// transaction and returns it as seen by its author.
func (db *DB) CreateRecipe(ctx context.Context, authorID int64, in models.RecipeInput) (*models.Recipe, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if err := checkDistinctIngredients(in.Ingredients); err != nil {
		return nil, err
	}

	var id int64
	start := time.Now()
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkReferences(ctx, tx, in); err != nil {
			return err
		}

		err := tx.QueryRowContext(ctx, `
			INSERT INTO recipes (author_id, name, image, text, cooking_time, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id`,
			authorID, in.Name, in.Image, in.Text, in.CookingTime, time.Now().UTC(),
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to insert recipe: %w", err)
		}

		for _, ing := range in.Ingredients {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount) VALUES (?, ?, ?)`,
				id, ing.ID, ing.Amount); err != nil {
				return fmt.Errorf("failed to insert recipe ingredient %d: %w", ing.ID, err)
			}
		}
		for _, tagID := range uniqueIDs(in.TagIDs) {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO recipe_tags (recipe_id, tag_id) VALUES (?, ?)`, id, tagID); err != nil {
				return fmt.Errorf("failed to insert recipe tag %d: %w", tagID, err)
			}
		}
		return nil
	})
	observe("insert", "recipes", start, err)
	if err != nil {
		return nil, err
	}

	return db.GetRecipe(ctx, authorID, id)
}

// UpdateRecipe replaces the fields, tags and ingredients of a recipe.
// Join rows are diffed against the stored set: unchanged pairs are kept,
// changed amounts are updated in place, and only dropped pairs are deleted.
func (db *DB) UpdateRecipe(ctx context.Context, recipeID int64, in models.RecipeInput) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if err := checkDistinctIngredients(in.Ingredients); err != nil {
		return err
	}

	start := time.Now()
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE recipes SET name = ?, image = ?, text = ?, cooking_time = ? WHERE id = ?`,
			in.Name, in.Image, in.Text, in.CookingTime, recipeID)
		if err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		} else if n == 0 {
			return ErrRecipeNotFound
		}

		if err := checkReferences(ctx, tx, in); err != nil {
			return err
		}
		if err := syncRecipeIngredients(ctx, tx, recipeID, in.Ingredients); err != nil {
			return err
		}
		return syncRecipeTags(ctx, tx, recipeID, uniqueIDs(in.TagIDs))
	})
	observe("update", "recipes", start, err)
	return err
}

func syncRecipeIngredients(ctx context.Context, tx *sql.Tx, recipeID int64, want []models.IngredientAmount) error {
	current := make(map[int64]int)
	rows, err := tx.QueryContext(ctx,
		`SELECT ingredient_id, amount FROM recipe_ingredients WHERE recipe_id = ?`, recipeID)
	if err != nil {
		return fmt.Errorf("failed to load recipe ingredients: %w", err)
	}
	for rows.Next() {
		var id int64
		var amount int
		if err := rows.Scan(&id, &amount); err != nil {
			closeQuietly(rows)
			return fmt.Errorf("failed to scan recipe ingredient: %w", err)
		}
		current[id] = amount
	}
	if err := rows.Err(); err != nil {
		closeQuietly(rows)
		return err
	}
	closeQuietly(rows)

	for _, ing := range want {
		amount, exists := current[ing.ID]
		var err error
		switch {
		case !exists:
			_, err = tx.ExecContext(ctx,
				`INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount) VALUES (?, ?, ?)`,
				recipeID, ing.ID, ing.Amount)
		case amount != ing.Amount:
			_, err = tx.ExecContext(ctx,
				`UPDATE recipe_ingredients SET amount = ? WHERE recipe_id = ? AND ingredient_id = ?`,
				ing.Amount, recipeID, ing.ID)
		}
		if err != nil {
			return fmt.Errorf("failed to write recipe ingredient %d: %w", ing.ID, err)
		}
		delete(current, ing.ID)
	}

	for id := range current {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM recipe_ingredients WHERE recipe_id = ? AND ingredient_id = ?`, recipeID, id); err != nil {
			return fmt.Errorf("failed to remove recipe ingredient %d: %w", id, err)
		}
	}
	return nil
}

func syncRecipeTags(ctx context.Context, tx *sql.Tx, recipeID int64, want []int64) error {
	current := make(map[int64]struct{})
	rows, err := tx.QueryContext(ctx, `SELECT tag_id FROM recipe_tags WHERE recipe_id = ?`, recipeID)
	if err != nil {
		return fmt.Errorf("failed to load recipe tags: %w", err)
	}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			closeQuietly(rows)
			return fmt.Errorf("failed to scan recipe tag: %w", err)
		}
		current[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		closeQuietly(rows)
		return err
	}
	closeQuietly(rows)

	for _, id := range want {
		if _, ok := current[id]; ok {
			delete(current, id)
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recipe_tags (recipe_id, tag_id) VALUES (?, ?)`, recipeID, id); err != nil {
			return fmt.Errorf("failed to add recipe tag %d: %w", id, err)
		}
	}
	for id := range current {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM recipe_tags WHERE recipe_id = ? AND tag_id = ?`, recipeID, id); err != nil {
			return fmt.Errorf("failed to remove recipe tag %d: %w", id, err)
		}
	}
	return nil
}

// DeleteRecipe removes a recipe together with its ingredient, tag, favorite
// and cart rows.
func (db *DB) DeleteRecipe(ctx context.Context, recipeID int64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"recipe_ingredients", "recipe_tags", "favorites", "carts"} {
			if _, err := tx.ExecContext(ctx,
				fmt.Sprintf(`DELETE FROM %s WHERE recipe_id = ?`, table), recipeID); err != nil {
				return fmt.Errorf("failed to delete %s of recipe %d: %w", table, recipeID, err)
			}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, recipeID)
		if err != nil {
			return fmt.Errorf("failed to delete recipe %d: %w", recipeID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if n == 0 {
			return ErrRecipeNotFound
		}
		return nil
	})
	observe("delete", "recipes", start, err)
	return err
}

// RecipeAuthorID returns the author of a recipe.
func (db *DB) RecipeAuthorID(ctx context.Context, recipeID int64) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var authorID int64
	err := db.conn.QueryRowContext(ctx, `SELECT author_id FROM recipes WHERE id = ?`, recipeID).Scan(&authorID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrRecipeNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get recipe author: %w", err)
	}
	return authorID, nil
}

// GetRecipe returns one recipe annotated for viewerID.
func (db *DB) GetRecipe(ctx context.Context, viewerID, recipeID int64) (*models.Recipe, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query, args := recipeSelect(viewerID)
	query += ` WHERE r.id = ?`
	args = append(args, recipeID)

	recipes, err := db.queryRecipes(ctx, query, args)
	if err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return nil, ErrRecipeNotFound
	}
	return &recipes[0], nil
}

// GetRecipeShort returns the compact form of a recipe.
func (db *DB) GetRecipeShort(ctx context.Context, recipeID int64) (*models.RecipeShort, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var r models.RecipeShort
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, image, cooking_time FROM recipes WHERE id = ?`, recipeID,
	).Scan(&r.ID, &r.Name, &r.Image, &r.CookingTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe %d: %w", recipeID, err)
	}
	return &r, nil
}

// ListRecipes returns a page of recipes, newest first, annotated for
// filter.ViewerID, together with the total number of matching recipes.
// The favorited and in-cart filters are ignored for the anonymous viewer.
func (db *DB) ListRecipes(ctx context.Context, filter models.RecipeFilter) ([]models.Recipe, int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, whereArgs := recipeWhere(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM recipes r` + where
	if err := db.conn.QueryRowContext(ctx, countQuery, whereArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	query, args := recipeSelect(filter.ViewerID)
	query += where + ` ORDER BY r.id DESC`
	args = append(args, whereArgs...)
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	recipes, err := db.queryRecipes(ctx, query, args)
	if err != nil {
		return nil, 0, err
	}
	if filter.ViewerID != 0 && len(recipes) > 0 {
		metrics.RecipeStatusBatchSize.Observe(float64(len(recipes)))
	}
	return recipes, total, nil
}

// recipeSelect builds the annotated recipe projection joined with its author.
func recipeSelect(viewerID int64) (string, []interface{}) {
	favExpr, cartExpr, args := statusExprs(viewerID, "r")
	subExpr, subArgs := subscribedExpr(viewerID, "u")
	query := fmt.Sprintf(`SELECT r.id, r.name, r.image, r.text, r.cooking_time, r.created_at,
		%s, %s, %s, %s
		FROM recipes r JOIN users u ON u.id = r.author_id`,
		userColumns, subExpr, favExpr, cartExpr)

	// Argument order follows placeholder order: subscribed, then favorited and in-cart.
	return query, append(subArgs, args...)
}

func recipeWhere(filter models.RecipeFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if filter.AuthorID > 0 {
		conds = append(conds, `r.author_id = ?`)
		args = append(args, filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		conds = append(conds, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id
			WHERE rt.recipe_id = r.id AND t.slug IN (%s))`, placeholders(len(filter.TagSlugs))))
		for _, slug := range filter.TagSlugs {
			args = append(args, slug)
		}
	}
	if filter.ViewerID != 0 {
		favExpr, cartExpr, _ := statusExprs(filter.ViewerID, "r")
		if filter.Favorited {
			conds = append(conds, favExpr)
			args = append(args, filter.ViewerID)
		}
		if filter.InCart {
			conds = append(conds, cartExpr)
			args = append(args, filter.ViewerID)
		}
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// queryRecipes runs a recipeSelect query and attaches tags and ingredients
// for the whole page with one query each.
func (db *DB) queryRecipes(ctx context.Context, query string, args []interface{}) ([]models.Recipe, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	observe("select", "recipes", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}

	recipes := []models.Recipe{}
	for rows.Next() {
		var r models.Recipe
		err := rows.Scan(&r.ID, &r.Name, &r.Image, &r.Text, &r.CookingTime, &r.CreatedAt,
			&r.Author.ID, &r.Author.Email, &r.Author.Username, &r.Author.FirstName, &r.Author.LastName,
			&r.Author.Role, &r.Author.PasswordHash, &r.Author.CreatedAt,
			&r.Author.IsSubscribed, &r.IsFavorited, &r.IsInShoppingCart)
		if err != nil {
			closeQuietly(rows)
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		r.Tags = []models.Tag{}
		r.Ingredients = []models.RecipeIngredient{}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		closeQuietly(rows)
		return nil, fmt.Errorf("failed to iterate recipes: %w", err)
	}
	closeQuietly(rows)

	if len(recipes) == 0 {
		return recipes, nil
	}

	ids := make([]int64, len(recipes))
	index := make(map[int64]int, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
		index[r.ID] = i
	}

	if err := db.attachTags(ctx, ids, recipes, index); err != nil {
		return nil, err
	}
	if err := db.attachIngredients(ctx, ids, recipes, index); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (db *DB) attachTags(ctx context.Context, ids []int64, recipes []models.Recipe, index map[int64]int) error {
	rows, err := db.conn.QueryContext(ctx, fmt.Sprintf(`
		SELECT rt.recipe_id, t.id, t.name, t.color, t.slug
		FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id
		WHERE rt.recipe_id IN (%s)
		ORDER BY t.name`, placeholders(len(ids))), int64Args(ids)...)
	if err != nil {
		return fmt.Errorf("failed to load recipe tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recipeID int64
		var t models.Tag
		if err := rows.Scan(&recipeID, &t.ID, &t.Name, &t.Color, &t.Slug); err != nil {
			return fmt.Errorf("failed to scan recipe tag: %w", err)
		}
		i := index[recipeID]
		recipes[i].Tags = append(recipes[i].Tags, t)
	}
	return rows.Err()
}

func (db *DB) attachIngredients(ctx context.Context, ids []int64, recipes []models.Recipe, index map[int64]int) error {
	rows, err := db.conn.QueryContext(ctx, fmt.Sprintf(`
		SELECT ri.recipe_id, i.id, i.name, i.measurement_unit, ri.amount
		FROM recipe_ingredients ri JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id IN (%s)
		ORDER BY i.name`, placeholders(len(ids))), int64Args(ids)...)
	if err != nil {
		return fmt.Errorf("failed to load recipe ingredients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recipeID int64
		var ri models.RecipeIngredient
		if err := rows.Scan(&recipeID, &ri.ID, &ri.Name, &ri.MeasurementUnit, &ri.Amount); err != nil {
			return fmt.Errorf("failed to scan recipe ingredient: %w", err)
		}
		i := index[recipeID]
		recipes[i].Ingredients = append(recipes[i].Ingredients, ri)
	}
	return rows.Err()
}

func checkDistinctIngredients(items []models.IngredientAmount) error {
	seen := make(map[int64]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.ID]; dup {
			return ErrDuplicateIngredient
		}
		seen[it.ID] = struct{}{}
	}
	return nil
}

func checkReferences(ctx context.Context, q querier, in models.RecipeInput) error {
	missingTags, err := missingTagIDs(ctx, q, in.TagIDs)
	if err != nil {
		return err
	}
	if len(missingTags) > 0 {
		return &MissingReferenceError{Kind: "tags", IDs: missingTags}
	}

	ingredientIDs := make([]int64, len(in.Ingredients))
	for i, it := range in.Ingredients {
		ingredientIDs[i] = it.ID
	}
	missingIngredients, err := missingIngredientIDs(ctx, q, ingredientIDs)
	if err != nil {
		return err
	}
	if len(missingIngredients) > 0 {
		return &MissingReferenceError{Kind: "ingredients", IDs: missingIngredients}
	}
	return nil
}
