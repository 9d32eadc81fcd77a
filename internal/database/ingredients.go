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
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/models"
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// ListIngredients returns ingredients ordered by name. A non-empty prefix
// keeps only names that start with it, case-insensitively.
func (db *DB) ListIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT id, name, measurement_unit FROM ingredients`
	var args []interface{}
	if prefix != "" {
		query += ` WHERE starts_with(lower(name), lower(?))`
		args = append(args, prefix)
	}
	query += ` ORDER BY name, measurement_unit`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	observe("select", "ingredients", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	defer rows.Close()

	ingredients := []models.Ingredient{}
	for rows.Next() {
		var in models.Ingredient
		if err := rows.Scan(&in.ID, &in.Name, &in.MeasurementUnit); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, in)
	}
	return ingredients, rows.Err()
}

// GetIngredient returns one ingredient.
func (db *DB) GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var in models.Ingredient
	err := db.conn.QueryRowContext(ctx, `SELECT id, name, measurement_unit FROM ingredients WHERE id = ?`, id).
		Scan(&in.ID, &in.Name, &in.MeasurementUnit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrIngredientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ingredient %d: %w", id, err)
	}
	return &in, nil
}

// CreateIngredient inserts an ingredient.
func (db *DB) CreateIngredient(ctx context.Context, in models.Ingredient) (*models.Ingredient, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO ingredients (name, measurement_unit) VALUES (?, ?) RETURNING id`,
		in.Name, in.MeasurementUnit,
	).Scan(&in.ID)
	observe("insert", "ingredients", start, err)
	if err != nil {
		if isConstraintViolation(err) {
			return nil, ErrIngredientExists
		}
		return nil, fmt.Errorf("failed to create ingredient: %w", err)
	}
	return &in, nil
}

// LoadIngredientsFixture reads a JSON array of {"name", "measurement_unit"}
// objects from path and inserts them when the ingredients table is empty.
// It returns the number of rows inserted.
func (db *DB) LoadIngredientsFixture(ctx context.Context, path string) (int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var existing int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM ingredients`).Scan(&existing); err != nil {
		return 0, fmt.Errorf("failed to count ingredients: %w", err)
	}
	if existing > 0 {
		logging.Debug().Int("existing", existing).Msg("Ingredients already present, skipping fixture")
		return 0, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return 0, fmt.Errorf("failed to read ingredients fixture: %w", err)
	}

	var items []models.Ingredient
	if err := json.Unmarshal(data, &items); err != nil {
		return 0, fmt.Errorf("failed to parse ingredients fixture: %w", err)
	}

	seen := make(map[[2]string]struct{}, len(items))
	inserted := 0
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		for _, item := range items {
			key := [2]string{item.Name, item.MeasurementUnit}
			if item.Name == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO ingredients (name, measurement_unit) VALUES (?, ?)`,
				item.Name, item.MeasurementUnit); err != nil {
				return fmt.Errorf("failed to insert ingredient %q: %w", item.Name, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logging.Info().Int("count", inserted).Str("path", path).Msg("Loaded ingredients fixture")
	return inserted, nil
}

// missingIDs returns the ids that have no row in table. table is always a
// constant supplied by the caller.
func missingIDs(ctx context.Context, q querier, table string, ids []int64) ([]int64, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT id FROM %s WHERE id IN (%s)`, table, placeholders(len(ids)))
	rows, err := q.QueryContext(ctx, query, int64Args(ids)...)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s ids: %w", table, err)
	}
	defer rows.Close()

	found := make(map[int64]struct{}, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan %s id: %w", table, err)
		}
		found[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []int64
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func missingIngredientIDs(ctx context.Context, q querier, ids []int64) ([]int64, error) {
	return missingIDs(ctx, q, "ingredients", ids)
}
