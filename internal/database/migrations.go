// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/foodgram/internal/logging"
)

// Migration is one versioned schema change. Statements run in order and the
// version is recorded in schema_migrations once all of them succeed.
type Migration struct {
	Version     int
	Name        string
	Description string
	Statements  []string
	AppliedAt   time.Time
}

const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	applied_at TIMESTAMP NOT NULL
);
`

// getMigrations returns every migration in version order.
//
// DuckDB does not cascade foreign keys and checks them eagerly inside a
// transaction, so referential integrity between these tables is enforced by
// the query layer. Unique pairs are primary keys; the index behind each one
// also serves the per-recipe EXISTS lookups.
func (db *DB) getMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Name:        "initial_schema",
			Description: "Users, tags, ingredients, recipes and their join tables",
			Statements: []string{
				`CREATE SEQUENCE IF NOT EXISTS users_id_seq START 1`,
				`CREATE TABLE IF NOT EXISTS users (
					id BIGINT PRIMARY KEY DEFAULT nextval('users_id_seq'),
					email TEXT NOT NULL UNIQUE,
					username TEXT NOT NULL UNIQUE,
					first_name TEXT NOT NULL,
					last_name TEXT NOT NULL,
					password_hash TEXT NOT NULL,
					role TEXT NOT NULL DEFAULT 'user',
					created_at TIMESTAMP NOT NULL
				)`,
				`CREATE SEQUENCE IF NOT EXISTS tags_id_seq START 1`,
				`CREATE TABLE IF NOT EXISTS tags (
					id BIGINT PRIMARY KEY DEFAULT nextval('tags_id_seq'),
					name TEXT NOT NULL UNIQUE,
					color TEXT NOT NULL UNIQUE,
					slug TEXT NOT NULL UNIQUE
				)`,
				`CREATE SEQUENCE IF NOT EXISTS ingredients_id_seq START 1`,
				`CREATE TABLE IF NOT EXISTS ingredients (
					id BIGINT PRIMARY KEY DEFAULT nextval('ingredients_id_seq'),
					name TEXT NOT NULL,
					measurement_unit TEXT NOT NULL,
					UNIQUE (name, measurement_unit)
				)`,
				`CREATE SEQUENCE IF NOT EXISTS recipes_id_seq START 1`,
				`CREATE TABLE IF NOT EXISTS recipes (
					id BIGINT PRIMARY KEY DEFAULT nextval('recipes_id_seq'),
					author_id BIGINT NOT NULL,
					name TEXT NOT NULL,
					image TEXT NOT NULL DEFAULT '',
					text TEXT NOT NULL,
					cooking_time INTEGER NOT NULL CHECK (cooking_time > 0),
					created_at TIMESTAMP NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_recipes_author ON recipes(author_id)`,
				`CREATE TABLE IF NOT EXISTS recipe_ingredients (
					recipe_id BIGINT NOT NULL,
					ingredient_id BIGINT NOT NULL,
					amount INTEGER NOT NULL CHECK (amount > 0),
					PRIMARY KEY (recipe_id, ingredient_id)
				)`,
				`CREATE TABLE IF NOT EXISTS recipe_tags (
					recipe_id BIGINT NOT NULL,
					tag_id BIGINT NOT NULL,
					PRIMARY KEY (recipe_id, tag_id)
				)`,
				`CREATE TABLE IF NOT EXISTS favorites (
					user_id BIGINT NOT NULL,
					recipe_id BIGINT NOT NULL,
					created_at TIMESTAMP NOT NULL,
					PRIMARY KEY (user_id, recipe_id)
				)`,
				`CREATE TABLE IF NOT EXISTS carts (
					user_id BIGINT NOT NULL,
					recipe_id BIGINT NOT NULL,
					created_at TIMESTAMP NOT NULL,
					PRIMARY KEY (user_id, recipe_id)
				)`,
				`CREATE TABLE IF NOT EXISTS subscriptions (
					user_id BIGINT NOT NULL,
					author_id BIGINT NOT NULL,
					created_at TIMESTAMP NOT NULL,
					PRIMARY KEY (user_id, author_id),
					CHECK (user_id <> author_id)
				)`,
			},
		},
		{
			Version:     2,
			Name:        "join_table_lookup_indexes",
			Description: "Reverse lookups used by cascades and per-recipe counts",
			Statements: []string{
				`CREATE INDEX IF NOT EXISTS idx_recipe_ingredients_ingredient ON recipe_ingredients(ingredient_id)`,
				`CREATE INDEX IF NOT EXISTS idx_favorites_recipe ON favorites(recipe_id)`,
				`CREATE INDEX IF NOT EXISTS idx_carts_recipe ON carts(recipe_id)`,
				`CREATE INDEX IF NOT EXISTS idx_subscriptions_author ON subscriptions(author_id)`,
			},
		},
	}
}

func (db *DB) createMigrationsTable(ctx context.Context) error {
	_, err := db.conn.ExecContext(ctx, schemaMigrationsTable)
	return err
}

func (db *DB) getAppliedMigrations(ctx context.Context) (map[int]Migration, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT version, name, description, applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]Migration)
	for rows.Next() {
		var m Migration
		if err := rows.Scan(&m.Version, &m.Name, &m.Description, &m.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[m.Version] = m
	}
	return applied, rows.Err()
}

// runVersionedMigrations applies every migration not yet recorded.
func (db *DB) runVersionedMigrations() error {
	ctx, cancel := schemaContext()
	defer cancel()

	if err := db.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := db.getAppliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	newMigrations := 0
	for _, m := range db.getMigrations() {
		if _, exists := applied[m.Version]; exists {
			continue
		}

		for i, stmt := range m.Statements {
			if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to execute migration v%d (%s) statement %d: %w", m.Version, m.Name, i+1, err)
			}
		}

		_, err := db.conn.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, name, description, applied_at) VALUES (?, ?, ?, ?)`,
			m.Version, m.Name, m.Description, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to record migration v%d: %w", m.Version, err)
		}

		newMigrations++
	}

	if newMigrations > 0 {
		logging.Info().Int("count", newMigrations).Msg("Applied database migrations")
	}

	return nil
}

// GetCurrentSchemaVersion returns the highest applied migration version.
func (db *DB) GetCurrentSchemaVersion(ctx context.Context) (int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var version int
	err := db.conn.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
