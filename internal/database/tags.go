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

	"github.com/tomtom215/foodgram/internal/models"
)

// ListTags returns every tag ordered by name.
func (db *DB) ListTags(ctx context.Context) ([]models.Tag, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `SELECT id, name, color, slug FROM tags ORDER BY name`)
	observe("select", "tags", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// GetTag returns one tag.
func (db *DB) GetTag(ctx context.Context, id int64) (*models.Tag, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var t models.Tag
	err := db.conn.QueryRowContext(ctx, `SELECT id, name, color, slug FROM tags WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.Color, &t.Slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tag %d: %w", id, err)
	}
	return &t, nil
}

// CreateTag inserts a tag. Colors are stored upper-case so that #abc123 and
// #ABC123 collide on the unique index.
func (db *DB) CreateTag(ctx context.Context, tag models.Tag) (*models.Tag, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tag.Color = strings.ToUpper(tag.Color)

	start := time.Now()
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO tags (name, color, slug) VALUES (?, ?, ?) RETURNING id`,
		tag.Name, tag.Color, tag.Slug,
	).Scan(&tag.ID)
	observe("insert", "tags", start, err)
	if err != nil {
		if isConstraintViolation(err) {
			return nil, ErrTagExists
		}
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return &tag, nil
}

// missingTagIDs returns the ids in ids that have no tag row.
func missingTagIDs(ctx context.Context, q querier, ids []int64) ([]int64, error) {
	return missingIDs(ctx, q, "tags", ids)
}
