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

// Subscribe makes userID follow authorID. Following yourself is rejected
// before anything is written.
func (db *DB) Subscribe(ctx context.Context, userID, authorID int64) error {
	if userID == authorID {
		return ErrSelfSubscription
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if err := db.checkAuthor(ctx, authorID); err != nil {
		return err
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO subscriptions (user_id, author_id, created_at) VALUES (?, ?, ?)`,
		userID, authorID, time.Now().UTC())
	observe("insert", "subscriptions", start, err)
	if err != nil {
		if isDuplicateInsert(err) {
			return ErrAlreadySubscribed
		}
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	return nil
}

// Unsubscribe removes the follow from userID to authorID. An unknown author
// is ErrUserNotFound, an existing one not followed is ErrNotSubscribed.
func (db *DB) Unsubscribe(ctx context.Context, userID, authorID int64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if err := db.checkAuthor(ctx, authorID); err != nil {
		return err
	}

	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE user_id = ? AND author_id = ?`, userID, authorID)
	observe("delete", "subscriptions", start, err)
	if err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotSubscribed
	}
	return nil
}

func (db *DB) checkAuthor(ctx context.Context, authorID int64) error {
	var exists bool
	if err := db.conn.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = ?)`, authorID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check author: %w", err)
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}

// ListSubscriptions returns a page of the authors userID follows, each with
// its newest recipes (at most recipesLimit, all when recipesLimit <= 0) and
// its total recipe count, plus the total number of followed authors.
func (db *DB) ListSubscriptions(ctx context.Context, userID int64, recipesLimit, limit, offset int) ([]models.Subscription, int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var total int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, (SELECT COUNT(*) FROM recipes r WHERE r.author_id = u.id)
		FROM subscriptions s JOIN users u ON u.id = s.author_id
		WHERE s.user_id = ?
		ORDER BY u.id
		LIMIT ? OFFSET ?`, userColumns)

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, userID, limit, offset)
	observe("select", "subscriptions", start, err)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	subs := []models.Subscription{}
	for rows.Next() {
		var sub models.Subscription
		if err := scanUser(rows, &sub.User, &sub.RecipesCount); err != nil {
			closeQuietly(rows)
			return nil, 0, fmt.Errorf("failed to scan subscription: %w", err)
		}
		sub.IsSubscribed = true
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		closeQuietly(rows)
		return nil, 0, fmt.Errorf("failed to iterate subscriptions: %w", err)
	}
	closeQuietly(rows)

	if err := db.attachAuthorRecipes(ctx, subs, recipesLimit); err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// GetSubscription returns authorID in subscription form as seen by viewerID.
func (db *DB) GetSubscription(ctx context.Context, viewerID, authorID int64, recipesLimit int) (*models.Subscription, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	author, err := db.GetUserByID(ctx, viewerID, authorID)
	if err != nil {
		return nil, err
	}

	sub := models.Subscription{User: *author}
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM recipes WHERE author_id = ?`, authorID).Scan(&sub.RecipesCount); err != nil {
		return nil, fmt.Errorf("failed to count author recipes: %w", err)
	}

	subs := []models.Subscription{sub}
	if err := db.attachAuthorRecipes(ctx, subs, recipesLimit); err != nil {
		return nil, err
	}
	return &subs[0], nil
}

// attachAuthorRecipes loads the newest recipes of every author in subs with
// a single windowed query.
func (db *DB) attachAuthorRecipes(ctx context.Context, subs []models.Subscription, recipesLimit int) error {
	if len(subs) == 0 {
		return nil
	}

	ids := make([]int64, len(subs))
	index := make(map[int64]int, len(subs))
	for i := range subs {
		subs[i].Recipes = []models.RecipeShort{}
		ids[i] = subs[i].ID
		index[subs[i].ID] = i
	}

	query := fmt.Sprintf(`
		SELECT author_id, id, name, image, cooking_time FROM (
			SELECT r.author_id, r.id, r.name, r.image, r.cooking_time,
				row_number() OVER (PARTITION BY r.author_id ORDER BY r.id DESC) AS rn
			FROM recipes r
			WHERE r.author_id IN (%s)
		) ranked`, placeholders(len(ids)))
	args := int64Args(ids)
	if recipesLimit > 0 {
		query += ` WHERE rn <= ?`
		args = append(args, recipesLimit)
	}
	query += ` ORDER BY author_id, id DESC`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to load author recipes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var authorID int64
		var r models.RecipeShort
		if err := rows.Scan(&authorID, &r.ID, &r.Name, &r.Image, &r.CookingTime); err != nil {
			return fmt.Errorf("failed to scan author recipe: %w", err)
		}
		i := index[authorID]
		subs[i].Recipes = append(subs[i].Recipes, r)
	}
	return rows.Err()
}
