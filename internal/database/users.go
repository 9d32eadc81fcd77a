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

const userColumns = `u.id, u.email, u.username, u.first_name, u.last_name, u.role, u.password_hash, u.created_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// subscribedExpr returns the is_subscribed column for viewer against the
// user aliased as alias. The anonymous viewer gets a constant FALSE.
func subscribedExpr(viewerID int64, alias string) (string, []interface{}) {
	if viewerID == 0 {
		return "FALSE", nil
	}
	return fmt.Sprintf("EXISTS (SELECT 1 FROM subscriptions s WHERE s.user_id = ? AND s.author_id = %s.id)", alias),
		[]interface{}{viewerID}
}

func scanUser(row rowScanner, u *models.User, extra ...interface{}) error {
	dest := []interface{}{&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName, &u.Role, &u.PasswordHash, &u.CreatedAt}
	return row.Scan(append(dest, extra...)...)
}

// CreateUser registers a new account and returns it.
func (db *DB) CreateUser(ctx context.Context, nu models.NewUser) (*models.User, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if nu.Role == "" {
		nu.Role = models.RoleUser
	}
	email := strings.TrimSpace(nu.Email)

	// Report which field clashes; the unique indexes still guard the race.
	var emailTaken, usernameTaken bool
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			EXISTS (SELECT 1 FROM users WHERE lower(email) = lower(?)),
			EXISTS (SELECT 1 FROM users WHERE username = ?)`,
		email, nu.Username).Scan(&emailTaken, &usernameTaken)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if emailTaken {
		return nil, ErrEmailTaken
	}
	if usernameTaken {
		return nil, ErrUsernameTaken
	}

	start := time.Now()
	createdAt := time.Now().UTC()
	var id int64
	err = db.conn.QueryRowContext(ctx, `
		INSERT INTO users (email, username, first_name, last_name, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		email, nu.Username, nu.FirstName, nu.LastName, nu.PasswordHash, nu.Role, createdAt,
	).Scan(&id)
	observe("insert", "users", start, err)
	if err != nil {
		if isConstraintViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &models.User{
		ID:           id,
		Email:        email,
		Username:     nu.Username,
		FirstName:    nu.FirstName,
		LastName:     nu.LastName,
		Role:         nu.Role,
		PasswordHash: nu.PasswordHash,
		CreatedAt:    createdAt,
	}, nil
}

// GetUserByID returns a user with is_subscribed computed for viewerID.
func (db *DB) GetUserByID(ctx context.Context, viewerID, id int64) (*models.User, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	subExpr, args := subscribedExpr(viewerID, "u")
	query := fmt.Sprintf(`SELECT %s, %s FROM users u WHERE u.id = ?`, userColumns, subExpr)
	args = append(args, id)

	var u models.User
	start := time.Now()
	err := scanUser(db.conn.QueryRowContext(ctx, query, args...), &u, &u.IsSubscribed)
	observe("select", "users", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &u, nil
}

// GetUserByEmail looks a user up by login email, case-insensitively.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM users u WHERE lower(u.email) = lower(?)`, userColumns)

	var u models.User
	start := time.Now()
	err := scanUser(db.conn.QueryRowContext(ctx, query, strings.TrimSpace(email)), &u)
	observe("select", "users", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, nil
}

// ListUsers returns a page of users ordered by id and the total count.
func (db *DB) ListUsers(ctx context.Context, viewerID int64, limit, offset int) ([]models.User, int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var total int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	subExpr, args := subscribedExpr(viewerID, "u")
	query := fmt.Sprintf(`SELECT %s, %s FROM users u ORDER BY u.id LIMIT ? OFFSET ?`, userColumns, subExpr)
	args = append(args, limit, offset)

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	observe("select", "users", start, err)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := scanUser(rows, &u, &u.IsSubscribed); err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, total, nil
}

// SetPassword replaces a user's password hash.
func (db *DB) SetPassword(ctx context.Context, userID int64, passwordHash string) error {
	return db.updateUserColumn(ctx, userID, "password_hash", passwordHash)
}

// SetRole changes a user's role.
func (db *DB) SetRole(ctx context.Context, userID int64, role string) error {
	return db.updateUserColumn(ctx, userID, "role", role)
}

func (db *DB) updateUserColumn(ctx context.Context, userID int64, column, value string) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	// column is one of the fixed names passed by SetPassword and SetRole.
	res, err := db.conn.ExecContext(ctx, fmt.Sprintf(`UPDATE users SET %s = ? WHERE id = ?`, column), value, userID)
	observe("update", "users", start, err)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", column, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// EnsureAdmin makes sure the account with nu.Email exists and holds the admin
// role. An existing account keeps its password; a new one is created from nu.
// The boolean reports whether the account was created.
func (db *DB) EnsureAdmin(ctx context.Context, nu models.NewUser) (*models.User, bool, error) {
	existing, err := db.GetUserByEmail(ctx, nu.Email)
	switch {
	case err == nil:
		if existing.Role != models.RoleAdmin {
			if err := db.SetRole(ctx, existing.ID, models.RoleAdmin); err != nil {
				return nil, false, err
			}
			existing.Role = models.RoleAdmin
		}
		return existing, false, nil
	case !errors.Is(err, ErrUserNotFound):
		return nil, false, err
	}

	nu.Role = models.RoleAdmin
	created, err := db.CreateUser(ctx, nu)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}
