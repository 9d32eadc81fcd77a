// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/foodgram/internal/audit"
	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/database"
	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/models"
)

// seedDatabase loads the ingredient fixture and bootstraps the admin account.
func seedDatabase(ctx context.Context, db *database.DB, cfg *config.Config, auditLog *audit.Logger) error {
	if path := cfg.Database.IngredientsFixture; path != "" {
		n, err := db.LoadIngredientsFixture(ctx, path)
		if err != nil {
			return fmt.Errorf("failed to load ingredients fixture: %w", err)
		}
		if n > 0 {
			logging.Info().Int("count", n).Str("path", path).Msg("Ingredients fixture loaded")
		}
	}

	if cfg.Security.AdminEmail == "" {
		return nil
	}
	return bootstrapAdmin(ctx, db, cfg.Security, auditLog)
}

// bootstrapAdmin promotes ADMIN_EMAIL to admin. The account is only created
// when ADMIN_PASSWORD is set.
func bootstrapAdmin(ctx context.Context, db *database.DB, sec config.SecurityConfig, auditLog *audit.Logger) error {
	email := strings.ToLower(strings.TrimSpace(sec.AdminEmail))

	if sec.AdminPassword == "" {
		user, err := db.GetUserByEmail(ctx, email)
		if errors.Is(err, database.ErrUserNotFound) {
			logging.Warn().Msg("ADMIN_EMAIL has no account yet and ADMIN_PASSWORD is not set; no admin created")
			return nil
		}
		if err != nil {
			return err
		}
		if user.Role == models.RoleAdmin {
			return nil
		}
		if err := db.SetRole(ctx, user.ID, models.RoleAdmin); err != nil {
			return fmt.Errorf("failed to promote admin: %w", err)
		}
		auditLog.LogRoleAssigned(ctx, user.ID, user.Email, models.RoleAdmin)
		logging.Info().Int64("admin_id", user.ID).Msg("Existing account promoted to admin")
		return nil
	}

	hash, err := auth.HashPassword(sec.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	wasAdmin := false
	if existing, err := db.GetUserByEmail(ctx, email); err == nil {
		wasAdmin = existing.Role == models.RoleAdmin
	}

	username := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		username = email[:at]
	}

	user, created, err := db.EnsureAdmin(ctx, models.NewUser{
		Email:        email,
		Username:     username,
		FirstName:    "Site",
		LastName:     "Admin",
		PasswordHash: hash,
	})
	if err != nil {
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	}
	if !wasAdmin {
		auditLog.LogRoleAssigned(ctx, user.ID, user.Email, models.RoleAdmin)
	}
	logging.Info().Int64("admin_id", user.ID).Bool("created", created).Msg("Admin account ready")
	return nil
}
