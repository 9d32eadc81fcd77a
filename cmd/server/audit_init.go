// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/foodgram/internal/audit"
	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/database"
	"github.com/tomtom215/foodgram/internal/logging"
)

// initAudit creates the audit trail in the application database. It returns
// nil when AUDIT_ENABLED=false. The caller runs the logger as a data-layer
// service.
func initAudit(ctx context.Context, cfg *config.Config, db *database.DB) (*audit.Logger, error) {
	if !cfg.Audit.Enabled {
		logging.Info().Msg("Audit trail disabled (AUDIT_ENABLED=false)")
		return nil, nil
	}

	store := audit.NewDuckDBStore(db.Conn())
	if err := store.CreateTable(ctx); err != nil {
		return nil, fmt.Errorf("failed to create audit table: %w", err)
	}

	logger := audit.NewLogger(store, audit.Config{
		RetentionDays:   cfg.Audit.RetentionDays,
		CleanupInterval: cfg.Audit.CleanupInterval,
		BufferSize:      cfg.Audit.BufferSize,
	})
	logging.Info().
		Int("retention_days", cfg.Audit.RetentionDays).
		Int("buffer_size", cfg.Audit.BufferSize).
		Msg("Audit trail initialized")
	return logger, nil
}
