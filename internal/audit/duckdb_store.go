// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/metrics"
)

// DuckDBStore persists audit events in the application database.
type DuckDBStore struct {
	db *sql.DB
}

// NewDuckDBStore creates a DuckDB-backed store. Call CreateTable before use.
func NewDuckDBStore(db *sql.DB) *DuckDBStore {
	return &DuckDBStore{db: db}
}

var auditSchema = []string{
	`CREATE TABLE IF NOT EXISTS audit_events (
		id TEXT PRIMARY KEY,
		timestamp TIMESTAMPTZ NOT NULL,
		type TEXT NOT NULL,
		severity TEXT NOT NULL,
		outcome TEXT NOT NULL,
		actor_id TEXT NOT NULL,
		actor_type TEXT NOT NULL,
		actor_name TEXT,
		actor_role TEXT,
		target_id TEXT,
		target_type TEXT,
		target_name TEXT,
		source_ip TEXT NOT NULL,
		source_user_agent TEXT,
		action TEXT NOT NULL,
		description TEXT NOT NULL,
		metadata TEXT,
		request_id TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_events(timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_type ON audit_events(type)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_actor_id ON audit_events(actor_id)`,
}

// CreateTable creates the audit_events table if it does not exist.
func (s *DuckDBStore) CreateTable(ctx context.Context) error {
	for _, stmt := range auditSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute audit schema statement: %w", err)
		}
	}
	logging.Debug().Msg("Audit events table created/verified")
	return nil
}

// Save inserts event.
func (s *DuckDBStore) Save(ctx context.Context, event *Event) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}

	var targetID, targetType, targetName sql.NullString
	if event.Target != nil {
		targetID = nullString(event.Target.ID)
		targetType = nullString(event.Target.Type)
		targetName = nullString(event.Target.Name)
	}

	start := time.Now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (
			id, timestamp, type, severity, outcome,
			actor_id, actor_type, actor_name, actor_role,
			target_id, target_type, target_name,
			source_ip, source_user_agent,
			action, description, metadata, request_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.Timestamp.UTC(), string(event.Type), string(event.Severity), string(event.Outcome),
		event.Actor.ID, event.Actor.Type, nullString(event.Actor.Name), nullString(event.Actor.Role),
		targetID, targetType, targetName,
		event.Source.IPAddress, nullString(event.Source.UserAgent),
		event.Action, event.Description, nullString(string(event.Metadata)), nullString(event.RequestID),
	)
	metrics.RecordDBQuery("insert", "audit_events", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to save audit event: %w", err)
	}
	return nil
}

// Query returns matching events, newest first.
func (s *DuckDBStore) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	where, args := buildWhere(filter)
	query := `
		SELECT id, timestamp, type, severity, outcome,
			actor_id, actor_type, actor_name, actor_role,
			target_id, target_type, target_name,
			source_ip, source_user_agent,
			action, description, metadata, request_id
		FROM audit_events` + where + `
		ORDER BY timestamp DESC, id DESC`
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	start := time.Now()
	rows, err := s.db.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("select", "audit_events", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit events: %w", err)
	}
	return events, nil
}

// Count returns the number of matching events.
func (s *DuckDBStore) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	where, args := buildWhere(filter)
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_events"+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count audit events: %w", err)
	}
	return n, nil
}

// Delete removes events older than olderThan.
func (s *DuckDBStore) Delete(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM audit_events WHERE timestamp < ?", olderThan.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete audit events: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read deleted audit event count: %w", err)
	}
	return n, nil
}

// buildWhere renders the filter's criteria as a WHERE clause.
func buildWhere(filter QueryFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if c := inCondition("type", filter.Types, &args); c != "" {
		conditions = append(conditions, c)
	}
	if c := inCondition("outcome", filter.Outcomes, &args); c != "" {
		conditions = append(conditions, c)
	}
	if filter.ActorID != "" {
		conditions = append(conditions, "actor_id = ?")
		args = append(args, filter.ActorID)
	}
	if filter.SourceIP != "" {
		conditions = append(conditions, "source_ip = ?")
		args = append(args, filter.SourceIP)
	}
	if filter.StartTime != nil {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, filter.StartTime.UTC())
	}
	if filter.EndTime != nil {
		conditions = append(conditions, "timestamp <= ?")
		args = append(args, filter.EndTime.UTC())
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func inCondition[T ~string](column string, values []T, args *[]interface{}) string {
	if len(values) == 0 {
		return ""
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		*args = append(*args, string(v))
	}
	return column + " IN (" + strings.Join(placeholders, ", ") + ")"
}

func scanEvent(rows *sql.Rows) (*Event, error) {
	var (
		event                            Event
		eventType, severity, outcome     string
		actorName, actorRole             sql.NullString
		targetID, targetType, targetName sql.NullString
		userAgent, metadata, requestID   sql.NullString
	)
	err := rows.Scan(
		&event.ID, &event.Timestamp, &eventType, &severity, &outcome,
		&event.Actor.ID, &event.Actor.Type, &actorName, &actorRole,
		&targetID, &targetType, &targetName,
		&event.Source.IPAddress, &userAgent,
		&event.Action, &event.Description, &metadata, &requestID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan audit event: %w", err)
	}

	event.Type = EventType(eventType)
	event.Severity = Severity(severity)
	event.Outcome = Outcome(outcome)
	event.Actor.Name = actorName.String
	event.Actor.Role = actorRole.String
	event.Source.UserAgent = userAgent.String
	event.RequestID = requestID.String
	if targetID.Valid {
		event.Target = &Target{ID: targetID.String, Type: targetType.String, Name: targetName.String}
	}
	if metadata.Valid {
		event.Metadata = json.RawMessage(metadata.String)
	}
	return &event, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
