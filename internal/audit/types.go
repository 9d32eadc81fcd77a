// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package audit

import (
	"context"
	"time"

	"github.com/goccy/go-json"
)

// EventType categorizes audit events.
type EventType string

const (
	// Authentication events
	EventTypeLoginSuccess   EventType = "auth.success"
	EventTypeLoginFailure   EventType = "auth.failure"
	EventTypeLoginThrottled EventType = "auth.throttled"
	EventTypeLogout         EventType = "auth.logout"

	// Authorization events
	EventTypeAuthzDenied EventType = "authz.denied"

	// Account events
	EventTypeUserCreated     EventType = "user.created"
	EventTypePasswordChanged EventType = "user.password_changed"
	EventTypeRoleAssigned    EventType = "user.role_assigned"
)

// Severity indicates the severity level of an audit event.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Outcome indicates whether an action succeeded or failed.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Actor types.
const (
	ActorUser      = "user"
	ActorAnonymous = "anonymous"
	ActorSystem    = "system"
)

// Event is one security-relevant action.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Severity  Severity  `json:"severity"`
	Outcome   Outcome   `json:"outcome"`
	Actor     Actor     `json:"actor"`
	Target    *Target   `json:"target,omitempty"`
	Source    Source    `json:"source"`

	// Action is a short verb such as "login" or "authorize".
	Action      string          `json:"action"`
	Description string          `json:"description"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	RequestID   string          `json:"request_id,omitempty"`
}

// Actor is who performed the action. ID is the user ID for users and the
// attempted email for failed logins.
type Actor struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
}

// Target is the object of the action.
type Target struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

// Source is where the request came from.
type Source struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent,omitempty"`
}

// Store persists audit events.
type Store interface {
	Save(ctx context.Context, event *Event) error

	// Query returns matching events, newest first.
	Query(ctx context.Context, filter QueryFilter) ([]Event, error)
	Count(ctx context.Context, filter QueryFilter) (int64, error)

	// Delete removes events older than olderThan and returns how many.
	Delete(ctx context.Context, olderThan time.Time) (int64, error)
}

// QueryFilter narrows an audit query. Empty fields match everything.
type QueryFilter struct {
	Types     []EventType `json:"types,omitempty"`
	Outcomes  []Outcome   `json:"outcomes,omitempty"`
	ActorID   string      `json:"actor_id,omitempty"`
	SourceIP  string      `json:"source_ip,omitempty"`
	StartTime *time.Time  `json:"start_time,omitempty"`
	EndTime   *time.Time  `json:"end_time,omitempty"`
	Limit     int         `json:"limit,omitempty"`
	Offset    int         `json:"offset,omitempty"`
}

// matches reports whether event passes every criterion except paging.
//
//nolint:gocyclo // one branch per criterion
func (f *QueryFilter) matches(event *Event) bool {
	if len(f.Types) > 0 && !contains(f.Types, event.Type) {
		return false
	}
	if len(f.Outcomes) > 0 && !contains(f.Outcomes, event.Outcome) {
		return false
	}
	if f.ActorID != "" && event.Actor.ID != f.ActorID {
		return false
	}
	if f.SourceIP != "" && event.Source.IPAddress != f.SourceIP {
		return false
	}
	if f.StartTime != nil && event.Timestamp.Before(*f.StartTime) {
		return false
	}
	if f.EndTime != nil && event.Timestamp.After(*f.EndTime) {
		return false
	}
	return true
}

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
