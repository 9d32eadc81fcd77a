// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package audit

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/metrics"
)

// Config holds audit logger settings.
type Config struct {
	RetentionDays   int
	CleanupInterval time.Duration

	// BufferSize is the async queue length. Zero writes every event
	// synchronously in the caller's goroutine.
	BufferSize int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		RetentionDays:   90,
		CleanupInterval: 24 * time.Hour,
		BufferSize:      1000,
	}
}

// Logger records audit events. With a buffer it must be run as a service
// (see Serve); events are queued and written by that goroutine. All methods
// are no-ops on a nil *Logger.
type Logger struct {
	config Config
	store  Store
	queue  chan *Event
	now    func() time.Time
	log    zerolog.Logger
}

// NewLogger creates a logger writing to store.
func NewLogger(store Store, config Config) *Logger {
	l := &Logger{config: config, store: store, now: time.Now, log: logging.Component("audit")}
	if config.BufferSize > 0 {
		l.queue = make(chan *Event, config.BufferSize)
	}
	return l
}

// Serve writes queued events and runs retention cleanup until ctx is
// cancelled, then drains the queue. It implements suture.Service.
func (l *Logger) Serve(ctx context.Context) error {
	var tick <-chan time.Time
	if l.config.CleanupInterval > 0 && l.config.RetentionDays > 0 {
		ticker := time.NewTicker(l.config.CleanupInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			l.drain()
			return ctx.Err()
		case event := <-l.queue:
			l.write(event)
		case <-tick:
			l.Cleanup(ctx)
		}
	}
}

func (l *Logger) String() string { return "audit-logger" }

func (l *Logger) drain() {
	for {
		select {
		case event := <-l.queue:
			l.write(event)
		default:
			return
		}
	}
}

// Cleanup deletes events past the retention period.
func (l *Logger) Cleanup(ctx context.Context) {
	cutoff := l.now().AddDate(0, 0, -l.config.RetentionDays)
	n, err := l.store.Delete(ctx, cutoff)
	if err != nil {
		l.log.Error().Err(err).Msg("Audit cleanup failed")
		return
	}
	if n > 0 {
		l.log.Info().Int64("count", n).Msg("Cleaned up old audit events")
	}
}

func (l *Logger) write(event *Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.store.Save(ctx, event); err != nil {
		l.log.Error().Err(err).Str("event_type", string(event.Type)).Msg("Failed to save audit event")
	}
}

// Log records event, filling in its ID and timestamp.
func (l *Logger) Log(event *Event) {
	if l == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = l.now().UTC()
	}
	metrics.AuditEvents.WithLabelValues(string(event.Type), string(event.Outcome)).Inc()

	if l.queue == nil {
		l.write(event)
		return
	}
	select {
	case l.queue <- event:
	default:
		metrics.AuditEventsDropped.Inc()
		l.log.Warn().Str("event_type", string(event.Type)).Msg("Audit event buffer full, dropping event")
	}
}

// Query returns matching events, newest first.
func (l *Logger) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	return l.store.Query(ctx, filter)
}

// Count returns the number of matching events.
func (l *Logger) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	return l.store.Count(ctx, filter)
}

// LogLoginSuccess records a token issued to userID.
func (l *Logger) LogLoginSuccess(ctx context.Context, userID int64, email, role string, src Source) {
	l.Log(&Event{
		Type:        EventTypeLoginSuccess,
		Severity:    SeverityInfo,
		Outcome:     OutcomeSuccess,
		Actor:       UserActor(userID, email, role),
		Source:      src,
		Action:      "login",
		Description: "Token issued",
		RequestID:   logging.RequestIDFromContext(ctx),
	})
}

// LogLoginFailure records rejected credentials for email.
func (l *Logger) LogLoginFailure(ctx context.Context, email string, src Source, reason string) {
	l.Log(&Event{
		Type:        EventTypeLoginFailure,
		Severity:    SeverityWarning,
		Outcome:     OutcomeFailure,
		Actor:       Actor{ID: email, Type: ActorAnonymous, Name: email},
		Source:      src,
		Action:      "login",
		Description: "Login failed: " + reason,
		Metadata:    mustJSON(map[string]string{"reason": reason}),
		RequestID:   logging.RequestIDFromContext(ctx),
	})
}

// LogLoginThrottled records a login refused by the per-email limiter.
func (l *Logger) LogLoginThrottled(ctx context.Context, email string, src Source) {
	l.Log(&Event{
		Type:        EventTypeLoginThrottled,
		Severity:    SeverityCritical,
		Outcome:     OutcomeFailure,
		Actor:       Actor{ID: email, Type: ActorAnonymous, Name: email},
		Source:      src,
		Action:      "login",
		Description: "Too many failed logins",
		RequestID:   logging.RequestIDFromContext(ctx),
	})
}

// LogLogout records the revocation of tokenID.
func (l *Logger) LogLogout(ctx context.Context, userID int64, role, tokenID string, src Source) {
	l.Log(&Event{
		Type:        EventTypeLogout,
		Severity:    SeverityInfo,
		Outcome:     OutcomeSuccess,
		Actor:       UserActor(userID, "", role),
		Target:      &Target{ID: tokenID, Type: "token"},
		Source:      src,
		Action:      "logout",
		Description: "Token revoked",
		RequestID:   logging.RequestIDFromContext(ctx),
	})
}

// LogUserCreated records a registration.
func (l *Logger) LogUserCreated(ctx context.Context, userID int64, email string, src Source) {
	l.Log(&Event{
		Type:        EventTypeUserCreated,
		Severity:    SeverityInfo,
		Outcome:     OutcomeSuccess,
		Actor:       Actor{ID: email, Type: ActorAnonymous, Name: email},
		Target:      &Target{ID: strconv.FormatInt(userID, 10), Type: "user", Name: email},
		Source:      src,
		Action:      "register",
		Description: "Account created",
		RequestID:   logging.RequestIDFromContext(ctx),
	})
}

// LogPasswordChanged records a password change by userID.
func (l *Logger) LogPasswordChanged(ctx context.Context, userID int64, role string, src Source, success bool) {
	event := &Event{
		Type:        EventTypePasswordChanged,
		Severity:    SeverityInfo,
		Outcome:     OutcomeSuccess,
		Actor:       UserActor(userID, "", role),
		Target:      &Target{ID: strconv.FormatInt(userID, 10), Type: "user"},
		Source:      src,
		Action:      "set_password",
		Description: "Password changed",
		RequestID:   logging.RequestIDFromContext(ctx),
	}
	if !success {
		event.Severity = SeverityWarning
		event.Outcome = OutcomeFailure
		event.Description = "Password change rejected: current password mismatch"
	}
	l.Log(event)
}

// LogRoleAssigned records role granted to userID by the system.
func (l *Logger) LogRoleAssigned(ctx context.Context, userID int64, email, role string) {
	l.Log(&Event{
		Type:        EventTypeRoleAssigned,
		Severity:    SeverityWarning,
		Outcome:     OutcomeSuccess,
		Actor:       SystemActor(),
		Target:      &Target{ID: strconv.FormatInt(userID, 10), Type: "user", Name: email},
		Source:      Source{IPAddress: "local"},
		Action:      "assign_role",
		Description: "Role " + role + " assigned",
		Metadata:    mustJSON(map[string]string{"role": role}),
		RequestID:   logging.RequestIDFromContext(ctx),
	})
}

// LogAuthzDenied records a request refused by the route policy.
func (l *Logger) LogAuthzDenied(ctx context.Context, userID int64, role string, src Source, method, path string) {
	actor := Actor{ID: "", Type: ActorAnonymous, Role: role}
	if userID != 0 {
		actor = UserActor(userID, "", role)
	}
	l.Log(&Event{
		Type:        EventTypeAuthzDenied,
		Severity:    SeverityWarning,
		Outcome:     OutcomeFailure,
		Actor:       actor,
		Target:      &Target{ID: path, Type: "route"},
		Source:      src,
		Action:      "authorize",
		Description: "Access denied for " + method + " " + path,
		Metadata:    mustJSON(map[string]string{"method": method, "path": path}),
		RequestID:   logging.RequestIDFromContext(ctx),
	})
}

func mustJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("{}")
	}
	return data
}

// SourceFromRequest describes the client of r. RemoteAddr is expected to
// have been resolved by the real-IP middleware already.
func SourceFromRequest(r *http.Request) Source {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return Source{IPAddress: ip, UserAgent: r.UserAgent()}
}

// UserActor describes an authenticated user.
func UserActor(userID int64, name, role string) Actor {
	return Actor{ID: strconv.FormatInt(userID, 10), Type: ActorUser, Name: name, Role: role}
}

// SystemActor describes the server itself.
func SystemActor() Actor {
	return Actor{ID: "system", Type: ActorSystem, Name: "Foodgram"}
}
