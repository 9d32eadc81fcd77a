// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

/*
Package audit records security-relevant actions: logins and their failures,
throttled logins, logouts, registrations, password changes, role grants and
requests refused by the route policy.

Events are written through a Logger to a Store. DuckDBStore keeps them in
the audit_events table of the application database; MemoryStore is used by
tests and when persistence is not wanted.

# Delivery

With a positive buffer the Logger queues events and a single goroutine
(Logger.Serve, run under the supervisor's data layer) writes them. When the
queue is full the event is dropped, counted in audit_events_dropped_total
and logged. A zero buffer writes synchronously, which tests rely on.

Serve also deletes events older than the retention period on every cleanup
tick.

# Usage

	store := audit.NewDuckDBStore(db.Conn())
	if err := store.CreateTable(ctx); err != nil {
	    return err
	}
	logger := audit.NewLogger(store, audit.DefaultConfig())
	tree.AddDataService(logger)

	logger.LogLoginFailure(ctx, email, audit.SourceFromRequest(r), "bad password")

Admins read the trail through GET /api/audit/events.
*/
package audit
