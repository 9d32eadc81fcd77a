// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

/*
Package api provides the HTTP REST API layer for Foodgram.

Every endpoint lives under /api and answers with the standard JSON envelope
(APIResponse), except the shopping list download which streams a document.

Key Components:

  - Router: chi route table, global middleware and the /api middleware stack
  - Handler: request handlers for users, tokens, tags, ingredients, recipes,
    favorites, the shopping cart and subscriptions
  - ResponseWriter: envelope formatting with request IDs and pagination
  - respondDomainError: maps store and validation errors to status codes
  - ChiMiddleware: CORS, httprate limits and security headers

Middleware Stack (per /api request):

 1. Request ID, trusted-proxy real IP, access log, panic recovery, CORS
 2. Rate limiting, security headers, Prometheus metrics
 3. Token authentication (optional; anonymous callers continue as guests)
 4. Casbin route authorization (401 for guests, 403 for signed-in users)
 5. JSON compression

Pagination:

List endpoints for users, recipes and subscriptions accept page and limit and
report totals in meta.pagination. Tags and ingredients are never paginated.

Change Notification:

Writes that affect derived views publish an events.Event through the
EventNotifier. The shopping list cache consumes cart and recipe changes.
*/
package api
