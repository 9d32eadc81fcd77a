// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto and are
exposed at /metrics in Prometheus text format:

	curl http://localhost:8000/metrics

# Available Metrics

Database:
  - duckdb_query_duration_seconds{operation, table}
  - duckdb_query_errors_total{operation, table, error_type}

API:
  - api_requests_total{method, endpoint, status_code}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Authentication:
  - auth_login_attempts_total{result}
  - auth_tokens_revoked_total
  - authz_decisions_total{role, result}

Recipes and shopping list:
  - recipe_status_batch_size
  - shopping_list_lines
  - shopping_list_overflow_lines_total
  - shopping_list_downloads_total{format}

Cache:
  - cache_hits_total{cache_type}
  - cache_misses_total{cache_type}
  - cache_entries{cache_type}
  - cache_evictions_total{cache_type, reason}

Events and circuit breaker:
  - events_published_total{topic}
  - event_publish_failures_total{topic}
  - events_consumed_total{topic}
  - circuit_breaker_state{name}
  - circuit_breaker_requests_total{name, result}
  - circuit_breaker_state_transitions_total{name, from_state, to_state}

# Usage

	start := time.Now()
	rows, err := conn.QueryContext(ctx, query)
	metrics.RecordDBQuery("select", "recipes", time.Since(start), err)

Label values must stay low-cardinality. Endpoints are recorded as route
patterns (/api/recipes/{id}), never raw paths.
*/
package metrics
