// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

/*
Package middleware provides HTTP middleware shared by every route.

Key Components:

  - RequestID: keeps or generates X-Request-ID and puts it in the logging context
  - AccessLog: one structured log line per completed request
  - PrometheusMetrics: request count, latency and in-flight gauge labelled by
    chi route pattern

All middleware has the func(http.Handler) http.Handler shape and is
installed with chi's r.Use:

	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)

Route patterns are only known after chi has matched the route, so
PrometheusMetrics reads the pattern after the wrapped handler returns.
*/
package middleware
