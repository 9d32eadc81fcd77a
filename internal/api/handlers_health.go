// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"net/http"
	"time"
)

// HealthStatus is the body of the health endpoint.
type HealthStatus struct {
	Status            string  `json:"status"`
	DatabaseConnected bool    `json:"database_connected"`
	Uptime            float64 `json:"uptime_seconds"`
}

// Health reports whether the database answers.
//
// @Summary Get system health status
// @Tags Core
// @Produce json
// @Success 200 {object} APIResponse{data=HealthStatus} "Healthy"
// @Failure 503 {object} APIResponse "Database unreachable"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbConnected := h.db != nil && h.db.Ping(r.Context()) == nil

	rw := NewResponseWriter(w, r)
	if !dbConnected {
		rw.ServiceUnavailable("database unreachable")
		return
	}
	rw.Success(HealthStatus{
		Status:            "healthy",
		DatabaseConnected: true,
		Uptime:            time.Since(h.startTime).Seconds(),
	})
}
