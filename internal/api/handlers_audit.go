// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"net/http"

	"github.com/tomtom215/foodgram/internal/audit"
)

// ListAuditEvents returns the security audit trail, newest first.
//
// @Summary List audit events (admin)
// @Tags Core
// @Produce json
// @Security TokenAuth
// @Param type query []string false "Event types" collectionFormat(multi)
// @Param outcome query string false "success or failure"
// @Param actor query string false "Actor ID (user ID or attempted email)"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size"
// @Success 200 {object} APIResponse{data=[]audit.Event}
// @Failure 403 {object} APIResponse
// @Failure 503 {object} APIResponse "Audit trail disabled"
// @Router /audit/events [get]
func (h *Handler) ListAuditEvents(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.audit == nil {
		rw.ServiceUnavailable("Audit trail is disabled")
		return
	}

	q := r.URL.Query()
	filter := audit.QueryFilter{ActorID: q.Get("actor")}
	for _, t := range q["type"] {
		filter.Types = append(filter.Types, audit.EventType(t))
	}
	if outcome := q.Get("outcome"); outcome != "" {
		filter.Outcomes = []audit.Outcome{audit.Outcome(outcome)}
	}

	total, err := h.audit.Count(r.Context(), filter)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	p := parsePage(r, h.config.API)
	filter.Limit = p.Limit
	filter.Offset = p.Offset()
	events, err := h.audit.Query(r.Context(), filter)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.SuccessWithPagination(events, p.Meta(int(total), len(events)))
}
