// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/foodgram/internal/config"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// maxOffset bounds the row offset a page number can reach.
const maxOffset = math.MaxInt32

// decodeJSON reads the request body into dst. Unknown fields are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrInvalidBody)
		}
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return nil
}

// pathID parses the {id} URL parameter as a positive integer.
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// getIntParam extracts an integer query parameter with a default value
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// getBoolParam treats "1" and "true" as set.
func getBoolParam(r *http.Request, key string) bool {
	switch strings.ToLower(r.URL.Query().Get(key)) {
	case "1", "true":
		return true
	default:
		return false
	}
}

// page is a resolved page-number pagination request.
type page struct {
	Number int
	Limit  int
}

func (p page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// Meta describes the page given the total item count and the items returned.
func (p page) Meta(total, count int) *PaginationMeta {
	return &PaginationMeta{
		Total:   total,
		Count:   count,
		Page:    p.Number,
		Limit:   p.Limit,
		HasMore: p.Offset()+count < total,
	}
}

// parsePage reads page and limit. A missing or non-positive limit falls back
// to the configured default, and limit is capped at the configured maximum.
// Page numbers past maxOffset are clamped, which still yields an empty page.
func parsePage(r *http.Request, cfg config.APIConfig) page {
	p := page{
		Number: getIntParam(r, "page", 1),
		Limit:  getIntParam(r, "limit", cfg.DefaultPageSize),
	}
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Limit < 1 {
		p.Limit = cfg.DefaultPageSize
	}
	if cfg.MaxPageSize > 0 && p.Limit > cfg.MaxPageSize {
		p.Limit = cfg.MaxPageSize
	}
	if p.Limit > 0 && p.Number > maxOffset/p.Limit+1 {
		p.Number = maxOffset/p.Limit + 1
	}
	return p
}
