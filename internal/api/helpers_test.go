// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/foodgram/internal/config"
)

func TestParsePage(t *testing.T) {
	t.Parallel()

	cfg := config.APIConfig{DefaultPageSize: 6, MaxPageSize: 100}

	tests := []struct {
		name       string
		query      string
		wantNumber int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 1, 6, 0},
		{"explicit", "page=3&limit=10", 3, 10, 20},
		{"page below one", "page=0", 1, 6, 0},
		{"negative limit", "limit=-5", 1, 6, 0},
		{"limit capped", "limit=1000", 1, 100, 0},
		{"non-numeric", "page=abc&limit=xyz", 1, 6, 0},
		{"huge page clamped", "page=4611686018427387905", 357913942, 6, 2147483646},
		{"huge page with limit", "page=9223372036854775807&limit=100", 21474837, 100, 2147483600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/api/recipes?"+tt.query, nil)
			p := parsePage(req, cfg)
			if p.Number != tt.wantNumber || p.Limit != tt.wantLimit || p.Offset() != tt.wantOffset {
				t.Errorf("parsePage(%q) = %+v offset %d, want %d/%d offset %d",
					tt.query, p, p.Offset(), tt.wantNumber, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestPageMeta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		p        page
		total    int
		count    int
		wantMore bool
	}{
		{"first of three", page{Number: 1, Limit: 2}, 5, 2, true},
		{"last partial", page{Number: 3, Limit: 2}, 5, 1, false},
		{"exact end", page{Number: 2, Limit: 2}, 4, 2, false},
		{"past the end", page{Number: 9, Limit: 2}, 4, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			meta := tt.p.Meta(tt.total, tt.count)
			if meta.HasMore != tt.wantMore {
				t.Errorf("HasMore = %v, want %v", meta.HasMore, tt.wantMore)
			}
			if meta.Total != tt.total || meta.Page != tt.p.Number || meta.Limit != tt.p.Limit {
				t.Errorf("meta = %+v", meta)
			}
		})
	}
}

func TestPathID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"42", 42, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run("id="+tt.raw, func(t *testing.T) {
			t.Parallel()
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.raw)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			got, err := pathID(req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("pathID(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidID) {
				t.Errorf("error = %v, want ErrInvalidID", err)
			}
			if got != tt.want {
				t.Errorf("pathID(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"email":"a@example.com","password":"x"}`, false},
		{"empty", ``, true},
		{"malformed", `{"email":`, true},
		{"too large", `{"email":"` + strings.Repeat("a", maxBodyBytes) + `"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst LoginRequest
			err := decodeJSON(httptest.NewRecorder(), req, &dst)
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodeJSON error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidBody) {
				t.Errorf("error = %v, want ErrInvalidBody", err)
			}
		})
	}
}

func TestGetBoolParam(t *testing.T) {
	t.Parallel()

	for query, want := range map[string]bool{
		"is_favorited=1":     true,
		"is_favorited=true":  true,
		"is_favorited=TRUE":  true,
		"is_favorited=0":     false,
		"is_favorited=false": false,
		"":                   false,
	} {
		req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
		if got := getBoolParam(req, "is_favorited"); got != want {
			t.Errorf("getBoolParam(%q) = %v, want %v", query, got, want)
		}
	}
}
