// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package metrics

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

// histogramCount reads the sample count of a histogram through the client_model DTO.
func histogramCount(t *testing.T, h prometheus.Observer) uint64 {
	t.Helper()
	m, ok := h.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T is not a metric", h)
	}
	var out dto.Metric
	if err := m.Write(&out); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	return out.GetHistogram().GetSampleCount()
}

func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		table     string
		err       error
		wantType  string
	}{
		{name: "success", operation: "select", table: "recipes"},
		{name: "constraint", operation: "insert", table: "carts", err: errors.New("Constraint Error: Duplicate key \"user_id: 1\""), wantType: "constraint"},
		{name: "timeout", operation: "select", table: "users", err: fmt.Errorf("query: %w", context.DeadlineExceeded), wantType: "timeout"},
		{name: "canceled", operation: "select", table: "tags", err: context.Canceled, wantType: "canceled"},
		{name: "conflict", operation: "update", table: "recipes", err: errors.New("TransactionContext Error: Conflict on update"), wantType: "conflict"},
		{name: "other", operation: "delete", table: "favorites", err: errors.New("disk full"), wantType: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hist := DBQueryDuration.WithLabelValues(tt.operation, tt.table)
			before := histogramCount(t, hist)

			var errBefore float64
			if tt.err != nil {
				errBefore = testutil.ToFloat64(DBQueryErrors.WithLabelValues(tt.operation, tt.table, tt.wantType))
			}

			RecordDBQuery(tt.operation, tt.table, 5*time.Millisecond, tt.err)

			if got := histogramCount(t, hist); got != before+1 {
				t.Errorf("histogram count = %d, want %d", got, before+1)
			}
			if tt.err != nil {
				got := testutil.ToFloat64(DBQueryErrors.WithLabelValues(tt.operation, tt.table, tt.wantType))
				if got != errBefore+1 {
					t.Errorf("error counter for %q = %v, want %v", tt.wantType, got, errBefore+1)
				}
			}
		})
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/recipes", "200"))
	RecordAPIRequest("GET", "/api/recipes", "200", 20*time.Millisecond)
	RecordAPIRequest("GET", "/api/recipes", "200", 30*time.Millisecond)

	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/recipes", "200")); got != before+2 {
		t.Errorf("api_requests_total = %v, want %v", got, before+2)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+2 {
		t.Errorf("active requests = %v, want %v", got, before+2)
	}
	TrackActiveRequest(false)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active requests = %v, want %v", got, before)
	}
}

func TestRecordShoppingList(t *testing.T) {
	overflowBefore := testutil.ToFloat64(ShoppingListOverflows)
	linesBefore := histogramCount(t, ShoppingListLines)

	RecordShoppingList(3, 0)
	RecordShoppingList(2, 1)

	if got := histogramCount(t, ShoppingListLines); got != linesBefore+2 {
		t.Errorf("lines histogram count = %d, want %d", got, linesBefore+2)
	}
	if got := testutil.ToFloat64(ShoppingListOverflows); got != overflowBefore+1 {
		t.Errorf("overflow counter = %v, want %v", got, overflowBefore+1)
	}
}

func TestRecordEventPublish(t *testing.T) {
	const topic = "test.metrics"
	RecordEventPublish(topic, nil)
	RecordEventPublish(topic, nil)
	RecordEventPublish(topic, errors.New("nats: no responders"))

	if got := testutil.ToFloat64(EventsPublished.WithLabelValues(topic)); got != 2 {
		t.Errorf("published = %v, want 2", got)
	}
	if got := testutil.ToFloat64(EventPublishFailures.WithLabelValues(topic)); got != 1 {
		t.Errorf("failures = %v, want 1", got)
	}
}

func TestRecordCircuitBreakerTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     float64
	}{
		{"closed", "open", 2},
		{"open", "half-open", 1},
		{"half-open", "closed", 0},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			RecordCircuitBreakerTransition("test-breaker", tt.from, tt.to)
			if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("test-breaker")); got != tt.want {
				t.Errorf("state = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConcurrentMetricRecording(t *testing.T) {
	const workers = 20
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/recipes/{id}/favorite", "201"))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RecordAPIRequest("POST", "/api/recipes/{id}/favorite", "201", time.Millisecond)
			RecordDBQuery("insert", "favorites", time.Millisecond, nil)
		}()
	}
	wg.Wait()

	got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/recipes/{id}/favorite", "201"))
	if got != before+workers {
		t.Errorf("api_requests_total = %v, want %v", got, before+workers)
	}
}

func TestMetricGathering(t *testing.T) {
	RecordDBQuery("select", "recipes", time.Millisecond, nil)

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, p := range problems {
		t.Logf("metric lint problem: %s: %s", p.Metric, p.Text)
	}
}

func TestSetAppInfo(t *testing.T) {
	SetAppInfo("1.2.3")
	SetAppInfo("1.2.4")

	if n := testutil.CollectAndCount(AppInfo); n != 1 {
		t.Errorf("app_info series = %d, want 1", n)
	}
	if v := testutil.ToFloat64(AppInfo.WithLabelValues("1.2.4", runtime.Version())); v != 1 {
		t.Errorf("app_info = %v, want 1", v)
	}
}
