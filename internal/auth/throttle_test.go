// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package auth

import (
	"context"
	"testing"
	"time"
)

func TestLoginThrottle(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	th := NewLoginThrottle(3, 3*time.Minute)
	th.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !th.Allow("Cook@Example.com") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if th.Allow("cook@example.com") {
		t.Error("fourth attempt within the window should be refused (keys are case-insensitive)")
	}
	if !th.Allow("other@example.com") {
		t.Error("a different account should not be throttled")
	}

	now = now.Add(time.Minute)
	if !th.Allow("cook@example.com") {
		t.Error("one token should refill after window/attempts")
	}

	th.Reset("cook@example.com")
	if !th.Allow("cook@example.com") {
		t.Error("Reset should clear the bucket")
	}
}

func TestLoginThrottleDisabled(t *testing.T) {
	t.Parallel()

	th := NewLoginThrottle(0, time.Minute)
	for i := 0; i < 100; i++ {
		if !th.Allow("cook@example.com") {
			t.Fatal("disabled throttle refused an attempt")
		}
	}
	if th.Len() != 0 {
		t.Errorf("disabled throttle tracked %d keys", th.Len())
	}
}

func TestLoginThrottlePrune(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	th := NewLoginThrottle(5, time.Minute)
	th.now = func() time.Time { return now }

	th.Allow("old@example.com")
	now = now.Add(50 * time.Second)
	th.Allow("new@example.com")
	now = now.Add(20 * time.Second)

	if removed := th.Prune(); removed != 1 {
		t.Errorf("Prune() = %d, want 1", removed)
	}
	if th.Len() != 1 {
		t.Errorf("Len() = %d, want 1", th.Len())
	}
}

func TestLoginThrottleServeStops(t *testing.T) {
	t.Parallel()

	th := NewLoginThrottle(5, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- th.Serve(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not stop after cancel")
	}
}
