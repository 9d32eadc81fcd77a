// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/foodgram/internal/logging"
)

// LoginThrottle limits login attempts per account key (the lower-cased
// email). Each key gets a token bucket holding attempts tokens that refills
// one token every window/attempts.
type LoginThrottle struct {
	mu       sync.Mutex
	limiters map[string]*throttleEntry
	limit    rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
}

type throttleEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLoginThrottle allows attempts logins per window for each key.
// A non-positive attempts value disables throttling.
func NewLoginThrottle(attempts int, window time.Duration) *LoginThrottle {
	t := &LoginThrottle{
		limiters: make(map[string]*throttleEntry),
		burst:    attempts,
		idle:     window,
		now:      time.Now,
	}
	if attempts > 0 && window > 0 {
		t.limit = rate.Every(window / time.Duration(attempts))
	} else {
		t.limit = rate.Inf
	}
	return t
}

// Allow consumes one attempt for key and reports whether it may proceed.
func (t *LoginThrottle) Allow(key string) bool {
	if t.limit == rate.Inf {
		return true
	}
	key = strings.ToLower(strings.TrimSpace(key))
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.limiters[key]
	if !ok {
		e = &throttleEntry{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.limiters[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// Reset forgets key after a successful login.
func (t *LoginThrottle) Reset(key string) {
	key = strings.ToLower(strings.TrimSpace(key))
	t.mu.Lock()
	delete(t.limiters, key)
	t.mu.Unlock()
}

// Prune drops keys idle for longer than the window. A key idle that long has
// a full bucket again, so dropping it changes nothing.
func (t *LoginThrottle) Prune() int {
	cutoff := t.now().Add(-t.idle)

	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for key, e := range t.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(t.limiters, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (t *LoginThrottle) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.limiters)
}

// Serve prunes idle keys until ctx is done. It satisfies suture.Service.
func (t *LoginThrottle) Serve(ctx context.Context) error {
	interval := t.idle
	if interval <= 0 || interval > 10*time.Minute {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := t.Prune(); n > 0 {
				logging.Debug().Int("removed", n).Msg("Pruned idle login throttle entries")
			}
		}
	}
}

// String names the service in supervisor logs.
func (t *LoginThrottle) String() string {
	return "login-throttle"
}
