// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/metrics"
)

// ErrPublisherClosed is returned after Close.
var ErrPublisherClosed = errors.New("publisher is closed")

// BreakerConfig tunes the circuit breaker around publishing.
type BreakerConfig struct {
	Name             string
	FailureThreshold uint32
	Timeout          time.Duration
}

// newCircuitBreaker trips after FailureThreshold consecutive failures and
// reports transitions to metrics and the log.
func newCircuitBreaker(cfg BreakerConfig) *gobreaker.CircuitBreaker[struct{}] {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String())
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})
}

// Publisher publishes domain events on a Bus behind a circuit breaker.
type Publisher struct {
	bus     *Bus
	breaker *gobreaker.CircuitBreaker[struct{}]

	mu     sync.RWMutex
	closed bool
}

// NewPublisher creates a publisher on bus.
func NewPublisher(bus *Bus, cfg BreakerConfig) *Publisher {
	if cfg.Name == "" {
		cfg.Name = "events-publisher"
	}
	return &Publisher{bus: bus, breaker: newCircuitBreaker(cfg)}
}

// Publish sends e. With the breaker open it fails fast with
// gobreaker.ErrOpenState.
func (p *Publisher) Publish(ctx context.Context, e Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	msg, err := e.toMessage()
	if err != nil {
		return err
	}
	msg.SetContext(ctx)
	if requestID := logging.RequestIDFromContext(ctx); requestID != "" {
		msg.Metadata.Set("request_id", requestID)
	}

	topic := p.bus.Topic(e.Type)
	_, err = p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.bus.Publisher.Publish(topic, msg)
	})

	result := "success"
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		result = "rejected"
	case err != nil:
		result = "failure"
	}
	metrics.CircuitBreakerRequests.WithLabelValues(p.breaker.Name(), result).Inc()
	metrics.RecordEventPublish(topic, err)

	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", e.Type, err)
	}
	return nil
}

// Notify publishes e and logs a failure instead of returning it. Handlers
// use it after a committed write, where the response must not depend on
// the bus.
func (p *Publisher) Notify(ctx context.Context, e Event) {
	if err := p.Publish(ctx, e); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("event", e.Type).Msg("Event not delivered")
	}
}

// State returns the breaker state name.
func (p *Publisher) State() string {
	return p.breaker.State().String()
}

// Close stops further publishing. The bus is closed by its owner.
func (p *Publisher) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}
