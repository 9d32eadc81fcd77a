// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/metrics"
)

// HandlerFunc consumes one decoded event. A returned error nacks the message
// after retries are exhausted.
type HandlerFunc func(ctx context.Context, e Event) error

// RouterConfig holds retry settings for consumers.
type RouterConfig struct {
	CloseTimeout         time.Duration
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
}

// DefaultRouterConfig returns short retries; consumers here only touch
// in-memory state.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         10 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 10 * time.Millisecond,
		RetryMaxInterval:     200 * time.Millisecond,
	}
}

// Router runs event consumers. It satisfies suture.Service.
type Router struct {
	router *message.Router
	bus    *Bus
}

// NewRouter creates a router consuming from bus with panic recovery and
// exponential retry.
func NewRouter(bus *Bus, cfg RouterConfig, logger watermill.LoggerAdapter) (*Router, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	wmRouter, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	wmRouter.AddMiddleware(middleware.Recoverer)
	retry := middleware.Retry{
		MaxRetries:      cfg.RetryMaxRetries,
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
		Multiplier:      2.0,
		Logger:          logger,
	}
	wmRouter.AddMiddleware(retry.Middleware)

	return &Router{router: wmRouter, bus: bus}, nil
}

// AddConsumer registers fn for one event type. Consumers must be added
// before Serve.
func (r *Router) AddConsumer(name, eventType string, fn HandlerFunc) {
	topic := r.bus.Topic(eventType)
	r.router.AddConsumerHandler(name, topic, r.bus.Subscriber, func(msg *message.Message) error {
		e, err := Decode(msg)
		if err != nil {
			// Malformed payloads never succeed; drop them.
			logging.Warn().Err(err).Str("topic", topic).Msg("Dropping undecodable event")
			return nil
		}
		if err := fn(msg.Context(), e); err != nil {
			return err
		}
		metrics.EventsConsumed.WithLabelValues(topic).Inc()
		return nil
	})
}

// Running is closed once all consumers are subscribed.
func (r *Router) Running() chan struct{} {
	return r.router.Running()
}

// Serve runs the router until ctx is done.
func (r *Router) Serve(ctx context.Context) error {
	err := r.router.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		err = errors.New("event router stopped")
	}
	return err
}

// String names the service in supervisor logs.
func (r *Router) String() string {
	return "event-router"
}
