// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package main

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/events"
	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/supervisor"
)

// EventComponents holds the event bus and the pieces built on it.
type EventComponents struct {
	Bus       *events.Bus
	Publisher *events.Publisher
	Router    *events.Router
}

// initEvents builds the bus for the configured transport. With an embedded
// server the server starts here, so its URL is known before the bus
// connects, and is then handed to the messaging layer.
//
// Consumers must be registered on Router before the tree starts.
func initEvents(cfg *config.Config, tree *supervisor.SupervisorTree, logger *slog.Logger) (*EventComponents, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	var natsURL string
	if cfg.Events.Transport == events.TransportNATS && cfg.Events.EmbeddedServer {
		ns, err := events.NewEmbeddedServer(cfg.Events.EmbeddedHost, cfg.Events.EmbeddedPort)
		if err != nil {
			return nil, fmt.Errorf("failed to start embedded NATS server: %w", err)
		}
		natsURL = ns.ClientURL()
		tree.AddMessagingService(ns)
		logging.Info().Str("url", natsURL).Msg("Embedded NATS server started")
	}

	bus, err := events.NewBus(cfg.Events, natsURL, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}

	router, err := events.NewRouter(bus, events.DefaultRouterConfig(), wmLogger)
	if err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("failed to create event router: %w", err)
	}

	publisher := events.NewPublisher(bus, events.BreakerConfig{
		Name:             "events",
		FailureThreshold: cfg.Events.BreakerFailureThreshold,
		Timeout:          cfg.Events.BreakerTimeout,
	})

	logging.Info().Str("transport", bus.Transport()).Msg("Event bus initialized")
	return &EventComponents{Bus: bus, Publisher: publisher, Router: router}, nil
}

// Close releases the publisher and the bus connections.
func (c *EventComponents) Close() {
	c.Publisher.Close()
	if err := c.Bus.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing event bus")
	}
}
