// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/foodgram/internal/config"
)

// Transports.
const (
	TransportGoChannel = "gochannel"
	TransportNATS      = "nats"
)

// Bus pairs a watermill publisher and subscriber on one transport.
type Bus struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber

	transport string
	prefix    string
}

// NewBus builds the transport named in cfg. natsURL overrides cfg.NATSURL,
// which is how the embedded server's address is passed in.
//
// gochannel publishes block until every subscriber acked, so consumers have
// finished before the publishing request returns. NATS uses core
// subscriptions without a queue group: every process receives every event.
func NewBus(cfg config.EventsConfig, natsURL string, logger watermill.LoggerAdapter) (*Bus, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	if natsURL == "" {
		natsURL = cfg.NATSURL
	}

	switch cfg.Transport {
	case "", TransportGoChannel:
		ch := gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer:            64,
			BlockPublishUntilSubscriberAck: true,
		}, logger)
		return &Bus{Publisher: ch, Subscriber: ch, transport: TransportGoChannel, prefix: cfg.TopicPrefix}, nil

	case TransportNATS:
		if natsURL == "" {
			return nil, errors.New("nats transport requires a server URL")
		}
		natsOpts := natsOptions(logger)

		pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
			URL:         natsURL,
			NatsOptions: natsOpts,
			Marshaler:   &wmNats.NATSMarshaler{},
			JetStream:   wmNats.JetStreamConfig{Disabled: true},
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("create watermill publisher: %w", err)
		}

		sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
			URL:              natsURL,
			SubscribersCount: 1,
			AckWaitTimeout:   30 * time.Second,
			CloseTimeout:     30 * time.Second,
			NatsOptions:      natsOpts,
			Unmarshaler:      &wmNats.NATSMarshaler{},
			JetStream:        wmNats.JetStreamConfig{Disabled: true},
		}, logger)
		if err != nil {
			_ = pub.Close()
			return nil, fmt.Errorf("create watermill subscriber: %w", err)
		}
		return &Bus{Publisher: pub, Subscriber: sub, transport: TransportNATS, prefix: cfg.TopicPrefix}, nil

	default:
		return nil, fmt.Errorf("unknown event transport %q", cfg.Transport)
	}
}

func natsOptions(logger watermill.LoggerAdapter) []natsgo.Option {
	return []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}
}

// Topic maps an event type to its bus topic.
func (b *Bus) Topic(eventType string) string {
	if b.prefix == "" {
		return eventType
	}
	return b.prefix + "." + eventType
}

// Transport names the transport in use.
func (b *Bus) Transport() string {
	return b.transport
}

// Close closes the publisher and, when distinct, the subscriber.
func (b *Bus) Close() error {
	err := b.Publisher.Close()
	if b.transport != TransportGoChannel {
		err = errors.Join(err, b.Subscriber.Close())
	}
	return err
}
