// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package events

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Event types. The bus topic is the type, optionally prefixed.
const (
	CartChanged         = "cart.changed"
	RecipeChanged       = "recipe.changed"
	FavoriteChanged     = "favorite.changed"
	SubscriptionChanged = "subscription.changed"
)

// Types lists every event type the application publishes.
var Types = []string{CartChanged, RecipeChanged, FavoriteChanged, SubscriptionChanged}

// Event is a domain change notification. It carries ids only; consumers
// read current state from the store.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	UserID     int64     `json:"user_id,omitempty"`
	RecipeID   int64     `json:"recipe_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// New creates an event of the given type with a fresh id.
func New(eventType string, userID, recipeID int64) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		UserID:     userID,
		RecipeID:   recipeID,
		OccurredAt: time.Now().UTC(),
	}
}

// toMessage encodes e as a watermill message whose UUID is the event id.
func (e Event) toMessage() (*message.Message, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event: %w", err)
	}
	msg := message.NewMessage(e.ID, payload)
	msg.Metadata.Set("type", e.Type)
	return msg, nil
}

// Decode reads an event from a message payload.
func Decode(msg *message.Message) (Event, error) {
	var e Event
	if err := json.Unmarshal(msg.Payload, &e); err != nil {
		return Event{}, fmt.Errorf("failed to decode event %s: %w", msg.UUID, err)
	}
	if e.Type == "" {
		return Event{}, fmt.Errorf("event %s has no type", msg.UUID)
	}
	return e, nil
}
