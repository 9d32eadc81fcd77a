// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

/*
Package events carries domain change notifications between components.

After a committed write the HTTP handlers publish one of:

  - cart.changed (user_id): a recipe entered or left a user's cart
  - recipe.changed (recipe_id): a recipe was edited or deleted
  - favorite.changed (user_id)
  - subscription.changed (user_id)

The shopping list cache is the main consumer: it drops a user's cached list
on cart.changed and every cached list on recipe.changed.

# Transports

gochannel (default) is in-process. Publishing blocks until the consumers
acked, so a request that changed the cart returns only after the cache was
invalidated.

nats uses core NATS subjects without a queue group, so every replica sees
every event and invalidates its own cache. EmbeddedServer starts a NATS
server in-process for single-node setups.

# Resilience

Publisher wraps publishing in a gobreaker circuit breaker; once open,
publishes fail fast until the timeout elapses. Router adds watermill's
Recoverer and Retry middleware to every consumer.
*/
package events
