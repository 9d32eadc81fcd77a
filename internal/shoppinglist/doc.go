// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package shoppinglist turns a user's cart into a consolidated shopping list.
//
// Consolidation is a single grouped sum in the store: one line per distinct
// ingredient across every recipe in the cart. Service flags lines whose
// 64-bit total exceeds shopping_list.max_line_total and caches the result in
// an LRU keyed by user; the cache listens for cart.changed and
// recipe.changed events. Renderers produce the downloadable document, one
// "name (unit) — amount" line per ingredient, as PDF or plain text.
package shoppinglist
