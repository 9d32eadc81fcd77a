// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package services adapts components without a native Serve method to
// suture.Service: the HTTP server and signal-driven reloads. Components that
// already implement Serve and String (events.Router, auth.RevocationStore,
// auth.LoginThrottle, events.EmbeddedServer) are added to the tree directly.
package services
