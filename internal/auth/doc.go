// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

/*
Package auth handles credentials and caller identity.

Login exchanges an email and password for an HS256 JWT. Every token carries
a random id (jti) so that logout can revoke it; revoked ids live in a badger
store with a TTL equal to the token's remaining lifetime.

Components:

  - JWTManager: issues and validates tokens
  - HashPassword, CheckPassword, ValidatePassword: bcrypt hashing and the
    password policy (length, common passwords, numeric-only, similarity to
    account details)
  - LoginThrottle: per-email token bucket limiting login attempts
  - RevocationStore: badger-backed set of logged-out token ids
  - Middleware: resolves the caller from "Authorization: Token <jwt>",
    "Authorization: Bearer <jwt>" or the "token" cookie

Authentication never decides route access on its own. Anonymous requests
pass through with no claims and the authz package decides what a guest may
reach.
*/
package auth
