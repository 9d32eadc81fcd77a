// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package authz decides route access with a Casbin RBAC policy.
//
// Roles form a chain: admin inherits user, user inherits guest. Anonymous
// callers are guests. Policy objects and actions are anchored regular
// expressions over the request path and method:
//
//	p, guest, ^/api/recipes(/[0-9]+)?$, ^GET$
//	p, user, ^/api/recipes/[0-9]+/(favorite|shopping_cart)$, ^(POST|DELETE)$
//	p, admin, ^/api/tags$, ^POST$
//	g, user, guest
//	g, admin, user
//
// The model and policy are embedded. security.policy_path replaces the
// policy with a file that can be reloaded at runtime (SIGHUP).
//
// Route permissions are the first layer only. Recipe ownership is checked
// by the recipe handlers.
package authz
