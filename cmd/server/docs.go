// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package main provides the Foodgram HTTP server
//
// @title Foodgram API
// @version 1.0
// @description Recipe sharing backend: recipes with tags and ingredients, favorites,
// @description subscriptions to authors and a downloadable shopping list.
// @description
// @description ## Authentication
// @description
// @description Obtain a token from `/api/auth/token/login` and send it as
// @description `Authorization: Token <token>`. `Bearer` is accepted too.
// @description Anonymous callers can read recipes, tags, ingredients and users.
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address.
// @description Login is additionally limited per email address.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "success": false,
// @description   "error": {
// @description     "code": "VALIDATION_FAILED",
// @description     "message": "Human-readable error message",
// @description     "details": {"fields": {"email": "..."}}
// @description   },
// @description   "meta": {"request_id": "...", "timestamp": "2026-01-01T12:00:00Z"}
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/foodgram/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8000
// @BasePath /api
// @schemes http https
//
// @securityDefinitions.apikey TokenAuth
// @in header
// @name Authorization
// @description "Token <jwt>" or "Bearer <jwt>".
//
// @tag.name Auth
// @tag.description Token issue and revocation
//
// @tag.name Users
// @tag.description Registration, profiles, password change and subscriptions
//
// @tag.name Catalog
// @tag.description Tags and ingredients reference data
//
// @tag.name Recipes
// @tag.description Recipes, favorites, shopping cart and shopping list download
//
// @tag.name Core
// @tag.description Health checks
package main
