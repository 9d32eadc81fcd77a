// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package models

import "time"

// Roles recognised by the route policy. Each role inherits the one before it.
const (
	RoleGuest = "guest"
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a registered account. Email is the login identifier.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         string    `json:"-"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`

	// IsSubscribed is computed for the viewer and is false for anonymous viewers.
	IsSubscribed bool `json:"is_subscribed"`
}

// NewUser holds the fields needed to register an account.
type NewUser struct {
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         string
}

// Subscription is an author as seen from a follower's subscriptions page.
type Subscription struct {
	User
	Recipes      []RecipeShort `json:"recipes"`
	RecipesCount int           `json:"recipes_count"`
}
