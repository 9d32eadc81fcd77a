// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package database

import (
	"errors"
	"io"
	"strings"
)

// Lookup errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrRecipeNotFound     = errors.New("recipe does not exist")
	ErrTagNotFound        = errors.New("tag not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
)

// Uniqueness errors. These are rejected operations, never server faults.
var (
	ErrEmailTaken          = errors.New("a user with this email already exists")
	ErrUsernameTaken       = errors.New("a user with this username already exists")
	ErrTagExists           = errors.New("a tag with this name, color or slug already exists")
	ErrIngredientExists    = errors.New("this ingredient already exists")
	ErrAlreadyInFavorites  = errors.New("recipe is already in favorites")
	ErrAlreadyInCart       = errors.New("recipe is already in the shopping cart")
	ErrAlreadySubscribed   = errors.New("already subscribed to this user")
	ErrNotInFavorites      = errors.New("recipe is not in favorites")
	ErrNotInCart           = errors.New("recipe is not in the shopping cart")
	ErrNotSubscribed       = errors.New("not subscribed to this user")
	ErrSelfSubscription    = errors.New("cannot subscribe to yourself")
	ErrDuplicateIngredient = errors.New("ingredients of a recipe must be unique")
)

// isConstraintViolation reports whether err is a DuckDB primary key, unique or
// check constraint failure. The driver exposes these only through the message.
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "constraint error") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}

// isTransactionConflict reports whether err is a DuckDB optimistic
// concurrency failure. For a single-row insert of a unique pair this only
// happens when a concurrent writer inserted the same pair first.
func isTransactionConflict(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Transaction conflict") ||
		strings.Contains(errStr, "Conflict on") ||
		strings.Contains(errStr, "write-write conflict")
}

// isDuplicateInsert reports whether a unique-pair insert lost to an existing
// or concurrently inserted row.
func isDuplicateInsert(err error) bool {
	return isConstraintViolation(err) || isTransactionConflict(err)
}

// closeQuietly closes a resource and explicitly ignores any error
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
