// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/database"
	"github.com/tomtom215/foodgram/internal/validation"
)

// Request-level errors raised by the handlers themselves.
var (
	ErrInvalidID   = errors.New("invalid id")
	ErrInvalidBody = errors.New("request body is not valid JSON")
	ErrNotAuthor   = errors.New("only the author may change this recipe")
)

var notFoundErrors = []error{
	database.ErrUserNotFound,
	database.ErrRecipeNotFound,
	database.ErrTagNotFound,
	database.ErrIngredientNotFound,
}

// rejectedErrors are operations the store refused. They are the client's
// fault and are answered with 400 and the sentinel's message.
var rejectedErrors = []error{
	database.ErrAlreadyInFavorites,
	database.ErrAlreadyInCart,
	database.ErrAlreadySubscribed,
	database.ErrNotInFavorites,
	database.ErrNotInCart,
	database.ErrNotSubscribed,
	database.ErrSelfSubscription,
	database.ErrDuplicateIngredient,
	ErrInvalidID,
	ErrInvalidBody,
}

var conflictErrors = []error{
	database.ErrTagExists,
	database.ErrIngredientExists,
}

// fieldErrors are uniqueness failures reported against one request field.
var fieldErrors = map[error]string{
	database.ErrEmailTaken:    "email",
	database.ErrUsernameTaken: "username",
	auth.ErrWrongPassword:     "current_password",
}

func matchAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// respondDomainError maps err to its envelope. Anything unrecognised is
// logged and reported as a database error.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	rw := NewResponseWriter(w, r)

	var validationErr *validation.RequestValidationError
	var policyErr *auth.PasswordPolicyError
	var refErr *database.MissingReferenceError

	switch {
	case errors.As(err, &validationErr):
		apiErr := validationErr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
	case errors.As(err, &policyErr):
		rw.ValidationError(policyErr.Error(), fieldDetails("password", policyErr.Error()))
	case errors.As(err, &refErr):
		rw.ValidationError(refErr.Error(), fieldDetails(refErr.Kind, refErr.Error()))
	case errors.Is(err, ErrNotAuthor):
		rw.Forbidden(err.Error())
	case matchAny(err, notFoundErrors):
		rw.NotFound(err.Error())
	case matchAny(err, conflictErrors):
		rw.Conflict(err.Error())
	case matchAny(err, rejectedErrors):
		rw.BadRequest(err.Error())
	default:
		for target, field := range fieldErrors {
			if errors.Is(err, target) {
				rw.ValidationError(target.Error(), fieldDetails(field, target.Error()))
				return
			}
		}
		rw.DatabaseError(err)
	}
}

func fieldDetails(field, message string) map[string]interface{} {
	return map[string]interface{}{
		"fields": map[string]interface{}{field: message},
	}
}
