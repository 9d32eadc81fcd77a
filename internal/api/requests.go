// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"strings"

	"github.com/tomtom215/foodgram/internal/models"
)

// RegisterRequest is the body of POST /api/users.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required"`
}

func (req *RegisterRequest) normalize() {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
}

// SetPasswordRequest is the body of POST /api/users/set_password.
type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" validate:"required"`
	CurrentPassword string `json:"current_password" validate:"required"`
}

// LoginRequest is the body of POST /api/auth/token/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (req *LoginRequest) normalize() {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
}

// TokenResponse carries a freshly issued token.
type TokenResponse struct {
	AuthToken string `json:"auth_token"`
}

// TagRequest is the body of POST /api/tags.
type TagRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Color string `json:"color" validate:"required,hexcolor"`
	Slug  string `json:"slug" validate:"required,max=200,slug"`
}

func (req TagRequest) toModel() models.Tag {
	return models.Tag{
		Name:  strings.TrimSpace(req.Name),
		Color: strings.ToUpper(req.Color),
		Slug:  req.Slug,
	}
}

// IngredientRequest is the body of POST /api/ingredients.
type IngredientRequest struct {
	Name            string `json:"name" validate:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" validate:"required,max=200"`
}

// IngredientAmountRequest is one ingredient line of a recipe write.
type IngredientAmountRequest struct {
	ID     int64 `json:"id" validate:"required,gt=0"`
	Amount int   `json:"amount" validate:"amount"`
}

// RecipeRequest is the body of POST and PATCH /api/recipes.
type RecipeRequest struct {
	Ingredients []IngredientAmountRequest `json:"ingredients" validate:"required,min=1,unique=ID,dive"`
	Tags        []int64                   `json:"tags" validate:"required,min=1,unique,dive,gt=0"`
	Image       string                    `json:"image"`
	Name        string                    `json:"name" validate:"required,max=200"`
	Text        string                    `json:"text" validate:"required"`
	CookingTime int                       `json:"cooking_time" validate:"cooking_time"`
}

func (req RecipeRequest) toInput() models.RecipeInput {
	items := make([]models.IngredientAmount, len(req.Ingredients))
	for i, item := range req.Ingredients {
		items[i] = models.IngredientAmount{ID: item.ID, Amount: item.Amount}
	}
	return models.RecipeInput{
		Name:        strings.TrimSpace(req.Name),
		Text:        req.Text,
		Image:       req.Image,
		CookingTime: req.CookingTime,
		TagIDs:      req.Tags,
		Ingredients: items,
	}
}
