// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package models

import "time"

// Tag groups recipes (breakfast, lunch, ...). Name, color and slug are each unique.
type Tag struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

// Ingredient is reference data shared by all recipes.
type Ingredient struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// RecipeIngredient is an ingredient line of a recipe with its amount.
type RecipeIngredient struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeStatus holds the viewer-relative flags of a recipe.
type RecipeStatus struct {
	IsFavorited      bool `json:"is_favorited"`
	IsInShoppingCart bool `json:"is_in_shopping_cart"`
}

// Recipe is the full representation returned by the recipe endpoints.
type Recipe struct {
	ID          int64              `json:"id"`
	Tags        []Tag              `json:"tags"`
	Author      User               `json:"author"`
	Ingredients []RecipeIngredient `json:"ingredients"`
	RecipeStatus
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	Text        string    `json:"text"`
	CookingTime int       `json:"cooking_time"`
	CreatedAt   time.Time `json:"-"`
}

// RecipeShort is the compact form used by favorites, cart and subscriptions.
type RecipeShort struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// IngredientAmount is one ingredient line of a recipe write.
type IngredientAmount struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

// RecipeInput carries the fields of a recipe create or update.
type RecipeInput struct {
	Name        string
	Text        string
	Image       string
	CookingTime int
	TagIDs      []int64
	Ingredients []IngredientAmount
}

// RecipeFilter narrows a recipe listing. ViewerID 0 is the anonymous viewer,
// for whom Favorited and InCart are ignored.
type RecipeFilter struct {
	ViewerID  int64
	AuthorID  int64
	TagSlugs  []string
	Favorited bool
	InCart    bool
	Limit     int
	Offset    int
}
