// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/tomtom215/foodgram/internal/models"
)

// ingredientNames implements fuzzy.Source over lower-cased ingredient names.
type ingredientNames []models.Ingredient

func (s ingredientNames) Len() int { return len(s) }

func (s ingredientNames) String(i int) string {
	return strings.ToLower(s[i].Name)
}

// rankIngredients returns the ingredients whose name starts with query, in
// their stored order, followed by the remaining fuzzy matches ordered by
// score. Matching ignores case.
func rankIngredients(query string, all []models.Ingredient) []models.Ingredient {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return all
	}

	ranked := make([]models.Ingredient, 0, len(all))
	isPrefix := make(map[int]bool)
	for i, in := range all {
		if strings.HasPrefix(strings.ToLower(in.Name), query) {
			ranked = append(ranked, in)
			isPrefix[i] = true
		}
	}

	for _, match := range fuzzy.FindFrom(query, ingredientNames(all)) {
		if !isPrefix[match.Index] {
			ranked = append(ranked, all[match.Index])
		}
	}
	return ranked
}
