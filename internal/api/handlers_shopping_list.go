// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/metrics"
	"github.com/tomtom215/foodgram/internal/shoppinglist"
)

// DownloadShoppingCart renders the caller's consolidated shopping list as an
// attachment.
//
// @Summary Download the shopping list
// @Description One line per ingredient across every recipe in the cart, as "name (unit) — amount".
// @Tags Shopping cart
// @Produce application/pdf
// @Produce text/plain
// @Security TokenAuth
// @Param format query string false "pdf or txt, defaults to the configured format" Enums(pdf, txt)
// @Success 200 {file} file
// @Failure 400 {object} APIResponse "Unsupported format"
// @Router /recipes/download_shopping_cart [get]
func (h *Handler) DownloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = h.config.ShoppingList.Format
	}
	renderer, err := shoppinglist.NewRenderer(format, h.config.ShoppingList)
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}

	ctx := r.Context()
	list, err := h.shoppingList.Consolidate(ctx, auth.UserIDFromContext(ctx))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	// Render to memory first so a failure can still be reported as JSON.
	var buf bytes.Buffer
	if err := renderer.Render(&buf, list); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("format", format).Msg("Failed to render shopping list")
		NewResponseWriter(w, r).InternalError("Failed to render shopping list")
		return
	}

	metrics.ShoppingListDownloads.WithLabelValues(renderer.Extension()).Inc()

	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="shopping_list.`+renderer.Extension()+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to write shopping list")
	}
}
