// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"net"
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/foodgram/internal/audit"
	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/authz"
	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler        *Handler
	chiMiddleware  *ChiMiddleware
	authn          *auth.Middleware
	enforcer       *authz.Enforcer
	trustedProxies []netip.Prefix
}

// NewRouter creates a router. trustedProxies lists the addresses or CIDRs
// whose X-Forwarded-For is believed; empty trusts every peer.
func NewRouter(handler *Handler, chiMW *ChiMiddleware, authn *auth.Middleware, enforcer *authz.Enforcer, trustedProxies []string) *Router {
	return &Router{
		handler:        handler,
		chiMiddleware:  chiMW,
		authn:          authn,
		enforcer:       enforcer,
		trustedProxies: parseProxies(trustedProxies),
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied in order
	r.Use(middleware.RequestID)
	r.Use(router.realIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(chimiddleware.StripSlashes)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	// Routes that exist are authorized; unknown ones fall through to 404/405.
	matcher := func(method, path string) bool {
		return r.Match(chi.NewRouteContext(), method, path)
	}
	h := router.handler
	authorizer := authz.NewMiddleware(router.enforcer, matcher, WriteError).OnDeny(func(r *http.Request, role string) {
		h.audit.LogAuthzDenied(r.Context(), auth.UserIDFromContext(r.Context()), role,
			audit.SourceFromRequest(r), r.Method, r.URL.Path)
	})
	r.Route("/api", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.authn.Authenticate)
		r.Use(authorizer.Authorize)
		r.Use(chimiddleware.Compress(5, "application/json"))

		r.Get("/health", h.Health)
		r.Get("/audit/events", h.ListAuditEvents)

		r.Route("/auth/token", func(r chi.Router) {
			r.With(router.chiMiddleware.RateLimitCustom("login", RateLimitLogin)).Post("/login", h.Login)
			r.Post("/logout", h.Logout)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.ListUsers)
			r.Post("/", h.CreateUser)
			r.Get("/me", h.Me)
			r.Post("/set_password", h.SetPassword)
			r.Get("/subscriptions", h.ListSubscriptions)
			r.Get("/{id}", h.GetUser)
			r.Post("/{id}/subscribe", h.Subscribe)
			r.Delete("/{id}/subscribe", h.Unsubscribe)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", h.ListTags)
			r.Post("/", h.CreateTag)
			r.Get("/{id}", h.GetTag)
		})

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", h.ListIngredients)
			r.Post("/", h.CreateIngredient)
			r.Get("/{id}", h.GetIngredient)
		})

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", h.ListRecipes)
			r.Post("/", h.CreateRecipe)
			r.With(router.chiMiddleware.RateLimitCustom("download", RateLimitDownload)).
				Get("/download_shopping_cart", h.DownloadShoppingCart)
			r.Get("/{id}", h.GetRecipe)
			r.Patch("/{id}", h.UpdateRecipe)
			r.Put("/{id}", h.UpdateRecipe)
			r.Delete("/{id}", h.DeleteRecipe)
			r.Post("/{id}/favorite", h.AddFavorite)
			r.Delete("/{id}/favorite", h.RemoveFavorite)
			r.Post("/{id}/shopping_cart", h.AddToCart)
			r.Delete("/{id}/shopping_cart", h.RemoveFromCart)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return r
}

// realIP applies chi's RealIP only to requests from trusted proxies.
func (router *Router) realIP(next http.Handler) http.Handler {
	withRealIP := chimiddleware.RealIP(next)
	if len(router.trustedProxies) == 0 {
		return withRealIP
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if router.isTrustedProxy(r.RemoteAddr) {
			withRealIP.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (router *Router) isTrustedProxy(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	for _, prefix := range router.trustedProxies {
		if prefix.Contains(addr.Unmap()) {
			return true
		}
	}
	return false
}

// parseProxies accepts bare addresses and CIDRs. Invalid entries are logged
// and skipped.
func parseProxies(entries []string) []netip.Prefix {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		if prefix, err := netip.ParsePrefix(entry); err == nil {
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			logging.Warn().Str("entry", entry).Msg("Ignoring invalid trusted proxy")
			continue
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes
}
