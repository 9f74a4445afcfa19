// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/keepskip/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil chiMW uses the default middleware
// configuration.
func NewRouter(handler *Handler, chiMW *ChiMiddleware) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: chiMW,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())

		// ========================
		// Health Endpoints
		// ========================
		r.Route("/health", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitHealth())
			r.Get("/", router.handler.Health)
			r.Get("/live", router.handler.HealthLive)
			r.Get("/ready", router.handler.HealthReady)
		})

		// ========================
		// Votes
		// ========================
		r.With(router.chiMiddleware.RateLimitVote()).
			Post("/items/{id}/votes", router.handler.Vote)

		// ========================
		// Snapshots and saved items
		// ========================
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitRead())
			r.Use(middleware.Compression)

			r.Get("/feed", router.handler.Feed)
			r.Get("/weekly", router.handler.Weekly)
			r.Get("/saved", router.handler.Saved)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
