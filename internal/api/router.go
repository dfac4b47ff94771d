// Film Track - Mood-Vector Media Recommendation Service
// Copyright 2026 Berkay Yildiz (YldzBerkay)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub001

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/YldzBerkay/film-track-be-sub001/internal/config"
)

// NewRouter wires the chi router: global middleware, health, the API
// route group, and the Prometheus endpoint.
func NewRouter(handler *Handler, cfg *config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(AccessLog)

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Health endpoints get a permissive limit so monitoring never starves.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(httprate.LimitByIP(1000, time.Minute))
		r.Get("/", handler.Health)
		r.Get("/live", handler.HealthLive)
		r.Get("/ready", handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))
		r.Use(PrometheusMetrics)

		r.Get("/vibe/templates", handler.VibeTemplates)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/mood", handler.Mood)
			r.Get("/mood/history", handler.MoodHistory)
			r.Get("/recommendations", handler.Recommendations)
			r.Get("/compatibility/{otherID}", handler.Compatibility)
			r.Put("/vibe", handler.SetVibe)
			r.Delete("/vibe", handler.ClearVibe)
			r.Post("/ratings", handler.RecordRating)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
