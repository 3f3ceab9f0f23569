// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harmonia-home/harmonia/internal/auth"
	"github.com/harmonia-home/harmonia/internal/config"
	"github.com/harmonia-home/harmonia/internal/middleware"
)

// NewRouter builds the chi router with the full middleware stack and
// every route group. jwtManager is nil when auth is disabled, which
// turns the auth middleware into a passthrough and hides /auth/login.
func NewRouter(cfg *config.Config, h *Handlers, jwtManager *auth.JWTManager) http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	if len(cfg.Security.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Security.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health endpoints stay open and lightly rate limited so probes
	// keep working when the API is saturated.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(httprate.LimitByIP(1000, cfg.Security.RateLimitWindow))
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	// Login gets the strictest limit to slow brute force attempts.
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(httprate.LimitByIP(10, cfg.Security.RateLimitWindow))
		r.Post("/login", h.Login)
	})

	// Data endpoints: rate limited, instrumented, authenticated.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow))
		r.Use(middleware.PrometheusMetrics)
		r.Use(auth.Middleware(jwtManager))

		r.Route("/households", func(r chi.Router) {
			r.Post("/", h.CreateHousehold)
			r.Get("/{householdID}", h.GetHousehold)
			r.Post("/{householdID}/members", h.AddMember)
			r.Delete("/{householdID}/members/{userID}", h.RemoveMember)

			r.Post("/{householdID}/mix", h.GenerateMix)
			r.Get("/{householdID}/mix", h.GetMix)

			r.Post("/{householdID}/playlists", h.CreatePlaylist)
			r.Get("/{householdID}/playlists", h.ListPlaylists)
		})

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/preferences", h.GetPreferences)
			r.Patch("/preferences", h.UpdatePreferences)
			r.Get("/devices", h.UserDevices)
			r.Post("/plays", h.RecordPlay)
			r.Put("/likes", h.SetTrackLiked)
		})

		r.Route("/devices", func(r chi.Router) {
			r.Post("/", h.RegisterDevice)
			r.Get("/{deviceID}", h.GetDevice)
			r.Post("/{deviceID}/bindings", h.BindDevice)
			r.Get("/{deviceID}/bindings", h.DeviceBindings)
			r.Post("/{deviceID}/voice-session", h.StartVoiceSession)
			r.Get("/{deviceID}/active-user", h.ActiveUser)
			r.Put("/{deviceID}/household", h.AssignDevice)
		})

		r.Route("/playlists/{playlistID}", func(r chi.Router) {
			r.Post("/tracks", h.AddPlaylistTrack)
			r.Get("/tracks", h.PlaylistTracks)
			r.Delete("/tracks/{position}", h.RemovePlaylistTrack)
		})
	})

	// Prometheus scrape endpoint, outside the API envelope.
	r.Handle("/metrics", promhttp.Handler())

	return r
}
