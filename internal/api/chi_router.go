// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/sheetlens/internal/auth"
	"github.com/tomtom215/sheetlens/internal/middleware"
)

// slowRequestThreshold raises access log lines to warn level.
const slowRequestThreshold = time.Second

// WriteAuthError renders authentication failures in the API envelope. It is
// the ErrorWriter handed to auth.NewMiddleware.
func WriteAuthError(w http.ResponseWriter, r *http.Request, status int, message string) {
	code := ErrCodeUnauthorized
	if status >= http.StatusInternalServerError {
		code = ErrCodeInternalError
	}
	WriteError(w, r, status, code, message)
}

// NewRouter configures all HTTP routes.
func NewRouter(h *Handler, authMW *auth.Middleware) http.Handler {
	mw := NewChiMiddleware(ChiMiddlewareConfigFrom(h.cfg))
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog(slowRequestThreshold))
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS()) // must be global to answer OPTIONS preflight
	r.Use(middleware.Compression)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusNotFound, ErrCodeNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.SecurityHeaders)
		r.Use(middleware.PrometheusMetrics)

		// ========================
		// Public Endpoints
		// ========================
		r.Get("/health", h.Health)
		r.Get("/health/live", h.HealthLive)
		r.Get("/health/ready", h.HealthReady)
		r.Get("/charts/types", h.ChartTypes)

		// ========================
		// Authentication
		// ========================
		// Register and login share one strict limiter against brute force.
		authLimit := mw.RateLimitAuth()
		r.Route("/auth", func(r chi.Router) {
			r.With(authLimit).Post("/register", h.Register)
			r.With(authLimit).Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.With(authMW.Authenticate).Get("/me", h.Me)
		})

		// ========================
		// Authenticated Endpoints
		// ========================
		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit())
			r.Use(authMW.Authenticate)

			r.Route("/dashboards", func(r chi.Router) {
				r.Get("/", h.ListDashboards)
				r.Post("/", h.CreateDashboard)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.GetDashboard)
					r.Put("/", h.UpdateDashboard)
					r.Delete("/", h.DeleteDashboard)

					r.Route("/view", func(r chi.Router) {
						r.Get("/", h.ViewState)
						r.Delete("/", h.CloseView)
						r.Post("/load", h.LoadView)
						r.Get("/table", h.ViewTable)
						r.Post("/render", h.RenderCharts)
						r.Get("/charts", h.ListCharts)
						r.Post("/charts", h.AddChart)
						r.Put("/charts/{chartId}", h.UpdateChart)
						r.Delete("/charts/{chartId}", h.RemoveChart)
					})
				})
			})

			r.Route("/data", func(r chi.Router) {
				r.Get("/sources", h.ListSources)
				r.Get("/test-connection/{sourceId}", h.TestConnection)
				r.Get("/sheet-info/{sourceId}", h.SheetInfo)
				r.Get("/sheet/{sourceId}", h.SheetData)
			})
		})
	})

	return r
}
