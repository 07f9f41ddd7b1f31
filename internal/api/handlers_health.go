// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package api

import (
	"net/http"
	"time"
)

// HealthStatus is the body of the health endpoint.
type HealthStatus struct {
	Status            string    `json:"status"`
	Message           string    `json:"message"`
	Timestamp         time.Time `json:"timestamp"`
	DatabaseConnected bool      `json:"databaseConnected"`
	SourceBreaker     string    `json:"sourceBreaker,omitempty"`
	OpenViews         int       `json:"openViews"`
	Uptime            float64   `json:"uptime"`
}

// Health reports overall status. It always answers 200 so dashboards can
// show a degraded state; use HealthReady for load balancer checks.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbConnected := h.store.Ping(r.Context()) == nil

	health := HealthStatus{
		Status:            "OK",
		Message:           "Sheetlens API is running",
		Timestamp:         time.Now().UTC(),
		DatabaseConnected: dbConnected,
		OpenViews:         h.views.Len(),
		Uptime:            time.Since(h.startTime).Seconds(),
	}
	if h.breaker != nil {
		health.SourceBreaker = h.breaker.State()
	}
	if !dbConnected {
		health.Status = "degraded"
		health.Message = "Database unreachable"
	}

	WriteSuccess(w, r, health)
}

// HealthLive answers 200 while the process is serving.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]string{"status": "alive"})
}

// HealthReady answers 503 until the database responds.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		WriteError(w, r, http.StatusServiceUnavailable, ErrCodeUnavailable, "Database not ready")
		return
	}
	WriteSuccess(w, r, map[string]string{"status": "ready"})
}
