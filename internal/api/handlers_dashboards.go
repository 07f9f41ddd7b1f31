// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/sheetlens/internal/logging"
	"github.com/tomtom215/sheetlens/internal/models"
)

// ListDashboards returns the caller's dashboards, newest first.
func (h *Handler) ListDashboards(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	list, err := h.store.ListDashboards(r.Context(), p.ID)
	if err != nil {
		NewResponseWriter(w, r).DatabaseError(err)
		return
	}
	WriteSuccess(w, r, list)
}

// CreateDashboard creates a dashboard bound to a spreadsheet source.
//
// POST /api/v1/dashboards {title, description, sourceId, tabName}
func (h *Handler) CreateDashboard(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var in models.DashboardInput
	if err := readJSON(w, r, &in); err != nil {
		NewResponseWriter(w, r).BadRequest(msgInvalidJSON)
		return
	}
	in.Normalize()
	if !validateRequest(w, r, &in) {
		return
	}

	d := &models.Dashboard{UserID: p.ID}
	in.Apply(d)
	if err := h.store.CreateDashboard(r.Context(), d); err != nil {
		NewResponseWriter(w, r).DatabaseError(err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("dashboard_id", d.ID).Str("source_id", d.SourceID).
		Msg("Dashboard created")
	NewResponseWriter(w, r).Created(d)
}

// GetDashboard returns one of the caller's dashboards.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	d, err := h.store.GetDashboard(r.Context(), p.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, msgDashboardNotFound)
		return
	}
	WriteSuccess(w, r, d)
}

// UpdateDashboard replaces a dashboard's fields. Changing its source or tab
// supersedes any load in flight for its view.
func (h *Handler) UpdateDashboard(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var in models.DashboardInput
	if err := readJSON(w, r, &in); err != nil {
		NewResponseWriter(w, r).BadRequest(msgInvalidJSON)
		return
	}
	in.Normalize()
	if !validateRequest(w, r, &in) {
		return
	}

	before, err := h.store.GetDashboard(r.Context(), p.ID, id)
	if err != nil {
		writeServiceError(w, r, err, msgDashboardNotFound)
		return
	}
	d, err := h.store.UpdateDashboard(r.Context(), p.ID, id, in)
	if err != nil {
		writeServiceError(w, r, err, msgDashboardNotFound)
		return
	}

	if before.SourceID != d.SourceID || before.TabName != d.TabName {
		if v, ok := h.views.Lookup(p.ID, id); ok {
			v.Switch()
		}
	}
	WriteSuccess(w, r, d)
}

// DeleteDashboard deletes a dashboard and closes its view.
func (h *Handler) DeleteDashboard(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteDashboard(r.Context(), p.ID, id); err != nil {
		writeServiceError(w, r, err, msgDashboardNotFound)
		return
	}
	h.views.Close(p.ID, id)

	logging.Ctx(r.Context()).Info().Str("dashboard_id", id).Msg("Dashboard deleted")
	WriteSuccess(w, r, map[string]string{"message": "Dashboard deleted successfully"})
}
