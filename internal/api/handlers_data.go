// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/sheetlens/internal/logging"
	"github.com/tomtom215/sheetlens/internal/sheets"
)

// sheetQuery addresses a spreadsheet, an optional tab and an optional range.
type sheetQuery struct {
	SourceID  string `json:"sourceId" validate:"required,max=128,sourceid"`
	SheetName string `json:"sheetName" validate:"max=128"`
	Range     string `json:"range" validate:"omitempty,max=64,cellrange"`
}

func (h *Handler) parseSheetQuery(w http.ResponseWriter, r *http.Request) (sheetQuery, bool) {
	q := sheetQuery{
		SourceID:  chi.URLParam(r, "sourceId"),
		SheetName: r.URL.Query().Get("sheetName"),
		Range:     r.URL.Query().Get("range"),
	}
	if q.Range == "" {
		q.Range = h.cfg.Sheets.DefaultRange
	}
	return q, validateRequest(w, r, &q)
}

// SourceList is the body of the sources endpoint.
type SourceList struct {
	Demo      []string `json:"demo"`
	Workbooks []string `json:"workbooks"`
}

// ListSources returns the source ids that can be opened.
func (h *Handler) ListSources(w http.ResponseWriter, r *http.Request) {
	list := SourceList{Demo: []string{}, Workbooks: []string{}}
	if h.cfg.Sheets.DemoEnabled {
		list.Demo = sheets.DemoIDs()
	}
	if h.catalog != nil {
		ids, err := h.catalog.Available()
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to list workbooks")
			NewResponseWriter(w, r).InternalError("Failed to list workbooks")
			return
		}
		list.Workbooks = ids
	}
	WriteSuccess(w, r, list)
}

// TestConnection checks that a source can be opened.
//
// GET /api/v1/data/test-connection/{sourceId}
func (h *Handler) TestConnection(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseSheetQuery(w, r)
	if !ok {
		return
	}

	status, err := sheets.TestConnection(r.Context(), h.source, q.SourceID)
	if err != nil {
		logging.Ctx(r.Context()).Info().Err(err).Str("source_id", sanitizeLogValue(q.SourceID)).
			Msg("Connection test failed")
		writeServiceError(w, r, err, "")
		return
	}
	WriteSuccess(w, r, map[string]interface{}{
		"success": true,
		"message": "Successfully connected to spreadsheet",
		"status":  status,
	})
}

// SheetInfo lists the tabs of a source.
//
// GET /api/v1/data/sheet-info/{sourceId}
func (h *Handler) SheetInfo(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseSheetQuery(w, r)
	if !ok {
		return
	}

	info, err := h.source.ListTabs(r.Context(), q.SourceID)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	WriteSuccess(w, r, info)
}

// SheetData returns a raw dataset without binding it to a view.
//
// GET /api/v1/data/sheet/{sourceId}?sheetName=&range=
func (h *Handler) SheetData(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseSheetQuery(w, r)
	if !ok {
		return
	}

	tbl, err := h.source.Fetch(r.Context(), q.SourceID, q.SheetName, q.Range)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	WriteSuccess(w, r, tbl)
}
