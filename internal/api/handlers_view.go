// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/sheetlens/internal/chartdata"
	"github.com/tomtom215/sheetlens/internal/models"
	"github.com/tomtom215/sheetlens/internal/session"
	"github.com/tomtom215/sheetlens/internal/table"
)

// loadRequest overrides the dashboard's tab and the default range for one
// load. Both are optional.
type loadRequest struct {
	TabName string `json:"tabName" validate:"max=128"`
	Range   string `json:"range" validate:"omitempty,max=64,cellrange"`
}

// chartRequest is the body of chart add and update requests. Empty fields
// take defaults from the loaded dataset.
type chartRequest struct {
	Title string `json:"title" validate:"max=200"`
	Type  string `json:"type" validate:"max=32"`
	XKey  string `json:"xKey" validate:"max=256"`
	YKey  string `json:"yKey" validate:"max=256"`
	ZKey  string `json:"zKey" validate:"max=256"`
}

func (c chartRequest) spec() chartdata.ChartSpec {
	return chartdata.ChartSpec{
		Title: c.Title,
		Type:  chartdata.ChartType(c.Type),
		XKey:  c.XKey,
		YKey:  c.YKey,
		ZKey:  c.ZKey,
	}
}

// RenderResponse is the body of the render endpoint.
type RenderResponse struct {
	Generation uint64                  `json:"generation"`
	Version    string                  `json:"version"`
	Charts     []chartdata.ChartResult `json:"charts"`
}

// dashboardView resolves the dashboard in the URL for the caller and opens
// its view. It writes the error response itself.
func (h *Handler) dashboardView(w http.ResponseWriter, r *http.Request) (*models.Dashboard, *session.View, bool) {
	p, ok := principal(w, r)
	if !ok {
		return nil, nil, false
	}
	d, err := h.store.GetDashboard(r.Context(), p.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, msgDashboardNotFound)
		return nil, nil, false
	}
	return d, h.views.Open(p.ID, d.ID), true
}

// LoadView fetches the dashboard's dataset into its view. Only the most
// recent load for a view is applied; an overtaken load answers 409.
//
// POST /api/v1/dashboards/{id}/view/load {tabName?, range?}
func (h *Handler) LoadView(w http.ResponseWriter, r *http.Request) {
	d, v, ok := h.dashboardView(w, r)
	if !ok {
		return
	}

	var req loadRequest
	if !decodeAndValidate(w, r, &req, true) {
		return
	}
	tab := req.TabName
	if tab == "" {
		tab = d.TabName
	}
	rangeRef := req.Range
	if rangeRef == "" {
		rangeRef = h.cfg.Sheets.DefaultRange
	}

	if _, err := v.Load(r.Context(), h.source, d.SourceID, tab, rangeRef); err != nil {
		writeServiceError(w, r, err, msgDashboardNotFound)
		return
	}
	WriteSuccess(w, r, v.State())
}

// ViewState returns what the dashboard's view currently shows.
func (h *Handler) ViewState(w http.ResponseWriter, r *http.Request) {
	_, v, ok := h.dashboardView(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, r, v.State())
}

// CloseView discards the dashboard's view, cancelling any load in flight.
func (h *Handler) CloseView(w http.ResponseWriter, r *http.Request) {
	d, _, ok := h.dashboardView(w, r)
	if !ok {
		return
	}
	h.views.Close(d.UserID, d.ID)
	WriteSuccess(w, r, map[string]string{"message": "View closed"})
}

// ViewTable returns one page of the loaded dataset.
//
// GET /api/v1/dashboards/{id}/view/table?filter=&sortBy=&order=&page=&pageSize=
func (h *Handler) ViewTable(w http.ResponseWriter, r *http.Request) {
	_, v, ok := h.dashboardView(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	q := table.Query{
		Filter:   query.Get("filter"),
		SortBy:   query.Get("sortBy"),
		Order:    table.Order(query.Get("order")),
		Page:     getIntParam(r, "page", 1),
		PageSize: getIntParam(r, "pageSize", h.cfg.Charts.TablePageSize),
	}
	if !validateRequest(w, r, &q) {
		return
	}

	tbl := v.Table()
	if tbl == nil {
		writeServiceError(w, r, session.ErrNotLoaded, "")
		return
	}

	page := table.Select(tbl, q)
	NewResponseWriter(w, r).SuccessWithPagination(page, &PaginationMeta{
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
		Total:      page.Matched,
		HasMore:    page.Page < page.TotalPages,
	})
}

// ListCharts returns the view's chart configurations in display order.
func (h *Handler) ListCharts(w http.ResponseWriter, r *http.Request) {
	_, v, ok := h.dashboardView(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, r, v.Charts().List())
}

// AddChart appends a chart to the view.
func (h *Handler) AddChart(w http.ResponseWriter, r *http.Request) {
	_, v, ok := h.dashboardView(w, r)
	if !ok {
		return
	}

	var req chartRequest
	if !decodeAndValidate(w, r, &req, true) {
		return
	}
	spec, err := v.Charts().Add(req.spec())
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	NewResponseWriter(w, r).Created(spec)
}

// UpdateChart replaces one chart's configuration.
func (h *Handler) UpdateChart(w http.ResponseWriter, r *http.Request) {
	_, v, ok := h.dashboardView(w, r)
	if !ok {
		return
	}

	var req chartRequest
	if !decodeAndValidate(w, r, &req, false) {
		return
	}
	spec, err := v.Charts().Update(chi.URLParam(r, "chartId"), req.spec())
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	WriteSuccess(w, r, spec)
}

// RemoveChart deletes one chart.
func (h *Handler) RemoveChart(w http.ResponseWriter, r *http.Request) {
	_, v, ok := h.dashboardView(w, r)
	if !ok {
		return
	}
	if err := v.Charts().Remove(chi.URLParam(r, "chartId")); err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	WriteSuccess(w, r, map[string]string{"message": "Chart removed"})
}

// RenderCharts renders every chart of the view with the given settings.
// Charts fail independently; a failed chart carries its error in the result.
//
// POST /api/v1/dashboards/{id}/view/render {viewMode, sampleSize, ...}
func (h *Handler) RenderCharts(w http.ResponseWriter, r *http.Request) {
	_, v, ok := h.dashboardView(w, r)
	if !ok {
		return
	}

	var settings chartdata.ViewSettings
	if !decodeAndValidate(w, r, &settings, true) {
		return
	}
	if settings.SampleSize == 0 {
		settings.SampleSize = h.cfg.Charts.DefaultSampleSize
	}

	results, err := v.Render(r.Context(), settings)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	resp := RenderResponse{Generation: v.Generation(), Charts: results}
	if tbl := v.Table(); tbl != nil {
		resp.Version = tbl.Version()
	}
	WriteSuccess(w, r, resp)
}

// ChartCatalog describes the chart types and view options clients can offer.
type ChartCatalog struct {
	Types              []chartdata.ChartTypeInfo `json:"types"`
	ViewModes          []chartdata.ViewMode      `json:"viewModes"`
	AggregateFunctions []chartdata.AggregateFunc `json:"aggregateFunctions"`
	SampleSizes        []int                     `json:"sampleSizes"`
	PerformanceRisk    int                       `json:"performanceRiskRows"`
}

// ChartTypes returns the chart catalog.
func (h *Handler) ChartTypes(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, ChartCatalog{
		Types:     chartdata.Catalog(),
		ViewModes: []chartdata.ViewMode{chartdata.ViewSample, chartdata.ViewAggregate, chartdata.ViewAll},
		AggregateFunctions: []chartdata.AggregateFunc{
			chartdata.AggSum, chartdata.AggAvg, chartdata.AggCount, chartdata.AggMax, chartdata.AggMin,
		},
		SampleSizes:     chartdata.SampleSizeOptions,
		PerformanceRisk: chartdata.PerformanceRiskRows,
	})
}
