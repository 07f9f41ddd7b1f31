// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/sheetlens/internal/chartdata"
	"github.com/tomtom215/sheetlens/internal/database"
	"github.com/tomtom215/sheetlens/internal/logging"
	"github.com/tomtom215/sheetlens/internal/session"
	"github.com/tomtom215/sheetlens/internal/sheets"
)

// Messages shared by several handlers.
const (
	msgDashboardNotFound = "Dashboard not found"
	msgInvalidJSON       = "Invalid JSON body"
	msgStaleLoad         = "A newer load superseded this request"
	msgNotLoaded         = "No dataset loaded for this dashboard"
	msgFetchRateLimited  = "Too many loads, slow down"
)

// writeServiceError maps errors from the layers below onto the envelope.
// notFound is the message used for database.ErrNotFound.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	rw := NewResponseWriter(w, r)

	switch {
	case errors.Is(err, database.ErrNotFound):
		rw.NotFound(notFound)
	case errors.Is(err, session.ErrStale):
		rw.Conflict(msgStaleLoad)
	case errors.Is(err, session.ErrNotLoaded):
		rw.Conflict(msgNotLoaded)
	case errors.Is(err, session.ErrRateLimited):
		rw.TooManyRequests(msgFetchRateLimited)
	case errors.Is(err, chartdata.ErrChartNotFound):
		rw.NotFound("Chart not found")
	case errors.Is(err, chartdata.ErrInvalidChartType):
		rw.BadRequest(err.Error())
	case isSourceError(err):
		writeDataUnavailable(rw, err)
	case errors.Is(err, context.Canceled):
		// Client went away; nobody reads this.
		rw.Error(499, ErrCodeBadRequest, "Request canceled")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		rw.InternalError("Internal server error")
	}
}

func isSourceError(err error) bool {
	var fe *sheets.FetchError
	return errors.Is(err, chartdata.ErrDataUnavailable) || errors.As(err, &fe)
}

// writeDataUnavailable reports a failed fetch. Only transient failures are
// flagged retryable.
func writeDataUnavailable(rw *ResponseWriter, err error) {
	kind := sheets.Kind(err)
	message := "Spreadsheet data is unavailable"
	retryable := true

	switch {
	case errors.Is(err, sheets.ErrNotFound):
		message, retryable = "Spreadsheet or sheet not found", false
	case errors.Is(err, sheets.ErrPermissionDenied):
		message, retryable = "Permission denied for this spreadsheet", false
	case errors.Is(err, sheets.ErrInvalidRange):
		message, retryable = "Invalid cell range", false
	}
	if retryable {
		logging.Ctx(rw.r.Context()).Warn().Err(err).Str("kind", kind).Msg("Dataset unavailable")
	}
	rw.DataUnavailable(message, kind, retryable)
}
