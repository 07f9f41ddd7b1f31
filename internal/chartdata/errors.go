// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package chartdata

import "errors"

// Error taxonomy for the chart pipeline. Only ErrDataUnavailable is meant to
// reach a user as a failure; the others resolve to an omitted feature.
var (
	// ErrDataUnavailable indicates the dataset could not be fetched or listed.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrEmptyDataset indicates zero headers or zero rows.
	ErrEmptyDataset = errors.New("empty dataset")

	// ErrInvalidKeyBinding indicates a chart spec references a header that is
	// not in the current dataset.
	ErrInvalidKeyBinding = errors.New("invalid key binding")

	// ErrComputationDegenerate indicates a computation had too little input
	// to produce a result, such as a regression over fewer than two points.
	ErrComputationDegenerate = errors.New("computation degenerate")

	// ErrChartNotFound is returned by the registry for unknown chart ids.
	ErrChartNotFound = errors.New("chart not found")

	// ErrInvalidChartType is returned for chart types outside the catalog.
	ErrInvalidChartType = errors.New("invalid chart type")
)
