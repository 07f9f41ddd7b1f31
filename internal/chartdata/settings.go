// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package chartdata

import "time"

// ViewMode selects how rows are reduced before rendering.
type ViewMode string

const (
	ViewSample    ViewMode = "sample"
	ViewAggregate ViewMode = "aggregate"
	ViewAll       ViewMode = "all"
)

// AggregateFunc reduces the values of one group.
type AggregateFunc string

const (
	AggSum   AggregateFunc = "sum"
	AggAvg   AggregateFunc = "avg"
	AggCount AggregateFunc = "count"
	AggMax   AggregateFunc = "max"
	AggMin   AggregateFunc = "min"
)

const (
	// DefaultSampleSize is the sample size offered first in the UI.
	DefaultSampleSize = 100

	// sampleThreshold is the row count above which sampling is the default.
	sampleThreshold = 100

	// zoomThreshold is the row count above which zoom is enabled by default.
	zoomThreshold = 200

	// PerformanceRiskRows is the row count above which "all" mode is flagged.
	PerformanceRiskRows = 500
)

// SampleSizeOptions lists the sample sizes offered to users.
var SampleSizeOptions = []int{50, 100, 200, 500}

// TimeRange bounds a time axis. It is carried through to clients untouched.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ViewSettings parameterizes a single chart render.
type ViewSettings struct {
	ViewMode          ViewMode      `json:"viewMode" validate:"omitempty,oneof=sample aggregate all"`
	SampleSize        int           `json:"sampleSize" validate:"omitempty,min=1,max=100000"`
	AggregateBy       string        `json:"aggregateBy"`
	AggregateFunction AggregateFunc `json:"aggregateFunction" validate:"omitempty,oneof=sum avg count max min"`
	TimeRange         *TimeRange    `json:"timeRange,omitempty"`
	ShowTrendline     bool          `json:"showTrendline"`
	EnableZoom        bool          `json:"enableZoom"`
}

// DefaultSettings returns the settings a fresh view starts with for a dataset
// of rowCount rows.
func DefaultSettings(rowCount int) ViewSettings {
	mode := ViewAll
	if rowCount > sampleThreshold {
		mode = ViewSample
	}
	return ViewSettings{
		ViewMode:          mode,
		SampleSize:        DefaultSampleSize,
		AggregateFunction: AggSum,
		EnableZoom:        rowCount > zoomThreshold,
	}
}

// withDefaults fills unset fields. aggregateBy falls back to xKey.
func (s ViewSettings) withDefaults(rowCount int, xKey string) ViewSettings {
	def := DefaultSettings(rowCount)
	if s.ViewMode == "" {
		s.ViewMode = def.ViewMode
	}
	if s.SampleSize <= 0 {
		s.SampleSize = def.SampleSize
	}
	if s.AggregateFunction == "" {
		s.AggregateFunction = def.AggregateFunction
	}
	if s.AggregateBy == "" {
		s.AggregateBy = xKey
	}
	return s
}
