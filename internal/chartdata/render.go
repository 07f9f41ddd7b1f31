// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package chartdata

import (
	"errors"
	"fmt"

	"github.com/tomtom215/sheetlens/internal/dataset"
	"github.com/tomtom215/sheetlens/internal/layout"
)

// ChartResult is the render output of one chart. Exactly one of View (for
// standard charts) or Layout (for geometric charts) is set unless the chart
// is Empty or carries an Error.
type ChartResult struct {
	Spec      ChartSpec      `json:"spec"`
	XKey      string         `json:"xKey"`
	YKey      string         `json:"yKey"`
	ZKey      string         `json:"zKey,omitempty"`
	Settings  ViewSettings   `json:"settings"`
	View      *View          `json:"view,omitempty"`
	Trendline *TrendLine     `json:"trendline,omitempty"`
	Layout    *layout.Layout `json:"layout,omitempty"`
	Empty     bool           `json:"empty,omitempty"`
	Warnings  []string       `json:"warnings,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// RenderChart runs the full pipeline for one chart: key resolution, view
// transform, optional trendline, and geometric layout.
//
// RenderChart never panics and never returns an error: failures are recorded
// in the result so one bad chart cannot break its siblings.
func RenderChart(t *dataset.Table, spec ChartSpec, settings ViewSettings) (res ChartResult) {
	res.Spec = spec
	defer func() {
		if r := recover(); r != nil {
			res.View, res.Layout, res.Trendline = nil, nil, nil
			res.Error = fmt.Sprintf("chart rendering failed: %v", r)
		}
	}()

	if !spec.Type.Valid() {
		res.Error = fmt.Errorf("%w: %q", ErrInvalidChartType, spec.Type).Error()
		return res
	}

	keys, err := ResolveKeys(t, spec)
	if errors.Is(err, ErrEmptyDataset) {
		res.Empty = true
		res.Settings = settings
		return res
	}
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.XKey, res.YKey, res.ZKey = keys.XKey, keys.YKey, keys.ZKey
	res.Warnings = keys.Warnings

	settings = settings.withDefaults(t.Len(), keys.XKey)
	if settings.ViewMode == ViewAggregate && !t.HasHeader(settings.AggregateBy) {
		res.Warnings = append(res.Warnings, fmt.Errorf("%w: aggregate key %q not in dataset, using %q",
			ErrInvalidKeyBinding, settings.AggregateBy, keys.XKey).Error())
		settings.AggregateBy = keys.XKey
	}
	res.Settings = settings

	view := Transform(t.Rows(), settings, keys.YKey)

	if spec.Type.Geometric() {
		l, _ := layout.Build(layout.Kind(spec.Type), Items(view.Rows, categoryKey(settings, keys)))
		res.Layout = l
		return res
	}

	res.View = &view
	if settings.ShowTrendline && !spec.Type.Proportional() {
		// A degenerate fit simply omits the trendline.
		if tl, err := Trendline(view.Rows); err == nil {
			res.Trendline = tl
		}
	}
	return res
}

// RenderAll renders every spec independently, in order.
func RenderAll(t *dataset.Table, specs []ChartSpec, settings ViewSettings) []ChartResult {
	out := make([]ChartResult, len(specs))
	for i, spec := range specs {
		out[i] = RenderChart(t, spec, settings)
	}
	return out
}

// Items converts display rows to layout items, using categoryKey for labels.
// Only the first layout.MaxItems rows are converted.
func Items(rows []DisplayRow, categoryKey string) []layout.Item {
	if len(rows) > layout.MaxItems {
		rows = rows[:layout.MaxItems]
	}
	items := make([]layout.Item, len(rows))
	for i, r := range rows {
		items[i] = layout.Item{
			Category:   r.Category(categoryKey),
			Value:      r.Value,
			NonNumeric: r.NonNumeric,
		}
	}
	return items
}

// categoryKey is the field that labels an item: the group key for aggregate
// views, otherwise the x binding.
func categoryKey(s ViewSettings, keys ResolvedKeys) string {
	if s.ViewMode == ViewAggregate {
		return s.AggregateBy
	}
	return keys.XKey
}
