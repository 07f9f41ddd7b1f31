// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package chartdata

import (
	"github.com/goccy/go-json"

	"github.com/tomtom215/sheetlens/internal/dataset"
)

// DisplayRow is a render-ready row.
//
// For sample and all modes Fields holds every original field. For aggregate
// mode Fields holds only the group key, and Group/Count/OriginalValues
// describe the group. Value is the numeric yKey.
type DisplayRow struct {
	Fields         map[string]string
	Value          float64
	Index          int
	NonNumeric     bool
	SourceIndex    int
	Group          string
	Count          int
	OriginalValues []float64

	yKey       string
	aggregated bool
}

// Aggregated reports whether the row summarizes a group.
func (r DisplayRow) Aggregated() bool { return r.aggregated }

// Category returns the value of key, typically the x binding.
func (r DisplayRow) Category(key string) string { return r.Fields[key] }

// MarshalJSON flattens the row into the shape charting clients bind to:
// original fields, the numeric yKey, index, and underscore-prefixed
// annotations. Aggregated rows always carry their label as _group since the
// group column may be the yKey itself.
func (r DisplayRow) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+4)
	for k, v := range r.Fields {
		out[k] = v
	}
	if r.yKey != "" {
		out[r.yKey] = r.Value
	}
	out["index"] = r.Index
	if r.aggregated {
		out["_group"] = r.Group
		out["_count"] = r.Count
		out["_originalValues"] = r.OriginalValues
	}
	if r.NonNumeric {
		out["_nonNumeric"] = true
	}
	return json.Marshal(out)
}

// View is the output of Transform.
type View struct {
	Mode       ViewMode     `json:"viewMode"`
	YKey       string       `json:"yKey"`
	Rows       []DisplayRow `json:"rows"`
	SourceRows int          `json:"sourceRows"`

	// PerformanceRisk is set when "all" mode passes through more than
	// PerformanceRiskRows rows.
	PerformanceRisk bool `json:"performanceRisk"`
}

// Transform reduces rows to a display-ready sequence under settings.
//
// Settings are used as given; callers apply defaults first. Unknown view
// modes behave like ViewAll. Transform never mutates rows.
func Transform(rows []dataset.Row, settings ViewSettings, yKey string) View {
	v := View{Mode: settings.ViewMode, YKey: yKey, SourceRows: len(rows)}

	switch settings.ViewMode {
	case ViewSample:
		v.Rows = toDisplay(SampleIndexes(len(rows), settings.SampleSize), rows, yKey)
	case ViewAggregate:
		v.Rows = aggregateRows(rows, settings.AggregateBy, settings.AggregateFunction, yKey)
	default:
		v.Mode = ViewAll
		v.Rows = toDisplay(allIndexes(len(rows)), rows, yKey)
		v.PerformanceRisk = len(rows) > PerformanceRiskRows
	}

	for i := range v.Rows {
		v.Rows[i].Index = i
	}
	return v
}

func allIndexes(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// toDisplay converts the selected source rows to display rows.
func toDisplay(idx []int, rows []dataset.Row, yKey string) []DisplayRow {
	out := make([]DisplayRow, 0, len(idx))
	for _, i := range idx {
		row := rows[i]
		value, ok := dataset.ParseNumber(row.Get(yKey))
		out = append(out, DisplayRow{
			Fields:      row.Record(),
			Value:       value,
			NonNumeric:  !ok,
			SourceIndex: i,
			yKey:        yKey,
		})
	}
	return out
}
