// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package chartdata

import "fmt"

// ChartType names a renderer. Standard types are drawn by the client charting
// library; geometric types are laid out server-side by the layout package.
type ChartType string

const (
	ChartBar         ChartType = "bar"
	ChartLine        ChartType = "line"
	ChartPie         ChartType = "pie"
	ChartArea        ChartType = "area"
	ChartScatter     ChartType = "scatter"
	ChartBubble      ChartType = "bubble"
	ChartStreamgraph ChartType = "streamgraph"
	ChartSpiral      ChartType = "spiral"
	ChartHeatmap     ChartType = "heatmap"
	ChartTreemap     ChartType = "treemap"
)

// ChartTypeInfo describes a chart type for selection menus.
type ChartTypeInfo struct {
	Type        ChartType `json:"value"`
	Label       string    `json:"label"`
	Description string    `json:"description"`
	Geometric   bool      `json:"geometric"`
}

var catalog = []ChartTypeInfo{
	{ChartBar, "Bar Chart", "Compare values across categories", false},
	{ChartLine, "Line Chart", "Show trends over time", false},
	{ChartArea, "Area Chart", "Show cumulative values", false},
	{ChartPie, "Pie Chart", "Show proportions", false},
	{ChartScatter, "Scatter Plot", "Show relationships", false},
	{ChartBubble, "Bubble Chart", "Show 3D relationships", false},
	{ChartStreamgraph, "Stream Graph", "Show flow of data", true},
	{ChartSpiral, "Spiral Plot", "Show data in spiral pattern", true},
	{ChartHeatmap, "Heatmap", "Show data intensity", true},
	{ChartTreemap, "Treemap", "Show hierarchical data", true},
}

// Catalog returns the supported chart types in menu order.
func Catalog() []ChartTypeInfo {
	out := make([]ChartTypeInfo, len(catalog))
	copy(out, catalog)
	return out
}

// Valid reports whether t is a known chart type.
func (t ChartType) Valid() bool {
	for _, info := range catalog {
		if info.Type == t {
			return true
		}
	}
	return false
}

// Geometric reports whether t is laid out by the layout package.
func (t ChartType) Geometric() bool {
	switch t {
	case ChartStreamgraph, ChartSpiral, ChartHeatmap, ChartTreemap:
		return true
	}
	return false
}

// Proportional reports whether t shows parts of a whole. Trendlines are
// meaningless for these.
func (t ChartType) Proportional() bool {
	return t == ChartPie
}

// ParseChartType validates a chart type string.
func ParseChartType(s string) (ChartType, error) {
	t := ChartType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidChartType, s)
	}
	return t, nil
}

// ChartSpec is one configured chart: a type plus its key bindings.
type ChartSpec struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Type  ChartType `json:"type"`
	XKey  string    `json:"xKey"`
	YKey  string    `json:"yKey"`
	ZKey  string    `json:"zKey,omitempty"`
}
