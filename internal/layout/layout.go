// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package layout

import (
	"math"
	"strconv"
)

// Canvas geometry shared by every layout. Coordinates are in viewBox units;
// clients scale the box to their container.
const (
	CanvasWidth  = 400.0
	CanvasHeight = 300.0
	Margin       = 10.0

	// AvailableWidth and AvailableHeight are the drawable area inside the
	// margins.
	AvailableWidth  = 380.0
	AvailableHeight = 280.0

	// MaxItems caps how many rows a geometric layout draws.
	MaxItems = 100
)

// Palette is the categorical fill sequence, cycled by item position.
var Palette = []string{
	"#0088FE",
	"#00C49F",
	"#FFBB28",
	"#FF8042",
	"#8884D8",
	"#82CA9D",
	"#FFC658",
	"#FF7C7C",
}

// Kind names a geometric layout.
type Kind string

const (
	KindStream  Kind = "streamgraph"
	KindSpiral  Kind = "spiral"
	KindHeatmap Kind = "heatmap"
	KindTreemap Kind = "treemap"
)

// Item is one input datum: a category label and its numeric value.
// NonNumeric marks values that were not numbers and were zero-filled.
type Item struct {
	Category   string  `json:"category"`
	Value      float64 `json:"value"`
	NonNumeric bool    `json:"nonNumeric,omitempty"`
}

// Point is a position on the canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Label is a text primitive. Rotate is in degrees around (X, Y).
type Label struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Text   string  `json:"text"`
	Rotate float64 `json:"rotate,omitempty"`
	Fill   string  `json:"fill"`
}

// Rect is a filled rectangle with an optional label.
type Rect struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Fill     string  `json:"fill"`
	Value    float64 `json:"value"`
	Category string  `json:"category"`
	Label    *Label  `json:"label,omitempty"`

	// Intensity is value/max, set by the heatmap layout.
	Intensity float64 `json:"intensity,omitempty"`
}

// Marker is a circle placed at a point.
type Marker struct {
	CX       float64 `json:"cx"`
	CY       float64 `json:"cy"`
	Radius   float64 `json:"r"`
	Fill     string  `json:"fill"`
	Value    float64 `json:"value"`
	Category string  `json:"category"`
	Label    Label   `json:"label"`
}

// ViewBox is the coordinate system of a Layout.
type ViewBox struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Layout is the set of drawable primitives for one chart. Only the slices
// relevant to Kind are populated; an empty input yields empty slices.
type Layout struct {
	Kind    Kind     `json:"kind"`
	ViewBox ViewBox  `json:"viewBox"`
	Rects   []Rect   `json:"rects"`
	Markers []Marker `json:"markers,omitempty"`
	Guide   []Point  `json:"guide,omitempty"`
}

func newLayout(kind Kind) *Layout {
	return &Layout{
		Kind:    kind,
		ViewBox: ViewBox{Width: CanvasWidth, Height: CanvasHeight},
		Rects:   []Rect{},
	}
}

// Build dispatches to the layout for kind. The ok result is false for kinds
// this package does not lay out.
func Build(kind Kind, items []Item) (*Layout, bool) {
	switch kind {
	case KindStream:
		return Stream(items), true
	case KindSpiral:
		return Spiral(items), true
	case KindHeatmap:
		return Heatmap(items), true
	case KindTreemap:
		return Treemap(items), true
	}
	return nil, false
}

// Cap returns at most MaxItems items.
func Cap(items []Item) []Item {
	if len(items) > MaxItems {
		return items[:MaxItems]
	}
	return items
}

func color(i int) string {
	return Palette[i%len(Palette)]
}

// maxValue returns the largest value, or 0 for an empty slice.
func maxValue(items []Item) float64 {
	if len(items) == 0 {
		return 0
	}
	m := items[0].Value
	for _, it := range items[1:] {
		if it.Value > m {
			m = it.Value
		}
	}
	return m
}

// ratio returns num/den, or 0 when the result is not a finite number.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	r := num / den
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

// formatValue renders v rounded to an integer.
func formatValue(v float64) string {
	r := math.Round(v)
	if r == 0 {
		r = 0 // normalize -0
	}
	return strconv.FormatFloat(r, 'f', 0, 64)
}

// truncate shortens s to n runes followed by "..." when it is longer.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
