// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package layout

import (
	"fmt"
	"math"
)

const (
	heatmapGap       = 2.0
	heatmapHueLow    = 240.0
	heatmapHueSpan   = 120.0
	heatmapLightBase = 50.0
	heatmapLightSpan = 30.0
)

// HeatmapGrid returns the near-square grid used for n cells.
func HeatmapGrid(n int) (rows, cols int) {
	if n <= 0 {
		return 0, 0
	}
	rows = int(math.Ceil(math.Sqrt(float64(n))))
	cols = int(math.Ceil(float64(n) / float64(rows)))
	return rows, cols
}

// HeatmapColor maps an intensity in [0, 1] to an HSL fill. Hue moves from
// blue (240) toward green (120) as intensity rises.
func HeatmapColor(intensity float64) string {
	return fmt.Sprintf("hsl(%.1f, 70%%, %.1f%%)",
		heatmapHueLow-intensity*heatmapHueSpan,
		heatmapLightBase+intensity*heatmapLightSpan)
}

// Heatmap arranges items row-major in a near-square grid. Each cell is
// colored by intensity = value/max and labeled with its rounded value; the
// label is white above intensity 0.5.
func Heatmap(items []Item) *Layout {
	items = Cap(items)
	l := newLayout(KindHeatmap)
	n := len(items)
	if n == 0 {
		return l
	}

	rows, cols := HeatmapGrid(n)
	cellW := AvailableWidth / float64(cols)
	cellH := AvailableHeight / float64(rows)
	peak := maxValue(items)

	for i, it := range items {
		row := i / cols
		col := i % cols
		x := float64(col)*cellW + Margin
		y := float64(row)*cellH + Margin
		intensity := math.Min(1, nonNegative(ratio(it.Value, peak)))

		text := "black"
		if intensity > 0.5 {
			text = "white"
		}
		l.Rects = append(l.Rects, Rect{
			X:         x,
			Y:         y,
			Width:     nonNegative(cellW - heatmapGap),
			Height:    nonNegative(cellH - heatmapGap),
			Fill:      HeatmapColor(intensity),
			Value:     it.Value,
			Category:  it.Category,
			Intensity: intensity,
			Label: &Label{
				X:    x + cellW/2,
				Y:    y + cellH/2,
				Text: formatValue(it.Value),
				Fill: text,
			},
		})
	}
	return l
}
