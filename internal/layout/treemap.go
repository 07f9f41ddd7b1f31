// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package layout

import "math"

const (
	treemapMinSide     = 20.0
	treemapLabelWidth  = 30.0
	treemapLabelHeight = 20.0
	treemapLabelRunes  = 8
)

// Treemap packs items into the canvas with a strip heuristic.
//
// Each item's target area is its share of the value total times the canvas
// area. The rectangle is fitted into the remaining strip, wider than tall
// when the remaining space is wider, and the cursor moves right until the
// next rectangle would pass the right edge, then wraps to a new row. Drawn
// rectangles are at least treemapMinSide on each side. Negative values count
// as zero, and a zero total yields no rectangles.
//
// Placement is approximate: rectangles may overlap or leave gaps.
func Treemap(items []Item) *Layout {
	items = Cap(items)
	l := newLayout(KindTreemap)
	if len(items) == 0 {
		return l
	}

	total := 0.0
	for _, it := range items {
		total += nonNegative(it.Value)
	}
	if total <= 0 {
		return l
	}

	canvasArea := AvailableWidth * AvailableHeight
	curX, curY := Margin, Margin
	remW, remH := AvailableWidth, AvailableHeight

	for i, it := range items {
		area := nonNegative(it.Value) / total * canvasArea

		// Keep the strip ratios finite once earlier rows overrun the canvas.
		remW = math.Max(remW, 1)
		remH = math.Max(remH, 1)

		var width, height float64
		if area > 0 {
			if remW > remH {
				width = math.Min(remW, math.Sqrt(area*(remW/remH)))
				height = area / width
			} else {
				height = math.Min(remH, math.Sqrt(area*(remH/remW)))
				width = area / height
			}
		}

		rect := Rect{
			X:        curX,
			Y:        curY,
			Width:    math.Max(treemapMinSide, width),
			Height:   math.Max(treemapMinSide, height),
			Fill:     color(i),
			Value:    it.Value,
			Category: it.Category,
		}
		if rect.Width > treemapLabelWidth && rect.Height > treemapLabelHeight {
			rect.Label = &Label{
				X:    rect.X + rect.Width/2,
				Y:    rect.Y + rect.Height/2,
				Text: truncate(it.Category, treemapLabelRunes),
				Fill: "white",
			}
		}
		l.Rects = append(l.Rects, rect)

		if area == 0 {
			continue
		}
		if curX+width < AvailableWidth {
			curX += width
			remW -= width
		} else {
			curY += height
			curX = Margin
			remH -= height
			remW = AvailableWidth
		}
	}
	return l
}
