// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package layout

const (
	streamMaxBand  = 200.0
	streamCenterY  = 150.0
	streamLabelY   = 280.0
	streamGap      = 2.0
	streamLabelRot = -45.0
)

// Stream lays items out as vertical bands centered on a common axis, left to
// right in input order. Band height is proportional to value/max and each
// band carries its category as a rotated label below the axis.
func Stream(items []Item) *Layout {
	items = Cap(items)
	l := newLayout(KindStream)
	n := len(items)
	if n == 0 {
		return l
	}

	peak := maxValue(items)
	width := nonNegative(AvailableWidth/float64(n) - streamGap)

	for i, it := range items {
		height := nonNegative(ratio(it.Value, peak) * streamMaxBand)
		x := float64(i)/float64(n)*AvailableWidth + Margin
		l.Rects = append(l.Rects, Rect{
			X:        x,
			Y:        streamCenterY - height/2,
			Width:    width,
			Height:   height,
			Fill:     color(i),
			Value:    it.Value,
			Category: it.Category,
			Label: &Label{
				X:      x + width/2,
				Y:      streamLabelY,
				Text:   it.Category,
				Rotate: streamLabelRot,
				Fill:   "#666",
			},
		})
	}
	return l
}
