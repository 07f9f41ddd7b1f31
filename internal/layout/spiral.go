// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package layout

import "math"

const (
	spiralCenterX     = 200.0
	spiralCenterY     = 150.0
	spiralMaxRadius   = 120.0
	spiralTurns       = 2.0
	spiralMinSize     = 3.0
	spiralMaxSize     = 15.0
	spiralLabelOffset = 5.0
	spiralGuidePoints = 100
)

// spiralPoint returns the position at fraction t in [0, 1) along an
// Archimedean spiral of spiralTurns turns.
func spiralPoint(t float64) Point {
	angle := t * 2 * math.Pi * spiralTurns
	radius := t * spiralMaxRadius
	return Point{
		X: spiralCenterX + math.Cos(angle)*radius,
		Y: spiralCenterY + math.Sin(angle)*radius,
	}
}

// Spiral places items along a two-turn Archimedean spiral starting at the
// canvas center. Marker radius is proportional to value/max with a floor of
// spiralMinSize. A single item sits at the center.
func Spiral(items []Item) *Layout {
	items = Cap(items)
	l := newLayout(KindSpiral)
	n := len(items)
	if n == 0 {
		return l
	}

	peak := maxValue(items)
	l.Markers = make([]Marker, 0, n)
	for i, it := range items {
		p := spiralPoint(float64(i) / float64(n))
		size := math.Max(spiralMinSize, ratio(it.Value, peak)*spiralMaxSize)
		l.Markers = append(l.Markers, Marker{
			CX:       p.X,
			CY:       p.Y,
			Radius:   size,
			Fill:     color(i),
			Value:    it.Value,
			Category: it.Category,
			Label: Label{
				X:    p.X,
				Y:    p.Y - size - spiralLabelOffset,
				Text: formatValue(it.Value),
				Fill: "#666",
			},
		})
	}

	l.Guide = make([]Point, 0, spiralGuidePoints+1)
	l.Guide = append(l.Guide, Point{X: spiralCenterX, Y: spiralCenterY})
	for i := 0; i < spiralGuidePoints; i++ {
		l.Guide = append(l.Guide, spiralPoint(float64(i)/spiralGuidePoints))
	}
	return l
}
