// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package chartdata

import "math"

// TrendPoint is one point of a fitted trendline.
type TrendPoint struct {
	Index      int     `json:"index"`
	TrendValue float64 `json:"trendValue"`
}

// TrendLine is an ordinary least-squares fit of value against row index.
type TrendLine struct {
	Slope     float64      `json:"slope"`
	Intercept float64      `json:"intercept"`
	Points    []TrendPoint `json:"points"`
}

// Trendline fits value = slope*index + intercept over rows whose value is
// numeric, using the closed-form OLS solution. It returns
// ErrComputationDegenerate when fewer than two numeric rows exist or all of
// them share one index.
func Trendline(rows []DisplayRow) (*TrendLine, error) {
	var n, sumX, sumY, sumXY, sumXX float64
	valid := make([]DisplayRow, 0, len(rows))
	for _, r := range rows {
		if r.NonNumeric || math.IsNaN(r.Value) {
			continue
		}
		x := float64(r.Index)
		n++
		sumX += x
		sumY += r.Value
		sumXY += x * r.Value
		sumXX += x * x
		valid = append(valid, r)
	}
	if n < 2 {
		return nil, ErrComputationDegenerate
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return nil, ErrComputationDegenerate
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	points := make([]TrendPoint, len(valid))
	for i, r := range valid {
		points[i] = TrendPoint{
			Index:      r.Index,
			TrendValue: slope*float64(r.Index) + intercept,
		}
	}
	return &TrendLine{Slope: slope, Intercept: intercept, Points: points}, nil
}
