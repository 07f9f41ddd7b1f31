// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package chartdata

import (
	"github.com/aclements/go-moremath/stats"

	"github.com/tomtom215/sheetlens/internal/dataset"
)

type group struct {
	key    string
	values []float64
}

// aggregateRows groups rows by the value of by and reduces each group's
// coerced yKey values with fn. Groups appear in first-seen order.
func aggregateRows(rows []dataset.Row, by string, fn AggregateFunc, yKey string) []DisplayRow {
	groups := make(map[string]*group)
	order := make([]*group, 0)

	for _, row := range rows {
		key := row.Get(by)
		g, ok := groups[key]
		if !ok {
			g = &group{key: key}
			groups[key] = g
			order = append(order, g)
		}
		g.values = append(g.values, dataset.Coerce(row.Get(yKey)))
	}

	out := make([]DisplayRow, 0, len(order))
	for _, g := range order {
		out = append(out, DisplayRow{
			Fields:         map[string]string{by: g.key},
			Value:          Reduce(fn, g.values),
			SourceIndex:    -1,
			Group:          g.key,
			Count:          len(g.values),
			OriginalValues: g.values,
			yKey:           yKey,
			aggregated:     true,
		})
	}
	return out
}

// Reduce applies fn to values. An empty input reduces to 0 for every
// function, and unknown functions behave like sum.
func Reduce(fn AggregateFunc, values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	switch fn {
	case AggCount:
		return float64(len(values))
	case AggAvg:
		return stats.Sample{Xs: values}.Sum() / float64(len(values))
	case AggMax:
		_, hi := stats.Bounds(values)
		return hi
	case AggMin:
		lo, _ := stats.Bounds(values)
		return lo
	default:
		return stats.Sample{Xs: values}.Sum()
	}
}
