// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

/*
Package chartdata adapts arbitrary tabular datasets into chart-ready data.

The pipeline for one chart is:

	dataset.Table
	    -> ResolveKeys   (InferKeys when a binding is unset or invalid)
	    -> Transform     (sample / aggregate / all)
	    -> Trendline     (optional OLS fit against row index)
	    -> layout.Build  (streamgraph, spiral, heatmap, treemap only)

Every step is a pure function of its inputs. Nothing in this package mutates
a Table, so results are safe to memoize by (table version, settings, keys).

# View Modes

Sample mode keeps at most SampleSize rows and always keeps the first and last
row so trend continuity is preserved. Aggregate mode groups by the string
value of AggregateBy and reduces the y values of each group with sum, avg,
count, max or min; groups keep first-seen order and carry their count and
original values. All mode passes rows through and flags a performance risk
above PerformanceRiskRows rows.

# Numeric Values

A y value is numeric when it parses as a finite number. Anything else is
displayed as 0 and the row is flagged NonNumeric; values are never invented.

# Error Handling

ErrEmptyDataset, ErrInvalidKeyBinding and ErrComputationDegenerate resolve to
an omitted feature (no chart rows, default keys, no trendline) rather than a
failure. RenderChart records any failure, including a panic, in the chart's
own result so sibling charts still render.

# Registry

Registry holds the ordered chart specs of one view. It is cleared whenever a
different dataset is bound so no spec references headers that no longer
exist.
*/
package chartdata
