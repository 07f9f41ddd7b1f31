// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package dataset

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber converts a cell value to a float64.
//
// ok is false when the value is not a finite number. The empty (or
// whitespace-only) string converts to 0 with ok true, matching how spreadsheet
// front-ends treat blank numeric cells.
func ParseNumber(s string) (v float64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// IsNumeric reports whether s is a non-empty finite numeric literal.
func IsNumeric(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	_, ok := ParseNumber(s)
	return ok
}

// Coerce returns the numeric value of s, or 0 when s is not numeric.
func Coerce(s string) float64 {
	v, _ := ParseNumber(s)
	return v
}
