// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package chartdata

import "sort"

// SampleIndexes picks which of n rows to keep so that at most size remain.
//
// When n <= size every index is returned. Otherwise the result has exactly
// size ascending indexes, always starting with 0 and (for size >= 2) ending
// with n-1. Interior rows are taken at a fixed stride of
// floor(n / (size-2)). Because the stride is floored, the stride pass can
// yield more or fewer interior rows than size-2: extras are cut from the
// tail of the interior, and shortfalls are filled with evenly spread
// unselected interior rows.
func SampleIndexes(n, size int) []int {
	if n <= 0 {
		return []int{}
	}
	if size <= 0 || n <= size {
		return allIndexes(n)
	}
	if size == 1 {
		return []int{0}
	}
	if size == 2 {
		return []int{0, n - 1}
	}

	want := size - 2
	step := n / want
	if step < 1 {
		step = 1
	}

	interior := make([]int, 0, want)
	picked := make(map[int]bool, want)
	for i := step; i < n-1 && len(interior) < want; i += step {
		interior = append(interior, i)
		picked[i] = true
	}

	if missing := want - len(interior); missing > 0 {
		spare := make([]int, 0, n-2-len(interior))
		for i := 1; i < n-1; i++ {
			if !picked[i] {
				spare = append(spare, i)
			}
		}
		for j := 0; j < missing; j++ {
			interior = append(interior, spare[j*len(spare)/missing])
		}
		sort.Ints(interior)
	}

	out := make([]int, 0, size)
	out = append(out, 0)
	out = append(out, interior...)
	out = append(out, n-1)
	return out
}
