// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package sheets

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// CellRange is an inclusive, 1-based rectangle of cells.
type CellRange struct {
	StartCol, StartRow int
	EndCol, EndRow     int
}

// ParseRange parses an A1-style range such as "A1:Z1000". A sheet prefix
// ("Sheet1!A1:B2") is returned separately. A single cell is a 1x1 range.
// Reversed corners are normalized.
func ParseRange(ref string) (sheet string, r CellRange, err error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		ref = DefaultRange
	}
	if i := strings.LastIndex(ref, "!"); i >= 0 {
		sheet = strings.Trim(ref[:i], "'")
		ref = ref[i+1:]
	}

	start, end, found := strings.Cut(ref, ":")
	if !found {
		end = start
	}
	r.StartCol, r.StartRow, err = excelize.CellNameToCoordinates(strings.ToUpper(start))
	if err != nil {
		return "", CellRange{}, fmt.Errorf("%w: %q: %v", ErrInvalidRange, ref, err)
	}
	r.EndCol, r.EndRow, err = excelize.CellNameToCoordinates(strings.ToUpper(end))
	if err != nil {
		return "", CellRange{}, fmt.Errorf("%w: %q: %v", ErrInvalidRange, ref, err)
	}
	if r.EndCol < r.StartCol {
		r.StartCol, r.EndCol = r.EndCol, r.StartCol
	}
	if r.EndRow < r.StartRow {
		r.StartRow, r.EndRow = r.EndRow, r.StartRow
	}
	return sheet, r, nil
}

// String formats the range back to A1 notation.
func (r CellRange) String() string {
	start, _ := excelize.CoordinatesToCellName(r.StartCol, r.StartRow)
	end, _ := excelize.CoordinatesToCellName(r.EndCol, r.EndRow)
	return start + ":" + end
}

// Clip cuts grid (row-major, 0-based) down to r and splits off the first row
// as headers. Fully empty data rows are dropped. The header row is widened to
// the widest data row so no cell is lost.
func (r CellRange) Clip(grid [][]string) (headers []string, rows [][]string) {
	width := 0
	var clipped [][]string
	for rowNum := r.StartRow; rowNum <= r.EndRow && rowNum <= len(grid); rowNum++ {
		src := grid[rowNum-1]
		var cells []string
		for col := r.StartCol; col <= r.EndCol && col <= len(src); col++ {
			cells = append(cells, src[col-1])
		}
		// GetRows omits trailing empty cells, so trim the same way.
		for len(cells) > 0 && strings.TrimSpace(cells[len(cells)-1]) == "" {
			cells = cells[:len(cells)-1]
		}
		if len(cells) > width {
			width = len(cells)
		}
		clipped = append(clipped, cells)
	}
	if len(clipped) == 0 {
		return []string{}, [][]string{}
	}

	headers = make([]string, width)
	copy(headers, clipped[0])
	rows = make([][]string, 0, len(clipped)-1)
	for _, cells := range clipped[1:] {
		if len(cells) == 0 {
			continue
		}
		rows = append(rows, cells)
	}
	return headers, rows
}
