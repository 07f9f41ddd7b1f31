// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

// Package table filters, sorts and paginates dataset rows for the raw data
// table shown under a dashboard's charts.
package table

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/tomtom215/sheetlens/internal/dataset"
)

// DefaultPageSize is the number of rows per page.
const DefaultPageSize = 25

// pageWindow is how many page links are listed on each side of the
// current page.
const pageWindow = 2

// Ellipsis marks a gap in Page.Links.
const Ellipsis = 0

// Order is a sort direction. The empty order leaves rows in source order.
type Order string

const (
	OrderNone Order = ""
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Query selects one page of a table.
type Query struct {
	Filter   string `json:"filter" validate:"max=256"`
	SortBy   string `json:"sortBy"`
	Order    Order  `json:"order" validate:"omitempty,oneof=asc desc"`
	Page     int    `json:"page" validate:"min=0"`
	PageSize int    `json:"pageSize" validate:"min=0,max=1000"`
}

// Page is one page of filtered, sorted rows.
type Page struct {
	Headers    []string      `json:"headers"`
	Rows       []dataset.Row `json:"rows"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
	TotalRows  int           `json:"totalRows"`
	Matched    int           `json:"matchedRows"`
	SortBy     string        `json:"sortBy,omitempty"`
	Order      Order         `json:"order,omitempty"`

	// Links lists the page numbers to offer, with Ellipsis for gaps.
	Links []int `json:"links"`
}

// Select filters, sorts and paginates t. The requested page is clamped to
// [1, TotalPages]; a sort column not in the table is ignored.
func Select(t *dataset.Table, q Query) Page {
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.SortBy == "" || !t.HasHeader(q.SortBy) {
		q.SortBy, q.Order = "", OrderNone
	}
	if q.Order == OrderNone {
		q.SortBy = ""
	}

	rows := Filter(t.Rows(), q.Filter)
	Sort(rows, q.SortBy, q.Order)

	totalPages := (len(rows) + q.PageSize - 1) / q.PageSize
	page := clamp(q.Page, 1, max(totalPages, 1))
	start := min((page-1)*q.PageSize, len(rows))
	end := min(start+q.PageSize, len(rows))

	return Page{
		Headers:    t.Headers(),
		Rows:       rows[start:end],
		Page:       page,
		PageSize:   q.PageSize,
		TotalPages: totalPages,
		TotalRows:  t.Len(),
		Matched:    len(rows),
		SortBy:     q.SortBy,
		Order:      q.Order,
		Links:      Links(page, totalPages),
	}
}

// Filter keeps rows where any value contains text, ignoring case. An empty
// filter keeps everything. The input slice is not modified.
func Filter(rows []dataset.Row, text string) []dataset.Row {
	out := make([]dataset.Row, 0, len(rows))
	if text == "" {
		return append(out, rows...)
	}
	lower := cases.Lower(language.Und)
	needle := lower.String(text)
	for _, r := range rows {
		for _, v := range r.Values() {
			if strings.Contains(lower.String(v), needle) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// Sort orders rows in place by column. Numeric values come before text and
// compare as numbers; text compares case-folded under the root collation.
// The sort is stable.
func Sort(rows []dataset.Row, column string, order Order) {
	if column == "" || order == OrderNone {
		return
	}
	col := collate.New(language.Und)
	lower := cases.Lower(language.Und)
	sort.SliceStable(rows, func(i, j int) bool {
		c := compare(col, lower, rows[i].Get(column), rows[j].Get(column))
		if order == OrderDesc {
			return c > 0
		}
		return c < 0
	})
}

// Collators and Casers are not safe for concurrent use, so each Sort builds
// its own.
func compare(col *collate.Collator, lower cases.Caser, a, b string) int {
	an, aok := dataset.ParseNumber(a)
	bn, bok := dataset.ParseNumber(b)
	switch {
	case aok && bok:
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	case aok:
		return -1
	case bok:
		return 1
	}
	return col.CompareString(lower.String(a), lower.String(b))
}

// Links returns the page numbers to show around current: the first and
// last page, up to pageWindow pages either side of current, and Ellipsis
// where pages are skipped.
func Links(current, totalPages int) []int {
	if totalPages <= 1 {
		return []int{1}
	}
	links := []int{1}
	if current-pageWindow > 2 {
		links = append(links, Ellipsis)
	}
	for p := max(2, current-pageWindow); p <= min(totalPages-1, current+pageWindow); p++ {
		links = append(links, p)
	}
	if current+pageWindow < totalPages-1 {
		links = append(links, Ellipsis)
	}
	return append(links, totalPages)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
