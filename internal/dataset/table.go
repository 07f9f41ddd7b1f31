// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package dataset

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Table is a normalized rectangular dataset: an ordered, unique header list
// and rows that map every header to a string value.
//
// A Table is immutable after construction. Callers that need a different
// shape build a new Table; nothing in this module mutates one in place.
type Table struct {
	version string
	headers []string
	index   map[string]int
	rows    []Row
}

// Row is one record of a Table. Values are aligned to the owning table's
// headers, so a Row always carries exactly the table's key set.
type Row struct {
	table  *Table
	values []string
}

// New builds a Table from raw header and cell slices.
//
// Input is normalized rather than rejected:
//   - blank headers become "Column N" (1-based position)
//   - duplicate headers get a numeric suffix ("Sales", "Sales_2", ...)
//   - short rows are padded with empty strings
//   - cells beyond the header count are dropped
func New(headers []string, cells [][]string) *Table {
	t := &Table{
		version: uuid.New().String(),
		headers: normalizeHeaders(headers),
	}
	t.index = make(map[string]int, len(t.headers))
	for i, h := range t.headers {
		t.index[h] = i
	}

	t.rows = make([]Row, 0, len(cells))
	for _, raw := range cells {
		values := make([]string, len(t.headers))
		copy(values, raw)
		t.rows = append(t.rows, Row{table: t, values: values})
	}
	return t
}

// FromRecords builds a Table from map records. Keys missing from a record map
// to the empty string; keys not present in headers are ignored.
func FromRecords(headers []string, records []map[string]string) *Table {
	cells := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(headers))
		for j, h := range headers {
			row[j] = rec[h]
		}
		cells[i] = row
	}
	return New(headers, cells)
}

// Empty returns a table with no headers and no rows.
func Empty() *Table {
	return New(nil, nil)
}

func normalizeHeaders(in []string) []string {
	out := make([]string, len(in))
	seen := make(map[string]bool, len(in))
	for i, h := range in {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Column %d", i+1)
		}
		if seen[name] {
			for n := 2; ; n++ {
				candidate := fmt.Sprintf("%s_%d", name, n)
				if !seen[candidate] {
					name = candidate
					break
				}
			}
		}
		seen[name] = true
		out[i] = name
	}
	return out
}

// Version identifies this table instance. Two fetches of the same sheet yield
// different versions.
func (t *Table) Version() string { return t.version }

// Headers returns a copy of the header list.
func (t *Table) Headers() []string {
	out := make([]string, len(t.headers))
	copy(out, t.headers)
	return out
}

// HasHeader reports whether name is one of the table's headers.
func (t *Table) HasHeader(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// IsEmpty reports whether the table has no headers or no rows.
func (t *Table) IsEmpty() bool { return len(t.headers) == 0 || len(t.rows) == 0 }

// Row returns the i-th row.
func (t *Table) Row(i int) Row { return t.rows[i] }

// Rows returns the row slice. The slice is shared; rows themselves are
// read-only.
func (t *Table) Rows() []Row { return t.rows }

// Get returns the value of header for this row, or "" when the header is
// unknown.
func (r Row) Get(header string) string {
	if r.table == nil {
		return ""
	}
	i, ok := r.table.index[header]
	if !ok {
		return ""
	}
	return r.values[i]
}

// Values returns a copy of the row's values in header order.
func (r Row) Values() []string {
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

// Record converts the row to a header-keyed map.
func (r Row) Record() map[string]string {
	if r.table == nil {
		return map[string]string{}
	}
	m := make(map[string]string, len(r.values))
	for i, h := range r.table.headers {
		m[h] = r.values[i]
	}
	return m
}

// MarshalJSON encodes the row as an object keyed by header.
func (r Row) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Record())
}

// MarshalJSON encodes the table as {"headers": [...], "data": [...]}, the
// shape returned by the data endpoints.
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Headers []string `json:"headers"`
		Data    []Row    `json:"data"`
	}{
		Headers: t.headers,
		Data:    t.rows,
	})
}
