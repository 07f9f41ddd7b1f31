// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package sheets

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// writeWorkbook saves a workbook with the given sheets (name -> grid) under
// dir/id.xlsx. The first sheet replaces excelize's default "Sheet1".
func writeWorkbook(t *testing.T, dir, id string, order []string, sheets map[string][][]any) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("SetSheetName() error = %v", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("NewSheet() error = %v", err)
		}
		for r, row := range sheets[name] {
			for c, v := range row {
				cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
				if err := f.SetCellValue(name, cell, v); err != nil {
					t.Fatalf("SetCellValue() error = %v", err)
				}
			}
		}
	}
	if err := f.SaveAs(filepath.Join(dir, id+WorkbookExt)); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
}

func newTestWorkbookSource(t *testing.T) *WorkbookSource {
	t.Helper()
	dir := t.TempDir()
	writeWorkbook(t, dir, "sales", []string{"Orders", "Q2"}, map[string][][]any{
		"Orders": {
			{"Product", "Sales", "Region"},
			{"X", 10, "North"},
			{"Y", 20.5, "South"},
			{},
			{"Z", "n/a", "East"},
		},
		"Q2": {
			{"Month", "Revenue"},
			{"Apr", 400},
		},
	})
	return NewWorkbookSource(dir)
}

func TestWorkbookListTabs(t *testing.T) {
	t.Parallel()

	src := newTestWorkbookSource(t)
	info, err := src.ListTabs(context.Background(), "sales")
	if err != nil {
		t.Fatalf("ListTabs() error = %v", err)
	}
	if info.Title != "sales" {
		t.Errorf("Title = %q, want sales", info.Title)
	}
	if len(info.Tabs) != 2 || info.Tabs[0].Title != "Orders" || info.Tabs[1].Title != "Q2" {
		t.Fatalf("Tabs = %+v", info.Tabs)
	}
	if info.Tabs[1].Index != 1 {
		t.Errorf("Index = %d, want 1", info.Tabs[1].Index)
	}

	status, err := TestConnection(context.Background(), src, "sales")
	if err != nil || status.Tabs != 2 {
		t.Errorf("TestConnection() = %+v, %v", status, err)
	}
}

func TestWorkbookFetchDefaultSheet(t *testing.T) {
	t.Parallel()

	src := newTestWorkbookSource(t)
	tbl, err := src.Fetch(context.Background(), "sales", "", "")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	headers := tbl.Headers()
	if len(headers) != 3 || headers[0] != "Product" || headers[2] != "Region" {
		t.Fatalf("headers = %v", headers)
	}
	if tbl.Len() != 3 {
		t.Fatalf("rows = %d, want 3 (blank row dropped)", tbl.Len())
	}
	if got := tbl.Row(1).Get("Sales"); got != "20.5" {
		t.Errorf("Sales = %q, want 20.5", got)
	}
	if got := tbl.Row(2).Get("Product"); got != "Z" {
		t.Errorf("Product = %q, want Z", got)
	}
}

func TestWorkbookFetchNamedSheetAndRange(t *testing.T) {
	t.Parallel()

	src := newTestWorkbookSource(t)

	q2, err := src.Fetch(context.Background(), "sales", "Q2", "")
	if err != nil {
		t.Fatalf("Fetch(Q2) error = %v", err)
	}
	if q2.Len() != 1 || q2.Row(0).Get("Revenue") != "400" {
		t.Errorf("Q2 = %v rows", q2.Len())
	}

	narrow, err := src.Fetch(context.Background(), "sales", "", "A1:B2")
	if err != nil {
		t.Fatalf("Fetch(A1:B2) error = %v", err)
	}
	if h := narrow.Headers(); len(h) != 2 || narrow.Len() != 1 {
		t.Errorf("narrow = %v / %d rows", h, narrow.Len())
	}

	prefixed, err := src.Fetch(context.Background(), "sales", "", "Q2!A1:B5")
	if err != nil || prefixed.Row(0).Get("Month") != "Apr" {
		t.Errorf("sheet-prefixed range failed: %v", err)
	}

	past, err := src.Fetch(context.Background(), "sales", "", "A50:C60")
	if err != nil {
		t.Fatalf("Fetch(out of data) error = %v", err)
	}
	if !past.IsEmpty() {
		t.Error("range past the data should produce an empty table")
	}
}

func TestWorkbookFetchErrors(t *testing.T) {
	t.Parallel()

	src := newTestWorkbookSource(t)
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name      string
		ctx       context.Context
		sourceID  string
		sheet     string
		rangeRef  string
		wantKind  error
		wantCause error
	}{
		{"missing workbook", context.Background(), "nope", "", "", ErrNotFound, nil},
		{"path traversal", context.Background(), "../sales", "", "", ErrNotFound, nil},
		{"missing sheet", context.Background(), "sales", "Q9", "", ErrNotFound, nil},
		{"bad range", context.Background(), "sales", "", "ZZZZ", ErrInvalidRange, nil},
		{"canceled", canceled, "sales", "", "", ErrFetch, context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := src.Fetch(tt.ctx, tt.sourceID, tt.sheet, tt.rangeRef)
			if !errors.Is(err, tt.wantKind) {
				t.Fatalf("Fetch() err = %v, want kind %v", err, tt.wantKind)
			}
			if tt.wantCause != nil && !errors.Is(err, tt.wantCause) {
				t.Errorf("Fetch() err = %v, want cause %v", err, tt.wantCause)
			}
			var fe *FetchError
			if !errors.As(err, &fe) || fe.SourceID != tt.sourceID {
				t.Errorf("expected *FetchError for %q, got %T", tt.sourceID, err)
			}
		})
	}
}

func TestWorkbookAvailable(t *testing.T) {
	t.Parallel()

	src := newTestWorkbookSource(t)
	ids, err := src.Available()
	if err != nil {
		t.Fatalf("Available() error = %v", err)
	}
	if len(ids) != 1 || ids[0] != "sales" {
		t.Errorf("Available() = %v", ids)
	}

	missing := NewWorkbookSource(filepath.Join(t.TempDir(), "absent"))
	if ids, err := missing.Available(); err != nil || len(ids) != 0 {
		t.Errorf("Available() on missing dir = %v, %v", ids, err)
	}
}

func TestParseRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in        string
		wantSheet string
		want      CellRange
		wantErr   bool
	}{
		{"", "", CellRange{1, 1, 26, 1000}, false},
		{"A1:Z1000", "", CellRange{1, 1, 26, 1000}, false},
		{"b2:c5", "", CellRange{2, 2, 3, 5}, false},
		{"C5:B2", "", CellRange{2, 2, 3, 5}, false},
		{"'My Sheet'!A1:B2", "My Sheet", CellRange{1, 1, 2, 2}, false},
		{"D4", "", CellRange{4, 4, 4, 4}, false},
		{"A:B", "", CellRange{}, true},
		{"hello", "", CellRange{}, true},
	}

	for _, tt := range tests {
		sheet, got, err := ParseRange(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRange(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil {
			if !errors.Is(err, ErrInvalidRange) {
				t.Errorf("ParseRange(%q) err = %v, want ErrInvalidRange", tt.in, err)
			}
			continue
		}
		if sheet != tt.wantSheet || got != tt.want {
			t.Errorf("ParseRange(%q) = %q %+v, want %q %+v", tt.in, sheet, got, tt.wantSheet, tt.want)
		}
	}

	if s := (CellRange{1, 1, 26, 1000}).String(); s != "A1:Z1000" {
		t.Errorf("String() = %s", s)
	}
}

func TestClipWidensHeaders(t *testing.T) {
	t.Parallel()

	r := CellRange{1, 1, 26, 1000}
	headers, rows := r.Clip([][]string{
		{"a"},
		{"1", "2"},
		{"", ""},
	})
	if len(headers) != 2 || headers[1] != "" {
		t.Errorf("headers = %v", headers)
	}
	if len(rows) != 1 {
		t.Errorf("rows = %v", rows)
	}
}
