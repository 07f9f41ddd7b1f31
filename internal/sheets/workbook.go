// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package sheets

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tomtom215/sheetlens/internal/dataset"
	"github.com/tomtom215/sheetlens/internal/logging"
)

// WorkbookExt is the file extension of workbook sources.
const WorkbookExt = ".xlsx"

// WorkbookSource reads .xlsx workbooks from a directory. The source id is
// the file name without extension.
type WorkbookSource struct {
	dir string
}

// NewWorkbookSource creates a source rooted at dir.
func NewWorkbookSource(dir string) *WorkbookSource {
	return &WorkbookSource{dir: dir}
}

func (s *WorkbookSource) open(ctx context.Context, op, sourceID string) (*excelize.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, newError(op, sourceID, ErrFetch, err)
	}
	if !ValidSourceID(sourceID) {
		return nil, newError(op, sourceID, ErrNotFound, nil)
	}

	path := filepath.Join(s.dir, sourceID+WorkbookExt)
	f, err := excelize.OpenFile(path)
	switch {
	case err == nil:
		return f, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, newError(op, sourceID, ErrNotFound, nil)
	case errors.Is(err, fs.ErrPermission):
		return nil, newError(op, sourceID, ErrPermissionDenied, err)
	default:
		return nil, newError(op, sourceID, ErrFetch, err)
	}
}

func closeWorkbook(f *excelize.File, sourceID string) {
	if err := f.Close(); err != nil {
		logging.Warn().Err(err).Str("source_id", sourceID).Msg("Failed to close workbook")
	}
}

// ListTabs implements Source.
func (s *WorkbookSource) ListTabs(ctx context.Context, sourceID string) (*SheetInfo, error) {
	f, err := s.open(ctx, "list", sourceID)
	if err != nil {
		return nil, err
	}
	defer closeWorkbook(f, sourceID)

	info := &SheetInfo{Title: sourceID, Tabs: []Tab{}}
	if props, err := f.GetDocProps(); err == nil && strings.TrimSpace(props.Title) != "" {
		info.Title = props.Title
	}
	for i, name := range f.GetSheetList() {
		id, err := f.GetSheetIndex(name)
		if err != nil {
			id = i
		}
		info.Tabs = append(info.Tabs, Tab{ID: id, Title: name, Index: i})
	}
	return info, nil
}

// Fetch implements Source.
func (s *WorkbookSource) Fetch(ctx context.Context, sourceID, sheetName, rangeRef string) (*dataset.Table, error) {
	rangeSheet, cells, err := ParseRange(rangeRef)
	if err != nil {
		return nil, newError("fetch", sourceID, ErrInvalidRange, err)
	}
	if sheetName == "" {
		sheetName = rangeSheet
	}

	f, err := s.open(ctx, "fetch", sourceID)
	if err != nil {
		return nil, err
	}
	defer closeWorkbook(f, sourceID)

	sheetList := f.GetSheetList()
	if len(sheetList) == 0 {
		return dataset.Empty(), nil
	}
	if sheetName == "" {
		sheetName = sheetList[0]
	} else if !containsSheet(sheetList, sheetName) {
		return nil, newError("fetch", sourceID, ErrNotFound, errors.New("no sheet named "+sheetName))
	}

	grid, err := f.GetRows(sheetName)
	if err != nil {
		return nil, newError("fetch", sourceID, ErrFetch, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, newError("fetch", sourceID, ErrFetch, err)
	}

	headers, rows := cells.Clip(grid)
	return dataset.New(headers, rows), nil
}

func containsSheet(list []string, name string) bool {
	for _, s := range list {
		if s == name {
			return true
		}
	}
	return false
}

// Available lists the source ids present in the directory.
func (s *WorkbookSource) Available() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), WorkbookExt) {
			continue
		}
		id := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if ValidSourceID(id) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
